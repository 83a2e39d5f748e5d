package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"conferencecentral/internal/logging"
	"conferencecentral/internal/metrics"
)

// PoisonTopic receives tasks that still fail after all retries.
const PoisonTopic = "tasks_poisoned"

const requestIDMetadataKey = "request_id"

// Config tunes the in-process work queue.
type Config struct {
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	CloseTimeout         time.Duration
	OutputBuffer         int64
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		RetryMaxRetries:      3,
		RetryInitialInterval: 500 * time.Millisecond,
		RetryMaxInterval:     30 * time.Second,
		CloseTimeout:         10 * time.Second,
		OutputBuffer:         256,
	}
}

// HandlerFunc processes one task payload. A returned error triggers a retry.
type HandlerFunc func(ctx context.Context, payload []byte) error

// Queue is a fire-and-forget task queue on a watermill gochannel pub/sub. Tasks are JSON encoded
// and dispatched by a router that retries failures with exponential backoff and routes exhausted
// tasks to PoisonTopic.
type Queue struct {
	pubSub *gochannel.GoChannel
	router *message.Router
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Queue, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.OutputBuffer,
	}, wmLogger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	poisonQueue, err := middleware.PoisonQueue(pubSub, PoisonTopic)
	if err != nil {
		return nil, fmt.Errorf("create poison queue middleware: %w", err)
	}
	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      2,
		Logger:          wmLogger,
	}
	// Outermost first: exhausted retries are poisoned, panics become retryable errors.
	router.AddMiddleware(poisonQueue, retry.Middleware, middleware.Recoverer)

	q := &Queue{pubSub: pubSub, router: router, logger: logger}
	router.AddConsumerHandler("poisoned_tasks", PoisonTopic, pubSub, q.handlePoisoned)
	return q, nil
}

// Enqueue publishes payload as JSON on the topic name. It returns once the message is handed to
// the pub/sub; handlers run asynchronously.
func (q *Queue) Enqueue(ctx context.Context, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		metrics.TasksEnqueueErrors.WithLabelValues(name).Inc()
		return fmt.Errorf("encode %s task: %w", name, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set(requestIDMetadataKey, id)
	}
	if err := q.pubSub.Publish(name, msg); err != nil {
		metrics.TasksEnqueueErrors.WithLabelValues(name).Inc()
		return fmt.Errorf("publish %s task: %w", name, err)
	}
	return nil
}

// Handle registers handler for the topic. It must be called before Run.
func (q *Queue) Handle(topic string, handler HandlerFunc) {
	q.router.AddConsumerHandler(topic, topic, q.pubSub, func(msg *message.Message) error {
		ctx := msg.Context()
		if id := msg.Metadata.Get(requestIDMetadataKey); id != "" {
			ctx = logging.WithRequestID(ctx, id)
		}
		err := handler(ctx, msg.Payload)
		metrics.RecordTask(topic, err)
		if err != nil {
			q.logger.WarnContext(ctx, "task failed", "task", topic, "message_id", msg.UUID, "err", err)
		}
		return err
	})
}

func (q *Queue) handlePoisoned(msg *message.Message) error {
	ctx := msg.Context()
	if id := msg.Metadata.Get(requestIDMetadataKey); id != "" {
		ctx = logging.WithRequestID(ctx, id)
	}
	q.logger.ErrorContext(ctx, "task dropped after retries",
		"task", msg.Metadata.Get(middleware.PoisonedTopicKey),
		"message_id", msg.UUID,
		"reason", msg.Metadata.Get(middleware.ReasonForPoisonedKey),
	)
	return nil
}

// Run starts dispatching and blocks until ctx is cancelled or Close is called.
func (q *Queue) Run(ctx context.Context) error {
	return q.router.Run(ctx)
}

// Running is closed once all handlers are subscribed.
func (q *Queue) Running() <-chan struct{} {
	return q.router.Running()
}

// Close stops the router, waiting up to CloseTimeout for in-flight handlers, then closes the pub/sub.
func (q *Queue) Close() error {
	if err := q.router.Close(); err != nil {
		return fmt.Errorf("close router: %w", err)
	}
	return q.pubSub.Close()
}
