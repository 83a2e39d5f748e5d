// Package main is the entry point for the Conference Central API server.
//
// @title Conference Central API
// @version 1.0
// @description Conference management: conferences, registrations, speakers, sessions and wishlists.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer access token issued by the identity provider.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conferencecentral/config"
	"conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/adapters/cache"
	"conferencecentral/internal/adapters/email"
	"conferencecentral/internal/adapters/queue"
	delivery "conferencecentral/internal/delivery/http"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/tasks"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/repository/memory"
	"conferencecentral/internal/repository/postgres"
	"conferencecentral/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

type store struct {
	repos      domain.Repositories
	transactor domain.Transactor
	health     delivery.HealthFunc
	close      func() error
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case "memory":
		logger.Warn("using in-memory store; data is lost on restart")
		s := memory.New()
		return &store{repos: s.Repositories(), transactor: s, close: func() error { return nil }}, nil
	case "postgres":
		db, err := postgres.Open(ctx, cfg.Store.DBUrl)
		if err != nil {
			return nil, err
		}
		if cfg.Store.RunMigrations {
			if err := postgres.Migrate(db); err != nil {
				_ = db.Close()
				return nil, err
			}
			logger.Info("database migrations applied")
		}
		return &store{
			repos:      postgres.NewRepositories(db),
			transactor: postgres.NewTransactor(db),
			health:     db.PingContext,
			close:      db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.close(); err != nil {
			logger.Error("close store", "err", err)
		}
	}()

	queueCfg := queue.DefaultConfig()
	queueCfg.RetryMaxRetries = cfg.Queue.RetryMax
	queueCfg.RetryInitialInterval = cfg.Queue.RetryInitialInterval
	q, err := queue.New(queueCfg, logger)
	if err != nil {
		return fmt.Errorf("create task queue: %w", err)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("load email templates: %w", err)
	}

	repos := st.repos
	timeout := cfg.Services.ContextTimeout
	c := cache.NewMemoryCache(cfg.Cache.CleanupInterval)

	announcementService := services.NewAnnouncementService(repos.Conferences, c, timeout)
	featuredSpeakerService := services.NewFeaturedSpeakerService(repos.Sessions, repos.Speakers, c, logger, timeout)
	profileService := services.NewProfileService(repos.Profiles, st.transactor, timeout)
	conferenceService := services.NewConferenceService(repos.Conferences, repos.Profiles, st.transactor, q, logger, timeout)
	registrationService := services.NewRegistrationService(st.transactor, repos.Profiles, repos.Conferences, q, logger, timeout)
	speakerService := services.NewSpeakerService(repos.Speakers, timeout)
	sessionService := services.NewSessionService(repos.Conferences, repos.Speakers, repos.Sessions, q, logger, timeout)
	wishlistService := services.NewWishlistService(st.transactor, repos.Profiles, repos.Sessions, timeout)
	emailService := services.NewEmailService(mailer, renderer, logger)

	handlers := &tasks.Handlers{
		EmailService:           emailService,
		FeaturedSpeakerService: featuredSpeakerService,
		AnnouncementService:    announcementService,
	}
	handlers.Register(q)

	queueErr := make(chan error, 1)
	go func() { queueErr <- q.Run(ctx) }()
	select {
	case <-q.Running():
	case err := <-queueErr:
		return fmt.Errorf("start task queue: %w", err)
	}
	defer func() {
		if err := q.Close(); err != nil {
			logger.Error("close task queue", "err", err)
		}
	}()

	if err := announcementService.Rebuild(ctx); err != nil {
		logger.Warn("initial announcement rebuild failed", "err", err)
	}
	go refreshAnnouncements(ctx, announcementService, cfg.Services.AnnouncementInterval, logger)

	mux := delivery.NewRouter(delivery.Controllers{
		Conferences:   controllers.NewConferenceController(logger, conferenceService),
		Registrations: controllers.NewRegistrationController(logger, registrationService),
		Profiles:      controllers.NewProfileController(logger, profileService),
		Speakers:      controllers.NewSpeakerController(logger, speakerService),
		Sessions:      controllers.NewSessionController(logger, sessionService),
		Wishlist:      controllers.NewWishlistController(logger, wishlistService),
		Announcements: controllers.NewAnnouncementController(logger, announcementService, featuredSpeakerService),
	}, auth.NewJWTVerifier(cfg.Auth.JWTSecret), st.health, logger)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: delivery.Handler(mux, delivery.MiddlewareConfig{
			CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
			RateLimitRequests:  cfg.HTTP.RateLimitRequests,
			RateLimitWindow:    cfg.HTTP.RateLimitWindow,
		}, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "store", cfg.Store.Driver, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case err := <-queueErr:
		if err != nil {
			logger.Error("task queue stopped", "err", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// refreshAnnouncements rebuilds the announcement slot on a fixed interval until ctx ends.
func refreshAnnouncements(ctx context.Context, svc domain.AnnouncementService, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.Rebuild(ctx); err != nil {
				logger.WarnContext(ctx, "announcement rebuild failed", "err", err)
			}
		}
	}
}
