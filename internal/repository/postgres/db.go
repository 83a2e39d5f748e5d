package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens a lib/pq connection pool and pings it.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded schema migrations. It is a no-op when the schema is current.
func Migrate(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// NewRepositories returns repositories bound to the connection pool.
func NewRepositories(db *sql.DB) domain.Repositories {
	return repositories(db)
}

func repositories(db dbtx) domain.Repositories {
	return domain.Repositories{
		Profiles:    &profileRepository{DB: db},
		Conferences: &conferenceRepository{DB: db},
		Sessions:    &sessionRepository{DB: db},
		Speakers:    &speakerRepository{DB: db},
	}
}

type transactor struct {
	DB *sql.DB
}

// NewTransactor returns a Transactor running units of work in READ COMMITTED transactions.
// Repositories lock the rows they mutate with GetForUpdate.
func NewTransactor(db *sql.DB) domain.Transactor {
	return &transactor{DB: db}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	tx, err := t.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(ctx, repositories(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var perr *pq.Error
	return errors.As(err, &perr) && perr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var perr *pq.Error
	return errors.As(err, &perr) && perr.Code == "23503"
}

func isCheckViolation(err error) bool {
	var perr *pq.Error
	return errors.As(err, &perr) && perr.Code == "23514"
}

// orderByIDs reorders items to follow ids, dropping ids that were not found.
func orderByIDs[T any](items []T, ids []string, id func(T) string) []T {
	byID := make(map[string]T, len(items))
	for _, it := range items {
		byID[id(it)] = it
	}
	out := make([]T, 0, len(ids))
	for _, want := range ids {
		if it, ok := byID[want]; ok {
			out = append(out, it)
		}
	}
	return out
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
