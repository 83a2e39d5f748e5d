package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const speakerColumns = `email, name, company, sex, field`

type speakerRepository struct {
	DB dbtx
}

func NewSpeakerRepository(db *sql.DB) domain.SpeakerRepository {
	return &speakerRepository{
		DB: db,
	}
}

func (r *speakerRepository) Create(ctx context.Context, s *domain.Speaker) error {
	query := `
		INSERT INTO speakers (email, name, company, sex, field)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, s.Email, s.Name, s.Company, s.Sex, stringArray(s.Field))
	if isUniqueViolation(err) {
		return domain.ErrSpeakerExists
	}
	return err
}

func (r *speakerRepository) GetByEmail(ctx context.Context, email string) (*domain.Speaker, error) {
	s, err := scanSpeaker(r.DB.QueryRowContext(ctx, `SELECT `+speakerColumns+` FROM speakers WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *speakerRepository) Query(ctx context.Context, plan *domain.QueryPlan) ([]*domain.Speaker, error) {
	where, order, args, err := buildFilterSQL(plan, speakerFilterColumns, "email")
	if err != nil {
		return nil, err
	}
	return r.list(ctx, `SELECT `+speakerColumns+` FROM speakers WHERE `+where+` ORDER BY `+order, args...)
}

func (r *speakerRepository) ListByFields(ctx context.Context, fields []string) ([]*domain.Speaker, error) {
	return r.list(ctx, `SELECT `+speakerColumns+` FROM speakers WHERE field && $1 ORDER BY `+collated("name")+`, `+collated("email"), stringArray(fields))
}

func (r *speakerRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Speaker, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	speakers := make([]*domain.Speaker, 0)
	for rows.Next() {
		s, err := scanSpeaker(rows)
		if err != nil {
			return nil, err
		}
		speakers = append(speakers, s)
	}
	return speakers, rows.Err()
}

func scanSpeaker(row rowScanner) (*domain.Speaker, error) {
	s := &domain.Speaker{}
	if err := row.Scan(&s.Email, &s.Name, &s.Company, &s.Sex, pq.Array(&s.Field)); err != nil {
		return nil, err
	}
	if s.Field == nil {
		s.Field = []string{}
	}
	return s, nil
}
