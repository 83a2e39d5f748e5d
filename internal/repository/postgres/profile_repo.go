package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const profileColumns = `id, display_name, main_email, tee_shirt_size, conference_keys_to_attend, session_keys_wishlist`

type profileRepository struct {
	DB dbtx
}

func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{
		DB: db,
	}
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, display_name, main_email, tee_shirt_size, conference_keys_to_attend, session_keys_wishlist)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query, p.ID, p.DisplayName, p.MainEmail, string(p.TeeShirtSize),
		stringArray(p.ConferenceKeysToAttend), stringArray(p.SessionKeysWishlist))
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.get(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
}

func (r *profileRepository) GetForUpdate(ctx context.Context, id string) (*domain.Profile, error) {
	return r.get(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1 FOR UPDATE`, id)
}

func (r *profileRepository) get(ctx context.Context, query, id string) (*domain.Profile, error) {
	p, err := scanProfile(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Profile, error) {
	if len(ids) == 0 {
		return []*domain.Profile{}, nil
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	profiles := make([]*domain.Profile, 0, len(ids))
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orderByIDs(profiles, ids, func(p *domain.Profile) string { return p.ID }), nil
}

func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $2, tee_shirt_size = $3, conference_keys_to_attend = $4, session_keys_wishlist = $5
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, p.ID, p.DisplayName, string(p.TeeShirtSize),
		stringArray(p.ConferenceKeysToAttend), stringArray(p.SessionKeysWishlist))
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	p := &domain.Profile{}
	var size string
	if err := row.Scan(&p.ID, &p.DisplayName, &p.MainEmail, &size,
		pq.Array(&p.ConferenceKeysToAttend), pq.Array(&p.SessionKeysWishlist)); err != nil {
		return nil, err
	}
	p.TeeShirtSize = domain.TeeShirtSize(size)
	if p.ConferenceKeysToAttend == nil {
		p.ConferenceKeysToAttend = []string{}
	}
	if p.SessionKeysWishlist == nil {
		p.SessionKeysWishlist = []string{}
	}
	return p, nil
}
