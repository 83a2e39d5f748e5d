package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const conferenceColumns = `id, organizer_user_id, name, description, topics, city, start_date, end_date, month, max_attendees, seats_available`

type conferenceRepository struct {
	DB dbtx
}

func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{
		DB: db,
	}
}

func (r *conferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	query := `
		INSERT INTO conferences (organizer_user_id, name, description, topics, city, start_date, end_date, month, max_attendees, seats_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, c.OrganizerID, c.Name, c.Description, stringArray(c.Topics), c.City,
		c.StartDate, c.EndDate, c.Month, c.MaxAttendees, c.SeatsAvailable).Scan(&c.ID)
	if isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	if isCheckViolation(err) {
		return domain.ErrInvalidArgument
	}
	return err
}

func (r *conferenceRepository) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	return r.get(ctx, `SELECT `+conferenceColumns+` FROM conferences WHERE id = $1`, id)
}

func (r *conferenceRepository) GetForUpdate(ctx context.Context, id string) (*domain.Conference, error) {
	return r.get(ctx, `SELECT `+conferenceColumns+` FROM conferences WHERE id = $1 FOR UPDATE`, id)
}

func (r *conferenceRepository) get(ctx context.Context, query, id string) (*domain.Conference, error) {
	c, err := scanConference(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *conferenceRepository) Update(ctx context.Context, c *domain.Conference) error {
	query := `
		UPDATE conferences
		SET name = $2, description = $3, topics = $4, city = $5, start_date = $6, end_date = $7,
		    month = $8, max_attendees = $9, seats_available = $10
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, c.ID, c.Name, c.Description, stringArray(c.Topics), c.City,
		c.StartDate, c.EndDate, c.Month, c.MaxAttendees, c.SeatsAvailable)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *conferenceRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE organizer_user_id = $1 ORDER BY ` + nameOrder
	return r.list(ctx, query, organizerID)
}

func (r *conferenceRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Conference, error) {
	if len(ids) == 0 {
		return []*domain.Conference{}, nil
	}
	confs, err := r.list(ctx, `SELECT `+conferenceColumns+` FROM conferences WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return orderByIDs(confs, ids, func(c *domain.Conference) string { return c.ID }), nil
}

func (r *conferenceRepository) Query(ctx context.Context, plan *domain.QueryPlan) ([]*domain.Conference, error) {
	where, order, args, err := buildFilterSQL(plan, conferenceFilterColumns, "id")
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE ` + where + ` ORDER BY ` + order
	return r.list(ctx, query, args...)
}

func (r *conferenceRepository) ListNearlySoldOutNames(ctx context.Context, maxSeats int) ([]string, error) {
	query := `
		SELECT name FROM conferences
		WHERE seats_available > 0 AND seats_available <= $1
		ORDER BY ` + nameOrder
	rows, err := r.DB.QueryContext(ctx, query, maxSeats)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *conferenceRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Conference, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	confs := make([]*domain.Conference, 0)
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		confs = append(confs, c)
	}
	return confs, rows.Err()
}

func scanConference(row rowScanner) (*domain.Conference, error) {
	c := &domain.Conference{}
	var startNull, endNull sql.NullTime
	if err := row.Scan(&c.ID, &c.OrganizerID, &c.Name, &c.Description, pq.Array(&c.Topics), &c.City,
		&startNull, &endNull, &c.Month, &c.MaxAttendees, &c.SeatsAvailable); err != nil {
		return nil, err
	}
	c.StartDate = nullTimePtr(startNull)
	c.EndDate = nullTimePtr(endNull)
	if c.Topics == nil {
		c.Topics = []string{}
	}
	return c, nil
}
