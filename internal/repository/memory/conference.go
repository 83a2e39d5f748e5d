package memory

import (
	"cmp"
	"context"
	"slices"

	"conferencecentral/internal/domain"
)

type conferenceRepository struct {
	base
}

func (r *conferenceRepository) Create(_ context.Context, c *domain.Conference) error {
	return r.write(func(st *state) error {
		c.ID = r.store.newID()
		stored := c.Clone()
		stored.OrganizerDisplayName = ""
		st.conferences[c.ID] = stored
		return nil
	})
}

func (r *conferenceRepository) GetByID(_ context.Context, id string) (*domain.Conference, error) {
	var out *domain.Conference
	err := r.read(func(st *state) error {
		c, ok := st.conferences[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = c.Clone()
		return nil
	})
	return out, err
}

// GetForUpdate is GetByID; transactions already hold the store lock.
func (r *conferenceRepository) GetForUpdate(ctx context.Context, id string) (*domain.Conference, error) {
	return r.GetByID(ctx, id)
}

func (r *conferenceRepository) Update(_ context.Context, c *domain.Conference) error {
	return r.write(func(st *state) error {
		if _, ok := st.conferences[c.ID]; !ok {
			return domain.ErrNotFound
		}
		stored := c.Clone()
		stored.OrganizerDisplayName = ""
		st.conferences[c.ID] = stored
		return nil
	})
}

func (r *conferenceRepository) ListByOrganizer(_ context.Context, organizerID string) ([]*domain.Conference, error) {
	return r.list(func(c *domain.Conference) bool { return c.OrganizerID == organizerID })
}

func (r *conferenceRepository) ListByIDs(_ context.Context, ids []string) ([]*domain.Conference, error) {
	var out []*domain.Conference
	err := r.read(func(st *state) error {
		out = collectByIDs(st.conferences, ids, (*domain.Conference).Clone)
		return nil
	})
	return out, err
}

func (r *conferenceRepository) Query(_ context.Context, plan *domain.QueryPlan) ([]*domain.Conference, error) {
	out, err := r.list(func(c *domain.Conference) bool {
		for _, p := range plan.Predicates {
			if !p.Match(conferenceAttr(c, p.Attr)) {
				return false
			}
		}
		return true
	})
	if err != nil || plan.SortKey == nil {
		return out, err
	}
	key := *plan.SortKey
	slices.SortStableFunc(out, func(a, b *domain.Conference) int {
		return cmp.Or(
			domain.CompareValues(conferenceAttr(a, key), conferenceAttr(b, key)),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return out, nil
}

func (r *conferenceRepository) ListNearlySoldOutNames(_ context.Context, maxSeats int) ([]string, error) {
	confs, err := r.list(func(c *domain.Conference) bool {
		return c.SeatsAvailable > 0 && c.SeatsAvailable <= maxSeats
	})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(confs))
	for _, c := range confs {
		names = append(names, c.Name)
	}
	return names, nil
}

// list returns clones of matching conferences ordered by name, then id.
func (r *conferenceRepository) list(match func(*domain.Conference) bool) ([]*domain.Conference, error) {
	out := make([]*domain.Conference, 0)
	err := r.read(func(st *state) error {
		for _, c := range st.conferences {
			if match(c) {
				out = append(out, c.Clone())
			}
		}
		return nil
	})
	slices.SortFunc(out, byNameThenID(
		func(c *domain.Conference) string { return c.Name },
		func(c *domain.Conference) string { return c.ID },
	))
	return out, err
}

func conferenceAttr(c *domain.Conference, attr domain.Attribute) any {
	switch attr {
	case domain.AttrCity:
		return c.City
	case domain.AttrTopics:
		return c.Topics
	case domain.AttrMonth:
		return c.Month
	case domain.AttrMaxAttendees:
		return c.MaxAttendees
	case domain.AttrConferenceName:
		return c.Name
	default:
		return nil
	}
}
