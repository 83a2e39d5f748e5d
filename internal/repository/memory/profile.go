package memory

import (
	"context"

	"conferencecentral/internal/domain"
)

type profileRepository struct {
	base
}

func (r *profileRepository) Create(_ context.Context, p *domain.Profile) error {
	return r.write(func(st *state) error {
		if _, ok := st.profiles[p.ID]; ok {
			return domain.ErrConflict
		}
		st.profiles[p.ID] = p.Clone()
		return nil
	})
}

func (r *profileRepository) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	var out *domain.Profile
	err := r.read(func(st *state) error {
		p, ok := st.profiles[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = p.Clone()
		return nil
	})
	return out, err
}

// GetForUpdate is GetByID; transactions already hold the store lock.
func (r *profileRepository) GetForUpdate(ctx context.Context, id string) (*domain.Profile, error) {
	return r.GetByID(ctx, id)
}

func (r *profileRepository) ListByIDs(_ context.Context, ids []string) ([]*domain.Profile, error) {
	var out []*domain.Profile
	err := r.read(func(st *state) error {
		out = collectByIDs(st.profiles, ids, (*domain.Profile).Clone)
		return nil
	})
	return out, err
}

func (r *profileRepository) Update(_ context.Context, p *domain.Profile) error {
	return r.write(func(st *state) error {
		if _, ok := st.profiles[p.ID]; !ok {
			return domain.ErrNotFound
		}
		st.profiles[p.ID] = p.Clone()
		return nil
	})
}
