package memory

import (
	"cmp"
	"context"
	"slices"

	"conferencecentral/internal/domain"
)

type speakerRepository struct {
	base
}

func (r *speakerRepository) Create(_ context.Context, s *domain.Speaker) error {
	return r.write(func(st *state) error {
		if _, ok := st.speakers[s.Email]; ok {
			return domain.ErrSpeakerExists
		}
		st.speakers[s.Email] = s.Clone()
		return nil
	})
}

func (r *speakerRepository) GetByEmail(_ context.Context, email string) (*domain.Speaker, error) {
	var out *domain.Speaker
	err := r.read(func(st *state) error {
		s, ok := st.speakers[email]
		if !ok {
			return domain.ErrNotFound
		}
		out = s.Clone()
		return nil
	})
	return out, err
}

func (r *speakerRepository) Query(_ context.Context, plan *domain.QueryPlan) ([]*domain.Speaker, error) {
	out, err := r.list(func(s *domain.Speaker) bool {
		for _, p := range plan.Predicates {
			if !p.Match(speakerAttr(s, p.Attr)) {
				return false
			}
		}
		return true
	})
	if err != nil || plan.SortKey == nil {
		return out, err
	}
	key := *plan.SortKey
	slices.SortStableFunc(out, func(a, b *domain.Speaker) int {
		return cmp.Or(
			domain.CompareValues(speakerAttr(a, key), speakerAttr(b, key)),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.Email, b.Email),
		)
	})
	return out, nil
}

func (r *speakerRepository) ListByFields(_ context.Context, fields []string) ([]*domain.Speaker, error) {
	return r.list(func(s *domain.Speaker) bool { return intersects(s.Field, fields) })
}

func (r *speakerRepository) list(match func(*domain.Speaker) bool) ([]*domain.Speaker, error) {
	out := make([]*domain.Speaker, 0)
	err := r.read(func(st *state) error {
		for _, s := range st.speakers {
			if match(s) {
				out = append(out, s.Clone())
			}
		}
		return nil
	})
	slices.SortFunc(out, byNameThenID(
		func(s *domain.Speaker) string { return s.Name },
		func(s *domain.Speaker) string { return s.Email },
	))
	return out, err
}

func speakerAttr(s *domain.Speaker, attr domain.Attribute) any {
	switch attr {
	case domain.AttrSpeakerName:
		return s.Name
	case domain.AttrCompany:
		return s.Company
	case domain.AttrSex:
		return s.Sex
	case domain.AttrSpeakerField:
		return s.Field
	default:
		return nil
	}
}
