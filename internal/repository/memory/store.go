// Package memory implements the catalog store in process memory. Transactions are serialized
// and run against a cloned state that replaces the live state only when fn succeeds.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"conferencecentral/internal/domain"
)

type state struct {
	profiles    map[string]*domain.Profile
	conferences map[string]*domain.Conference
	sessions    map[string]*domain.Session
	speakers    map[string]*domain.Speaker
}

func newState() state {
	return state{
		profiles:    make(map[string]*domain.Profile),
		conferences: make(map[string]*domain.Conference),
		sessions:    make(map[string]*domain.Session),
		speakers:    make(map[string]*domain.Speaker),
	}
}

func (s state) clone() state {
	out := newState()
	for k, v := range s.profiles {
		out.profiles[k] = v.Clone()
	}
	for k, v := range s.conferences {
		out.conferences[k] = v.Clone()
	}
	for k, v := range s.sessions {
		out.sessions[k] = v.Clone()
	}
	for k, v := range s.speakers {
		out.speakers[k] = v.Clone()
	}
	return out
}

// Store is an in-memory catalog store. The zero value is not usable; call New.
type Store struct {
	mu    sync.RWMutex
	state state
	newID func() string
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		state: newState(),
		newID: uuid.NewString,
	}
}

// Repositories returns repositories that operate on the live state outside any transaction.
func (s *Store) Repositories() domain.Repositories {
	return s.repositories(nil)
}

func (s *Store) repositories(tx *state) domain.Repositories {
	b := base{store: s, tx: tx}
	return domain.Repositories{
		Profiles:    &profileRepository{base: b},
		Conferences: &conferenceRepository{base: b},
		Sessions:    &sessionRepository{base: b},
		Speakers:    &speakerRepository{base: b},
	}
}

// WithinTx implements domain.Transactor. The store is exclusively locked while fn runs, so
// fn must only use the repositories it is given.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	tx := s.state.clone()
	if err := fn(ctx, s.repositories(&tx)); err != nil {
		return err
	}
	s.state = tx
	return nil
}

type base struct {
	store *Store
	tx    *state
}

func (b base) read(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	return fn(&b.store.state)
}

func (b base) write(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(&b.store.state)
}

// byNameThenID orders results the way the postgres store does.
func byNameThenID[T any](name, id func(T) string) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Or(cmp.Compare(name(a), name(b)), cmp.Compare(id(a), id(b)))
	}
}

// collectByIDs returns clones of the entries for ids, in ids order, skipping unknown ids.
func collectByIDs[T any](m map[string]*T, ids []string, clone func(*T) *T) []*T {
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		if v, ok := m[id]; ok {
			out = append(out, clone(v))
		}
	}
	return out
}

func intersects(a, b []string) bool {
	return slices.ContainsFunc(a, func(s string) bool { return slices.Contains(b, s) })
}
