package domain

import "context"

// Repositories groups the repositories bound to one unit of work.
type Repositories struct {
	Profiles    ProfileRepository
	Conferences ConferenceRepository
	Sessions    SessionRepository
	Speakers    SpeakerRepository
}

// Transactor runs fn atomically. Repositories passed to fn see the transaction; if fn returns
// an error nothing it wrote is persisted. Transactions may span profiles and conferences.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
