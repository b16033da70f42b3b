package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
)

// Remote is the backend holding the authoritative copy of the ledger.
//
//go:generate mockgen -source=remote.go -destination=remote_mock.go -package=ledger
type Remote interface {
	// FetchAll returns every entry, sorted by order when ordered is set.
	FetchAll(ctx context.Context, ordered bool) ([]*entry.Entry, error)
	// Insert stores e. If e.ID is uuid.Nil the backend assigns one and
	// writes it back to e.
	Insert(ctx context.Context, e *entry.Entry) error
	Update(ctx context.Context, id uuid.UUID, p entry.Patch) error
	Delete(ctx context.Context, id uuid.UUID) error
	// UpsertOrder writes the order of every entry in batch in one call.
	UpsertOrder(ctx context.Context, batch []entry.Position) error
	// Subscribe starts delivering change events to fn until ctx is done.
	// fn may be called from any goroutine.
	Subscribe(ctx context.Context, fn func(entry.Event)) error
}

// Notifier shows command outcomes to the user.
type Notifier interface {
	Error(msg string, err error)
	Success(msg string)
}
