package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
)

// Load replaces the ledger with the remote contents and starts listening to
// the change feed. The feed is subscribed to once per store.
func (s *Store) Load(ctx context.Context) error {
	if err := s.do(func() {
		s.loaded = false
		s.changed()
	}); err != nil {
		return err
	}

	entries, err := s.remote.FetchAll(ctx, s.opts.Ordering)
	if err != nil {
		s.notifier.Error("Could not load entries", err)
		return fmt.Errorf("%w: fetching entries: %w", ErrLoadFailed, err)
	}

	var subscribe bool

	if err := s.do(func() {
		s.entries = entries
		s.loaded = true
		subscribe = !s.subscribed
		s.subscribed = true
		s.changed()
	}); err != nil {
		return err
	}

	if !subscribe {
		return nil
	}

	if err := s.remote.Subscribe(s.ctx, s.handleEvent); err != nil {
		_ = s.do(func() { s.subscribed = false })

		s.notifier.Error("Could not subscribe to entry changes", err)

		return fmt.Errorf("subscribing to changes: %w", err)
	}

	return nil
}

// AddEntry creates an entry from the form. New entries are never paid, and
// an empty amount is stored as zero.
func (s *Store) AddEntry(ctx context.Context, form entry.Form) error {
	e := &entry.Entry{
		Name:   form.Name,
		Amount: decimal.NewNullDecimal(decimal.Zero),
		Paid:   false,
	}

	if form.Amount != nil {
		e.Amount = decimal.NewNullDecimal(*form.Amount)
	}

	if s.opts.IDs == IDClient {
		e.ID = uuid.New()
	}

	if err := s.do(func() {
		if s.opts.Ordering {
			e.Order = nextOrder(s.entries)
		}

		if s.opts.IDs == IDClient {
			s.entries = append(s.entries, e.Clone())
			s.changed()
		}
	}); err != nil {
		return err
	}

	if err := s.remote.Insert(ctx, e); err != nil {
		s.notifier.Error("Could not add entry", err)
		return fmt.Errorf("%w: inserting entry: %w", ErrMutationFailed, err)
	}

	return nil
}

// DeleteEntry deletes the entry remotely and drops it locally once the
// backend confirms. A failed delete leaves the local entry in place.
func (s *Store) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if err := s.remote.Delete(ctx, id); err != nil {
		s.notifier.Error("Could not delete entry", err)
		return fmt.Errorf("%w: deleting entry %s: %w", ErrMutationFailed, id, err)
	}

	var hooks []func(uuid.UUID)

	if err := s.do(func() {
		if s.remove(id) {
			s.changed()
		}

		hooks = s.onDeleted
	}); err != nil {
		return err
	}

	s.notifier.Success("Entry deleted")

	for _, fn := range hooks {
		fn(id)
	}

	return nil
}

// UpdateEntry applies the patch locally right away and sends it to the
// backend. If the backend rejects it the entry is restored to its previous
// values.
func (s *Store) UpdateEntry(ctx context.Context, id uuid.UUID, p entry.Patch) error {
	var before *entry.Entry

	if err := s.do(func() {
		e := s.find(id)
		if e == nil {
			return
		}

		before = e.Clone()
		e.Apply(p)
		s.changed()
	}); err != nil {
		return err
	}

	if before == nil {
		s.notifier.Error("Could not update entry", entry.ErrNotFound)
		return fmt.Errorf("updating entry %s: %w", id, entry.ErrNotFound)
	}

	if err := s.remote.Update(ctx, id, p); err != nil {
		_ = s.do(func() {
			if s.restore(before) {
				s.changed()
			}
		})

		s.notifier.Error("Could not update entry", err)

		return fmt.Errorf("%w: updating entry %s: %w", ErrMutationFailed, id, err)
	}

	return nil
}

// restore puts the saved values back onto the entry with the same id. The
// entry is looked up again because the ledger may have been reordered while
// the remote call was in flight.
func (s *Store) restore(saved *entry.Entry) bool {
	e := s.find(saved.ID)
	if e == nil {
		return false
	}

	*e = *saved

	return true
}

// SortEnd moves the entry at oldIndex to newIndex, as reported by a drag and
// drop, and persists the new order when ordering is enabled.
func (s *Store) SortEnd(ctx context.Context, oldIndex, newIndex int) error {
	var moveErr error

	if err := s.do(func() {
		s.entries, moveErr = move(s.entries, oldIndex, newIndex)
		if moveErr == nil {
			s.changed()
		}
	}); err != nil {
		return err
	}

	if moveErr != nil {
		return fmt.Errorf("moving entry from %d to %d: %w", oldIndex, newIndex, moveErr)
	}

	if !s.opts.Ordering {
		return nil
	}

	return s.RenumberAndPersist(ctx)
}

// RenumberAndPersist sets order 1..N from the current positions and writes
// all of them in one batch. A failed write is reported but the local order
// is kept.
func (s *Store) RenumberAndPersist(ctx context.Context) error {
	var batch []entry.Position

	if err := s.do(func() {
		batch = renumber(s.entries)
		s.changed()
	}); err != nil {
		return err
	}

	if len(batch) == 0 {
		return nil
	}

	if err := s.remote.UpsertOrder(ctx, batch); err != nil {
		s.notifier.Error("Could not save entry order", err)
		return fmt.Errorf("%w: saving order: %w", ErrMutationFailed, err)
	}

	return nil
}
