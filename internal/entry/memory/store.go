// Package memory is an in-process remote ledger. It emits the same change
// events as the Postgres feed, so several stores sharing one instance see
// each other's changes.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
)

type Store struct {
	mu          sync.Mutex
	entries     []*entry.Entry
	subscribers map[int]func(entry.Event)
	nextSub     int
}

func New() *Store {
	return &Store{subscribers: make(map[int]func(entry.Event))}
}

func (s *Store) FetchAll(_ context.Context, ordered bool) ([]*entry.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*entry.Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Clone()
	}

	if ordered {
		slices.SortStableFunc(out, func(a, b *entry.Entry) int { return cmp.Compare(a.Order, b.Order) })
	}

	return out, nil
}

func (s *Store) Insert(_ context.Context, e *entry.Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	s.mu.Lock()
	s.entries = append(s.entries, e.Clone())
	s.mu.Unlock()

	s.publish(entry.Event{Type: entry.EventInsert, ID: e.ID, Record: e.Clone()})

	return nil
}

func (s *Store) Update(_ context.Context, id uuid.UUID, p entry.Patch) error {
	s.mu.Lock()

	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return entry.ErrNotFound
	}

	s.entries[i].Apply(p)
	s.mu.Unlock()

	s.publish(entry.Event{Type: entry.EventUpdate, ID: id, Patch: p})

	return nil
}

func (s *Store) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()

	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}

	s.entries = slices.Delete(s.entries, i, i+1)
	s.mu.Unlock()

	s.publish(entry.Event{Type: entry.EventDelete, ID: id})

	return nil
}

func (s *Store) UpsertOrder(_ context.Context, batch []entry.Position) error {
	var changed []entry.Event

	s.mu.Lock()

	for _, p := range batch {
		i := s.indexOf(p.ID)
		if i < 0 || s.entries[i].Order == p.Order {
			continue
		}

		s.entries[i].Order = p.Order
		changed = append(changed, entry.Event{Type: entry.EventUpdate, ID: p.ID, Patch: entry.Patch{Order: new(p.Order)}})
	}

	s.mu.Unlock()

	for _, ev := range changed {
		s.publish(ev)
	}

	return nil
}

// Subscribe registers fn until ctx is cancelled. Events are delivered
// synchronously from the goroutine that made the change.
func (s *Store) Subscribe(ctx context.Context, fn func(entry.Event)) error {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	go func() {
		<-ctx.Done()

		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}()

	return nil
}

func (s *Store) publish(ev entry.Event) {
	s.mu.Lock()
	subs := make([]func(entry.Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (s *Store) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.entries, func(e *entry.Entry) bool { return e.ID == id })
}
