// Package ledger keeps a local mirror of the remote entries table in sync with
// local commands and with the remote change feed.
//
// All state is owned by a single goroutine. Commands and feed events are queued
// to it as closures and run one at a time, so a remote event can never land in
// the middle of a local mutation. Remote calls are made outside that goroutine;
// they are the only points where other work can interleave with a command.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
)

var (
	ErrLoadFailed      = errors.New("load failed")
	ErrMutationFailed  = errors.New("mutation failed")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrClosed          = errors.New("ledger closed")
)

// IDPolicy decides who assigns the id of a new entry.
type IDPolicy int

const (
	// IDServer leaves id assignment to the backend. A new entry shows up
	// locally once the change feed reports it.
	IDServer IDPolicy = iota
	// IDClient generates the id locally and appends the entry right away.
	// A failed insert is reported but not rolled back.
	IDClient
)

type Options struct {
	IDs IDPolicy
	// Ordering keeps an explicit order field and renumbers it after every
	// move. Without it the order of the slice is the only ordering.
	Ordering bool
	// DedupeInserts drops feed inserts whose id is already present.
	DedupeInserts bool
	Logger        *slog.Logger
}

// Snapshot is a copy of the ledger state with its aggregates.
type Snapshot struct {
	Entries         []entry.Entry
	Loaded          bool
	Balance         decimal.Decimal
	BalancePaid     decimal.Decimal
	RunningBalances []decimal.Decimal
}

type Store struct {
	remote   Remote
	notifier Notifier
	opts     Options
	logger   *slog.Logger

	// ctx lives as long as the store; the feed subscription is bound to it.
	ctx    context.Context
	cancel context.CancelFunc

	ops       chan func()
	quit      chan struct{}
	closeOnce sync.Once

	// Owned by the run goroutine.
	entries    []*entry.Entry
	loaded     bool
	subscribed bool
	onChange   []func(Snapshot)
	onDeleted  []func(uuid.UUID)
}

func New(remote Remote, notifier Notifier, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		remote:   remote,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		ops:      make(chan func()),
		quit:     make(chan struct{}),
	}

	go s.run()

	return s
}

func (s *Store) run() {
	for {
		select {
		case op := <-s.ops:
			op()
		case <-s.quit:
			return
		}
	}
}

// Close stops the store and ends the feed subscription. Commands issued
// afterwards fail with ErrClosed.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		close(s.quit)
	})
}

// do runs fn on the store goroutine and waits for it to finish.
func (s *Store) do(fn func()) error {
	done := make(chan struct{})

	select {
	case s.ops <- func() { fn(); close(done) }:
	case <-s.quit:
		return ErrClosed
	}

	<-done

	return nil
}

// OnChange registers fn to receive a snapshot after every state change.
// fn runs on the store goroutine and must not call back into the store.
func (s *Store) OnChange(fn func(Snapshot)) {
	_ = s.do(func() { s.onChange = append(s.onChange, fn) })
}

// OnDeleted registers fn to run after a delete command succeeds, for
// cleanup the presentation layer needs for that id.
func (s *Store) OnDeleted(fn func(uuid.UUID)) {
	_ = s.do(func() { s.onDeleted = append(s.onDeleted, fn) })
}

func (s *Store) Snapshot() Snapshot {
	var snap Snapshot

	_ = s.do(func() { snap = s.snapshot() })

	return snap
}

func (s *Store) Entries() []entry.Entry {
	return s.Snapshot().Entries
}

func (s *Store) Loaded() bool {
	var loaded bool

	_ = s.do(func() { loaded = s.loaded })

	return loaded
}

func (s *Store) Balance() decimal.Decimal {
	var total decimal.Decimal

	_ = s.do(func() { total = Balance(s.entries) })

	return total
}

func (s *Store) BalancePaid() decimal.Decimal {
	var total decimal.Decimal

	_ = s.do(func() { total = BalancePaid(s.entries) })

	return total
}

func (s *Store) RunningBalances() []decimal.Decimal {
	var balances []decimal.Decimal

	_ = s.do(func() { balances = RunningBalances(s.entries) })

	return balances
}

// The helpers below must only be called on the store goroutine.

func (s *Store) snapshot() Snapshot {
	entries := make([]entry.Entry, len(s.entries))
	for i, e := range s.entries {
		entries[i] = *e
	}

	return Snapshot{
		Entries:         entries,
		Loaded:          s.loaded,
		Balance:         Balance(s.entries),
		BalancePaid:     BalancePaid(s.entries),
		RunningBalances: RunningBalances(s.entries),
	}
}

func (s *Store) changed() {
	if len(s.onChange) == 0 {
		return
	}

	snap := s.snapshot()
	for _, fn := range s.onChange {
		fn(snap)
	}
}

func (s *Store) indexOf(id uuid.UUID) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}

	return -1
}

func (s *Store) find(id uuid.UUID) *entry.Entry {
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	return s.entries[i]
}

func (s *Store) remove(id uuid.UUID) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	s.entries = append(s.entries[:i], s.entries[i+1:]...)

	return true
}
