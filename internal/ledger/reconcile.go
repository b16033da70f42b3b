package ledger

import (
	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
)

// handleEvent is the callback handed to Remote.Subscribe. Events are applied
// in the order they are delivered.
func (s *Store) handleEvent(ev entry.Event) {
	_ = s.do(func() {
		if s.apply(ev) {
			s.changed()
		}
	})
}

// apply merges one feed event into the ledger and reports whether anything
// changed. Events for unknown ids are ignored.
func (s *Store) apply(ev entry.Event) bool {
	switch ev.Type {
	case entry.EventInsert:
		if ev.Record == nil {
			return false
		}

		if s.find(ev.Record.ID) != nil {
			if s.opts.DedupeInserts {
				return false
			}

			// The feed also reports inserts made by this session.
			s.logger.Warn("applying insert for an entry already in the ledger", "id", ev.Record.ID)
		}

		s.entries = append(s.entries, ev.Record.Clone())

		return true

	case entry.EventDelete:
		return s.remove(ev.ID)

	case entry.EventUpdate:
		e := s.find(ev.ID)
		if e == nil {
			return false
		}

		e.Apply(ev.Patch)

		return true
	}

	s.logger.Warn("ignoring unknown change event", "type", ev.Type, "id", ev.ID)

	return false
}
