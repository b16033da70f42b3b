package ledger

import (
	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
)

// nextOrder returns the order for a new entry: one past the highest order in
// use, or 1 for an empty ledger.
func nextOrder(entries []*entry.Entry) int {
	highest := 0

	for _, e := range entries {
		if e.Order > highest {
			highest = e.Order
		}
	}

	return highest + 1
}

// move removes the entry at oldIndex and inserts it at newIndex of the
// shortened slice. A newIndex past the end appends.
func move(entries []*entry.Entry, oldIndex, newIndex int) ([]*entry.Entry, error) {
	if oldIndex < 0 || oldIndex >= len(entries) || newIndex < 0 {
		return entries, ErrIndexOutOfRange
	}

	moved := entries[oldIndex]
	entries = append(entries[:oldIndex], entries[oldIndex+1:]...)

	if newIndex > len(entries) {
		newIndex = len(entries)
	}

	entries = append(entries, nil)
	copy(entries[newIndex+1:], entries[newIndex:])
	entries[newIndex] = moved

	return entries, nil
}

// renumber assigns order 1..N by position and returns the batch to persist.
func renumber(entries []*entry.Entry) []entry.Position {
	batch := make([]entry.Position, len(entries))

	for i, e := range entries {
		e.Order = i + 1
		batch[i] = entry.Position{ID: e.ID, Order: e.Order}
	}

	return batch
}
