package entry

import "github.com/google/uuid"

// EventType is the kind of change reported by the remote change feed.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Event is a change made to the remote collection by any client, this one
// included.
type Event struct {
	Type EventType
	// ID identifies the affected entry.
	ID uuid.UUID
	// Record is the new row, set for EventInsert.
	Record *Entry
	// Patch holds the changed columns, set for EventUpdate.
	Patch Patch
}
