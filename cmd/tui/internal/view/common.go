package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/moneyballs/internal/ledger"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// SnapshotMsg carries the ledger state after a change. It is sent from the
// ledger's change hook.
type SnapshotMsg ledger.Snapshot

// NotifyMsg is a notification raised by a ledger command.
type NotifyMsg struct {
	Text string
	Err  error
}

// DeletedMsg reports an entry deleted through the ledger.
type DeletedMsg struct {
	ID uuid.UUID
}
