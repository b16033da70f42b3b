package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
	"github.com/MrJamesThe3rd/moneyballs/internal/ledger"
)

type ledgerState int

const (
	ledgerStateBrowse ledgerState = iota
	ledgerStateAdd
	ledgerStateEdit
	ledgerStateDelete
)

// LedgerModel is the main screen: the entries table with balances. The
// table is redrawn from SnapshotMsg, so changes made elsewhere show up
// without a refresh.
type LedgerModel struct {
	CommonModel
	ledger *ledger.Store

	state ledgerState
	table table.Model
	snap  ledger.Snapshot
	form  *huh.Form

	status string
	err    error

	fields *entryFields
	target entry.Entry
}

// entryFields holds the form bindings. It lives behind a pointer because the
// model is copied on every update while the form keeps writing to it.
type entryFields struct {
	name    string
	amount  string
	confirm bool
}

func NewLedgerModel(l *ledger.Store) LedgerModel {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Name", Width: 36},
		{Title: "Amount", Width: 12},
		{Title: "Balance", Width: 12},
		{Title: "Paid", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := LedgerModel{ledger: l, table: t}
	m.setSnapshot(l.Snapshot())

	return m
}

func (m LedgerModel) Title() string { return "Ledger" }

func (m LedgerModel) ShortHelp() string {
	switch m.state {
	case ledgerStateAdd, ledgerStateEdit, ledgerStateDelete:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | space: paid | d: delete | K/J: move | r: reload"
}

func (m LedgerModel) Init() tea.Cmd {
	if m.snap.Loaded {
		return nil
	}

	return m.reloadCmd()
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		m.setSnapshot(ledger.Snapshot(msg))
		return m, nil

	case NotifyMsg:
		m.status = msg.Text
		m.err = msg.Err

		return m, nil

	case DeletedMsg:
		// An open form for an entry that no longer exists has nothing to save.
		if m.state != ledgerStateBrowse && m.state != ledgerStateAdd && m.target.ID == msg.ID {
			return m.leaveForm(), nil
		}

		return m, nil

	case ledgerDoneMsg:
		if msg.cursor >= 0 {
			m.table.SetCursor(msg.cursor)
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case ledgerStateBrowse:
		return m.updateBrowse(msg)
	default:
		return m.updateForm(msg)
	}
}

func (m LedgerModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.reloadCmd()
		case "a":
			return m.enterForm(ledgerStateAdd)
		case "e":
			return m.enterForm(ledgerStateEdit)
		case "d":
			return m.enterForm(ledgerStateDelete)
		case " ":
			return m, m.togglePaidCmd()
		case "K":
			return m, m.moveCmd(-1)
		case "J":
			return m, m.moveCmd(1)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m LedgerModel) selected() (entry.Entry, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.snap.Entries) {
		return entry.Entry{}, false
	}

	return m.snap.Entries[idx], true
}

func (m LedgerModel) enterForm(state ledgerState) (tea.Model, tea.Cmd) {
	m.fields = &entryFields{}

	if state != ledgerStateAdd {
		e, ok := m.selected()
		if !ok {
			return m, nil
		}

		m.target = e
		m.fields.name = e.Name
		m.fields.amount = FormatEntryAmount(e)
	}

	if state == ledgerStateDelete {
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Delete %q?", m.target.Name)).
					Affirmative("Delete").
					Negative("Cancel").
					Value(&m.fields.confirm),
			),
		).WithWidth(45).WithShowHelp(false)
	} else {
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Key("name").
					Title("Name").
					Value(&m.fields.name).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return errors.New("name cannot be empty")
						}
						return nil
					}),

				huh.NewInput().
					Key("amount").
					Title("Amount").
					Placeholder("-12.50").
					Value(&m.fields.amount).
					Validate(func(s string) error {
						_, err := ParseAmount(s)
						return err
					}),
			),
		).WithWidth(45).WithShowHelp(false)
	}

	m.state = state
	m.table.Blur()

	return m, m.form.Init()
}

func (m LedgerModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.leaveForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m.leaveForm(), nil
	case huh.StateCompleted:
	default:
		return m, cmd
	}

	var submit tea.Cmd

	switch m.state {
	case ledgerStateAdd:
		submit = m.addCmd()
	case ledgerStateEdit:
		submit = m.editCmd()
	case ledgerStateDelete:
		if m.fields.confirm {
			submit = m.deleteCmd()
		}
	}

	return m.leaveForm(), submit
}

func (m LedgerModel) leaveForm() LedgerModel {
	m.state = ledgerStateBrowse
	m.form = nil
	m.table.Focus()

	return m
}

func (m LedgerModel) View() string {
	if !m.snap.Loaded {
		return lipgloss.NewStyle().Padding(2).Render("Loading entries...")
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	footer := fmt.Sprintf(
		"Balance: %s | Paid: %s",
		activeStyle(FormatAmount(m.snap.Balance)),
		activeStyle(FormatAmount(m.snap.BalancePaid)),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		tableView,
		lipgloss.NewStyle().PaddingTop(1).Render(footer),
	)

	if m.form != nil {
		title := "New Entry"

		switch m.state {
		case ledgerStateEdit:
			title = "Edit Entry"
		case ledgerStateDelete:
			title = "Delete Entry"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		style := lipgloss.NewStyle().Faint(true)
		text := m.status

		if m.err != nil {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
			text = fmt.Sprintf("%s: %v", m.status, m.err)
		}

		content = style.Render(text) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *LedgerModel) setSnapshot(snap ledger.Snapshot) {
	m.snap = snap

	rows := make([]table.Row, 0, len(snap.Entries))
	for i, e := range snap.Entries {
		paid := ""
		if e.Paid {
			paid = "✓"
		}

		rows = append(rows, table.Row{
			fmt.Sprint(i + 1),
			e.Name,
			FormatEntryAmount(e),
			FormatAmount(snap.RunningBalances[i]),
			paid,
		})
	}

	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// Commands. Failures are reported through the notifier, so the returned
// message only needs to move the cursor.

type ledgerDoneMsg struct {
	cursor int
}

func done(cursor int) tea.Msg {
	return ledgerDoneMsg{cursor: cursor}
}

func (m LedgerModel) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_ = m.ledger.Load(ctx)

		return done(-1)
	}
}

func (m LedgerModel) addCmd() tea.Cmd {
	name := strings.TrimSpace(m.fields.name)
	amount, _ := ParseAmount(m.fields.amount)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_ = m.ledger.AddEntry(ctx, entry.Form{Name: name, Amount: amount})

		return done(-1)
	}
}

func (m LedgerModel) editCmd() tea.Cmd {
	id := m.target.ID
	patch := entry.Patch{}

	if name := strings.TrimSpace(m.fields.name); name != m.target.Name {
		patch.Name = &name
	}

	if amount, _ := ParseAmount(m.fields.amount); amount != nil && (!m.target.Amount.Valid || !amount.Equal(m.target.Amount.Decimal)) {
		patch.Amount = amount
	}

	if patch.IsEmpty() {
		return nil
	}

	return m.updateCmd(id, patch)
}

func (m LedgerModel) togglePaidCmd() tea.Cmd {
	e, ok := m.selected()
	if !ok {
		return nil
	}

	return m.updateCmd(e.ID, entry.Patch{Paid: new(!e.Paid)})
}

func (m LedgerModel) updateCmd(id uuid.UUID, patch entry.Patch) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_ = m.ledger.UpdateEntry(ctx, id, patch)

		return done(-1)
	}
}

func (m LedgerModel) deleteCmd() tea.Cmd {
	id := m.target.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_ = m.ledger.DeleteEntry(ctx, id)

		return done(-1)
	}
}

// moveCmd moves the selected entry by delta rows and keeps it selected.
func (m LedgerModel) moveCmd(delta int) tea.Cmd {
	from := m.table.Cursor()
	to := from + delta

	if from < 0 || to < 0 || to >= len(m.snap.Entries) {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.ledger.SortEnd(ctx, from, to); errors.Is(err, ledger.ErrIndexOutOfRange) {
			return done(-1)
		}

		return done(to)
	}
}
