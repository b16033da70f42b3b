package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/moneyballs/internal/entry"
	"github.com/MrJamesThe3rd/moneyballs/internal/importer"
	"github.com/MrJamesThe3rd/moneyballs/internal/ledger"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateBankSelect importState = iota
	importStateFilePick
	importStateParsing
	importStatePreview
	importStateAdding
	importStateResult
)

// ImportModel reads a bank export, lets the user pick the rows to keep and
// adds them to the ledger one by one.
type ImportModel struct {
	CommonModel
	ledger        *ledger.Store
	importService *importer.Service

	state        importState
	filePicker   filepicker.Model
	selectedBank importer.Bank
	bankCursor   int

	forms       []entry.Form
	previewList list.Model
	selected    map[int]bool

	status string
	err    error
}

func NewImportModel(l *ledger.Store, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		ledger:        l,
		importService: impSvc,
		filePicker:    fp,
		selected:      make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Import Entries" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Space: toggle | a: all | n: none | Enter: add | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateBankSelect {
			return m.updateBankSelect(msg)
		}

		if m.state == importStatePreview {
			return m.updatePreview(msg)
		}

	case parseResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.forms = msg.forms
		m.selected = make(map[int]bool, len(msg.forms))
		m.state = importStatePreview

		items := make([]list.Item, len(m.forms))
		for i, f := range m.forms {
			items[i] = formItem{form: f, index: i}
			m.selected[i] = true
		}

		delegate := formDelegate{selected: &m.selected}
		m.previewList = list.New(items, delegate, 80, 20)
		m.previewList.Title = fmt.Sprintf("%d rows found", len(m.forms))
		m.previewList.SetShowStatusBar(false)
		m.previewList.SetFilteringEnabled(false)
		m.previewList.SetShowHelp(false)

		return m, nil

	case addResultMsg:
		m.state = importStateResult
		m.err = nil
		m.status = fmt.Sprintf("Added %d entries.", msg.added)

		if msg.failed > 0 {
			m.err = fmt.Errorf("%d entries could not be added", msg.failed)
			m.status = fmt.Sprintf("Added %d entries, %d failed.", msg.added, msg.failed)
		}

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateParsing
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.parseCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick, importStateResult, importStatePreview:
		m.state = importStateBankSelect
		m.err = nil
		m.status = ""
		m.forms = nil
		m.selected = make(map[int]bool)

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateBankSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.bankCursor > 0 {
			m.bankCursor--
		}
	case tea.KeyDown:
		if m.bankCursor < len(importer.Banks)-1 {
			m.bankCursor++
		}
	case tea.KeyEnter:
		m.selectedBank = importer.Banks[m.bankCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.previewList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.forms {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.forms {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		m.state = importStateAdding
		m.status = "Adding entries..."

		return m, m.addCmd()
	}

	var cmd tea.Cmd
	m.previewList, cmd = m.previewList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateBankSelect:
		return m.viewBankSelect()
	case importStateFilePick:
		return m.viewFilePick()
	case importStateParsing, importStateAdding:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return lipgloss.NewStyle().Padding(1).Render(m.previewList.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewBankSelect() string {
	s := "Select Bank:\n\n"

	for i, bank := range importer.Banks {
		cursor := " "
		if i == m.bankCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, string(bank))
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewFilePick() string {
	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("Select file to import (%s):\n\n%s", m.selectedBank, m.filePicker.View()),
	)
}

func (m ImportModel) viewResult() string {
	color := lipgloss.Color("46")
	if m.err != nil {
		color = lipgloss.Color("196")
	}

	return lipgloss.NewStyle().Padding(2).Render(
		lipgloss.NewStyle().Foreground(color).Render(m.status) + "\n\n(Esc to go back)",
	)
}

// Messages

type parseResultMsg struct {
	forms []entry.Form
	err   error
}

type addResultMsg struct {
	added  int
	failed int
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	bank := m.selectedBank

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parseResultMsg{err: err}
		}
		defer f.Close()

		forms, err := m.importService.Import(bank, f)

		return parseResultMsg{forms: forms, err: err}
	}
}

func (m ImportModel) addCmd() tea.Cmd {
	var forms []entry.Form

	for i, f := range m.forms {
		if m.selected[i] {
			forms = append(forms, f)
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		var res addResultMsg

		for _, f := range forms {
			if err := m.ledger.AddEntry(ctx, f); err != nil {
				res.failed++
				continue
			}

			res.added++
		}

		return res
	}
}

// Preview list item

type formItem struct {
	form  entry.Form
	index int
}

func (i formItem) Title() string       { return i.form.Name }
func (i formItem) Description() string { return "" }
func (i formItem) FilterValue() string { return i.form.Name }

// Preview list delegate

type formDelegate struct {
	selected *map[int]bool
}

func (d formDelegate) Height() int                             { return 1 }
func (d formDelegate) Spacing() int                            { return 0 }
func (d formDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d formDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(formItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if (*d.selected)[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	amount := ""
	if item.form.Amount != nil {
		amount = FormatAmount(*item.form.Amount)
	}

	fmt.Fprintf(w, "%s%s %12s  %s", cursor, checkbox, amount, item.form.Name)
}
