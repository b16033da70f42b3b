package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/moneyballs/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/moneyballs/internal/app"
	"github.com/MrJamesThe3rd/moneyballs/internal/config"
	"github.com/MrJamesThe3rd/moneyballs/internal/importer"
	"github.com/MrJamesThe3rd/moneyballs/internal/ledger"
	"github.com/MrJamesThe3rd/moneyballs/internal/notify"
)

type model struct {
	appName string

	currentView View

	ledgerView view.LedgerModel
	importView view.ImportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewLedger View = 1
	ViewImport View = 2
)

func newModel(appName string, store *ledger.Store, impSvc *importer.Service) model {
	return model{
		appName:     appName,
		currentView: ViewMenu,
		ledgerView:  view.NewLedgerModel(store),
		importView:  view.NewImportModel(store, impSvc),
	}
}

func (m model) Init() tea.Cmd {
	return m.ledgerView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewLedger
				return m, nil
			case "2":
				m.currentView = ViewImport
				return m, m.importView.Init()
			}
		}

	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil

	// The ledger screen follows the store even while it is not shown.
	case view.SnapshotMsg, view.NotifyMsg, view.DeletedMsg:
		var newModel tea.Model
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)

		return m, cmd
	}

	switch m.currentView {
	case ViewLedger:
		var newModel tea.Model
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	default:
		// Loading results may land before the ledger screen is opened.
		var newModel tea.Model
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Ledger\n" +
				"2. Import Entries\n\n" +
				"q. Quit",
		)
	case ViewLedger:
		return m.ledgerView.View()
	case ViewImport:
		return m.importView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; logs go to a file when one is set.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if path := os.Getenv("LOG_FILE"); path != "" {
		f, err := tea.LogToFile(path, cfg.App.Name)
		if err != nil {
			slog.Error("failed to open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()

		logger = slog.New(slog.NewTextHandler(f, nil))
	}

	slog.SetDefault(logger)

	remote, closeRemote, err := app.OpenRemote(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open ledger backend", "error", err)
		os.Exit(1)
	}
	defer closeRemote()

	var p *tea.Program

	notifier := notify.Multi{
		notify.NewLog(logger),
		notify.Func{
			OnError:   func(msg string, err error) { p.Send(view.NotifyMsg{Text: msg, Err: err}) },
			OnSuccess: func(msg string) { p.Send(view.NotifyMsg{Text: msg}) },
		},
	}

	store := ledger.New(remote, notifier, app.LedgerOptions(cfg, logger))
	defer store.Close()

	p = tea.NewProgram(newModel(cfg.App.Name, store, importer.NewService()))

	store.OnChange(func(snap ledger.Snapshot) { p.Send(view.SnapshotMsg(snap)) })
	store.OnDeleted(func(id uuid.UUID) { p.Send(view.DeletedMsg{ID: id}) })

	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
