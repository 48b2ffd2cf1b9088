package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/budgetly/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/budgetly/internal/client"
	"github.com/MrJamesThe3rd/budgetly/internal/client/budgetstore"
	"github.com/MrJamesThe3rd/budgetly/internal/client/localstore"
	"github.com/MrJamesThe3rd/budgetly/internal/config"
)

const tokenKey = "session-token"

type View int

const (
	ViewSession      View = 0
	ViewLogin        View = 1
	ViewOverview     View = 2
	ViewBudgetForm   View = 3
	ViewTransactions View = 4
)

type model struct {
	deps  view.Deps
	local *localstore.Store

	currentView View
	width       int
	height      int

	loginView        view.LoginModel
	overviewView     view.OverviewModel
	budgetFormView   view.BudgetFormModel
	transactionsView view.TransactionsModel
}

func initialModel(deps view.Deps, local *localstore.Store) model {
	m := model{
		deps:             deps,
		local:            local,
		currentView:      ViewLogin,
		loginView:        view.NewLoginModel(deps),
		overviewView:     view.NewOverviewModel(deps),
		budgetFormView:   view.NewBudgetFormModel(deps),
		transactionsView: view.NewTransactionsModel(deps),
	}

	if deps.Client.Token() != "" {
		m.currentView = ViewSession
	}

	return m
}

type sessionCheckedMsg struct {
	ok bool
}

func (m model) checkSessionCmd() tea.Cmd {
	c := m.deps.Client

	return func() tea.Msg {
		ctx, cancel := view.RequestCtx()
		defer cancel()

		res, err := c.Session(ctx)
		if err != nil {
			slog.Warn("failed to check session", "error", err)
			return sessionCheckedMsg{}
		}

		return sessionCheckedMsg{ok: res.Success}
	}
}

func (m model) Init() tea.Cmd {
	if m.currentView == ViewSession {
		return m.checkSessionCmd()
	}

	return m.loginView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if msg.String() == "q" && m.currentView == ViewOverview && !m.overviewView.PickingDates() {
			return m, tea.Quit
		}
	case sessionCheckedMsg:
		if !msg.ok {
			m.forgetToken()
			m.currentView = ViewLogin

			return m, m.loginView.Init()
		}

		m.currentView = ViewOverview

		return m, m.overviewView.Init()
	case view.LoggedInMsg:
		m.saveToken(msg.Token)
		m.currentView = ViewOverview

		return m, m.overviewView.Init()
	case view.NewBudgetMsg:
		m.budgetFormView = view.NewBudgetFormModel(m.deps)
		m.currentView = ViewBudgetForm

		return m, m.budgetFormView.Init()
	case view.BudgetCreatedMsg:
		ctx, cancel := view.RequestCtx()
		defer cancel()

		m.deps.Store.SetBudget(ctx, msg.Budget)
		m.overviewView = m.overviewView.WithStatus(msg.Message)
		m.currentView = ViewOverview

		return m, m.overviewView.Refresh()
	case view.OpenTransactionsMsg:
		m.transactionsView = view.NewTransactionsModel(m.deps)
		m.currentView = ViewTransactions

		return m, func() tea.Msg { return tea.WindowSizeMsg{Width: m.width, Height: m.height} }
	case view.BackMsg:
		m.currentView = ViewOverview
		return m, nil
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewOverview:
		var newModel tea.Model
		newModel, cmd = m.overviewView.Update(msg)
		m.overviewView = newModel.(view.OverviewModel)
	case ViewBudgetForm:
		var newModel tea.Model
		newModel, cmd = m.budgetFormView.Update(msg)
		m.budgetFormView = newModel.(view.BudgetFormModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	}

	return m, cmd
}

func (m model) saveToken(token string) {
	ctx, cancel := view.RequestCtx()
	defer cancel()

	if err := m.local.Put(ctx, tokenKey, []byte(token)); err != nil {
		slog.Warn("failed to store session token", "error", err)
	}
}

func (m model) forgetToken() {
	ctx, cancel := view.RequestCtx()
	defer cancel()

	m.deps.Client.SetToken("")

	if err := m.local.Delete(ctx, tokenKey); err != nil {
		slog.Warn("failed to delete session token", "error", err)
	}
}

func (m model) View() string {
	var body, help string

	switch m.currentView {
	case ViewSession:
		body = lipgloss.NewStyle().Padding(2).Render("Restoring session...")
	case ViewLogin:
		body, help = m.loginView.View(), m.loginView.ShortHelp()
	case ViewOverview:
		body, help = m.overviewView.View(), m.overviewView.ShortHelp()
	case ViewBudgetForm:
		body, help = m.budgetFormView.View(), m.budgetFormView.ShortHelp()
	case ViewTransactions:
		body, help = m.transactionsView.View(), m.transactionsView.ShortHelp()
	default:
		return "Unknown View"
	}

	if help == "" {
		return body
	}

	return body + "\n" + lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(help)
}

func setupLogging(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: config.ParseLevel(os.Getenv("LOG_LEVEL")),
	})))

	return f, nil
}

func run() error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}

	logFile, err := setupLogging(cfg.LogPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	local, err := localstore.Open(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("opening local state: %w", err)
	}
	defer local.Close()

	ctx := context.Background()
	c := client.New(cfg.APIURL, cfg.Timeout)

	token, err := local.Get(ctx, tokenKey)
	switch {
	case err == nil:
		c.SetToken(string(token))
	case !errors.Is(err, localstore.ErrNotFound):
		slog.Warn("failed to read session token", "error", err)
	}

	deps := view.Deps{
		Client: c,
		Store:  budgetstore.Open(ctx, c, local),
	}

	p := tea.NewProgram(initialModel(deps, local), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("tui failed", "error", err)
		os.Exit(1)
	}
}
