package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/budgetly/internal/client"
	"github.com/MrJamesThe3rd/budgetly/internal/client/budgetstore"
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

// Deps are the collaborators shared by every screen.
type Deps struct {
	Client *client.Client
	Store  *budgetstore.Store
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	boxStyle     = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)
