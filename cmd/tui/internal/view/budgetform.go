package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/currency"

	"github.com/MrJamesThe3rd/budgetly/internal/budget"
)

var commonCurrencies = []string{
	"USD", "EUR", "GBP", "JPY", "CHF", "CAD", "AUD", "NZD",
	"SEK", "NOK", "DKK", "PLN", "CZK", "BRL", "MXN", "INR", "CNY",
}

func currencyOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(commonCurrencies))
	for _, code := range commonCurrencies {
		unit := currency.MustParseISO(code)
		opts = append(opts, huh.NewOption(unit.String(), unit.String()))
	}

	return opts
}

// BudgetCreatedMsg is emitted after the server accepted a new budget.
type BudgetCreatedMsg struct {
	Budget  *budget.Budget
	Message string
}

type BudgetFormModel struct {
	CommonModel
	deps Deps

	form    *huh.Form
	loading bool
	err     string
}

func NewBudgetFormModel(deps Deps) BudgetFormModel {
	return BudgetFormModel{deps: deps, form: newBudgetForm()}
}

func newBudgetForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("currency").
				Title("Currency").
				Description("Also becomes your default currency").
				Options(currencyOptions()...).
				Height(8),

			huh.NewInput().
				Key("name").
				Title("Budget name").
				CharLimit(64).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m BudgetFormModel) Title() string { return "New budget" }

func (m BudgetFormModel) ShortHelp() string { return "Esc: back | Enter/Tab: navigate" }

func (m BudgetFormModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m BudgetFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case budgetResultMsg:
		m.loading = false

		if msg.err != "" {
			m.err = msg.err
			m.form = newBudgetForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return BudgetCreatedMsg{Budget: msg.budget, Message: msg.message} }

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && !m.loading {
			return m, Back
		}
	}

	if m.loading {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.loading = true
	m.err = ""

	return m, m.submitCmd()
}

func (m BudgetFormModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Creating budget...")
	}

	errLine := ""
	if m.err != "" {
		errLine = "\n" + errorStyle.Render(m.err)
	}

	return lipgloss.NewStyle().Padding(1).Render(titleStyle.Render("New budget") + "\n\n" + m.form.View() + errLine)
}

type budgetResultMsg struct {
	budget  *budget.Budget
	message string
	err     string
}

func (m BudgetFormModel) submitCmd() tea.Cmd {
	c := m.deps.Client
	params := budget.CreateParams{
		Currency:   m.form.GetString("currency"),
		BudgetName: strings.TrimSpace(m.form.GetString("name")),
	}

	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		res, err := c.CreateBudget(ctx, params)
		if err != nil {
			return budgetResultMsg{err: fmt.Sprintf("Error: %v", err)}
		}

		if !res.Success {
			return budgetResultMsg{err: res.Error}
		}

		return budgetResultMsg{budget: res.Data, message: res.Message}
	}
}
