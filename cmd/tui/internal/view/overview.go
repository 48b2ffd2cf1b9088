package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgetly/internal/budget"
	"github.com/MrJamesThe3rd/budgetly/internal/client/budgetstore"
)

const recentTransactions = 5

type overviewState int

const (
	overviewStateDashboard overviewState = iota
	overviewStatePeriod
)

// NewBudgetMsg asks for the budget creation screen.
type NewBudgetMsg struct{}

// OpenTransactionsMsg asks for the transaction list of the active budget.
type OpenTransactionsMsg struct{}

type OverviewModel struct {
	CommonModel
	deps Deps

	state        overviewState
	periodPicker PeriodPicker
	loading      bool
	status       string
}

func NewOverviewModel(deps Deps) OverviewModel {
	return OverviewModel{
		deps:         deps,
		periodPicker: NewPeriodPicker(),
	}
}

func (m OverviewModel) Title() string { return "Overview" }

func (m OverviewModel) ShortHelp() string {
	if m.state == overviewStatePeriod {
		return "Esc: back | Enter: apply"
	}

	return "r: refresh | d: dates | t: month/year | [ ]: period | b: next budget | n: new budget | l: transactions | q: quit"
}

// PickingDates reports whether the period picker has the keyboard.
func (m OverviewModel) PickingDates() bool {
	return m.state == overviewStatePeriod
}

// WithStatus returns the model showing a one-line notice.
func (m OverviewModel) WithStatus(status string) OverviewModel {
	m.status = status
	return m
}

func (m OverviewModel) Init() tea.Cmd {
	return m.Refresh()
}

type refreshedMsg struct{}

// Refresh reloads the store from the API.
func (m OverviewModel) Refresh() tea.Cmd {
	store := m.deps.Store

	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		store.Refresh(ctx)

		return refreshedMsg{}
	}
}

func (m OverviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshedMsg:
		m.loading = false

		st := m.deps.Store.State()
		if st.Budget == nil && len(st.UserBudgets) > 0 {
			ctx, cancel := RequestCtx()
			defer cancel()

			m.deps.Store.SetBudget(ctx, st.UserBudgets[0])
			m.loading = true

			return m, m.Refresh()
		}

		return m, nil

	case PeriodSelectedMsg:
		ctx, cancel := RequestCtx()
		defer cancel()

		m.deps.Store.SetDate(ctx, msg.Range)
		m.deps.Store.SetTimeFrame(ctx, msg.Frame)
		m.deps.Store.SetPeriod(ctx, msg.Period)

		m.state = overviewStateDashboard
		m.loading = true

		return m, m.Refresh()

	case tea.KeyMsg:
		if m.state == overviewStatePeriod {
			if msg.Type == tea.KeyEsc {
				m.state = overviewStateDashboard
				return m, nil
			}

			var cmd tea.Cmd
			m.periodPicker, cmd = m.periodPicker.Update(msg)

			return m, cmd
		}

		return m.handleKey(msg)
	}

	if m.state == overviewStatePeriod {
		var cmd tea.Cmd
		m.periodPicker, cmd = m.periodPicker.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m OverviewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx, cancel := RequestCtx()
	defer cancel()

	st := m.deps.Store.State()

	switch msg.String() {
	case "r":
		m.loading = true
		m.status = ""

		return m, m.Refresh()
	case "d":
		m.periodPicker.Reset(st.TimeFrame, st.Period)
		m.state = overviewStatePeriod
		return m, nil
	case "t":
		frame := budgetstore.TimeFrameYear
		if st.TimeFrame == budgetstore.TimeFrameYear {
			frame = budgetstore.TimeFrameMonth
		}

		m.deps.Store.SetTimeFrame(ctx, frame)

		return m, nil
	case "[", "]":
		m.deps.Store.SetPeriod(ctx, shiftPeriod(st.Period, st.TimeFrame, msg.String() == "]"))
		m.loading = true

		return m, m.Refresh()
	case "b":
		next := nextBudget(st.UserBudgets, st.Budget)
		if next == nil {
			return m, nil
		}

		m.deps.Store.SetBudget(ctx, next)
		m.loading = true

		return m, m.Refresh()
	case "n":
		return m, func() tea.Msg { return NewBudgetMsg{} }
	case "l":
		if st.Budget == nil {
			return m, nil
		}

		return m, func() tea.Msg { return OpenTransactionsMsg{} }
	}

	return m, nil
}

// shiftPeriod moves one month (or one year) backwards or forwards.
func shiftPeriod(p budgetstore.Period, frame budgetstore.TimeFrame, forward bool) budgetstore.Period {
	step := -1
	if forward {
		step = 1
	}

	if frame == budgetstore.TimeFrameYear {
		p.Year += step
		return p
	}

	t := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, step, 0)

	return budgetstore.Period{Year: t.Year(), Month: int(t.Month())}
}

func nextBudget(budgets []*budget.Budget, current *budget.Budget) *budget.Budget {
	if len(budgets) == 0 {
		return nil
	}

	if current == nil {
		return budgets[0]
	}

	for i, b := range budgets {
		if b.ID == current.ID {
			return budgets[(i+1)%len(budgets)]
		}
	}

	return budgets[0]
}

func (m OverviewModel) View() string {
	if m.state == overviewStatePeriod {
		return lipgloss.NewStyle().Padding(1).Render(m.periodPicker.View())
	}

	st := m.deps.Store.State()

	if st.Budget == nil {
		msg := "No budget yet. Press n to create one."
		if m.loading {
			msg = "Loading..."
		}

		return lipgloss.NewStyle().Padding(2).Render(msg + m.statusLine())
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s (%s)", st.Budget.Name, st.Budget.Currency)))
	sb.WriteString(faintStyle.Render(fmt.Sprintf("  %s to %s", FormatDate(st.Date.From), FormatDate(st.Date.To))))

	if m.loading {
		sb.WriteString(faintStyle.Render("  refreshing..."))
	}

	sb.WriteString("\n\n")

	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(summaryView(st)),
		"  ",
		boxStyle.Render(categoryView(st)),
	))
	sb.WriteString("\n\n")
	sb.WriteString(boxStyle.Render(historyView(st)))
	sb.WriteString("\n\n")
	sb.WriteString(recentView(st))
	sb.WriteString(m.statusLine())

	return lipgloss.NewStyle().Padding(1).Render(sb.String())
}

func (m OverviewModel) statusLine() string {
	if m.status == "" {
		return ""
	}

	return "\n\n" + successStyle.Render(m.status)
}

func summaryView(st budgetstore.State) string {
	cur := st.Budget.Currency
	balance := st.BudgetSummary.Income.Sub(st.BudgetSummary.Expense)

	return fmt.Sprintf("Summary\n\nIncome   %s\nExpense  %s\nBalance  %s",
		FormatAmount(st.BudgetSummary.Income, cur),
		FormatAmount(st.BudgetSummary.Expense, cur),
		FormatAmount(balance, cur),
	)
}

func categoryView(st budgetstore.State) string {
	names := make(map[uuid.UUID]string, len(st.Categories))
	for _, c := range st.Categories {
		names[c.ID] = c.Name
	}

	lines := []string{"By category", ""}

	if len(st.CategorySummary) == 0 {
		lines = append(lines, faintStyle.Render("nothing recorded"))
	}

	for _, c := range st.CategorySummary {
		name := names[c.CategoryID]
		if name == "" {
			name = "unknown"
		}

		lines = append(lines, fmt.Sprintf("%-16s %-8s %12s", name, c.Type, FormatAmount(c.Amount, st.Budget.Currency)))
	}

	return strings.Join(lines, "\n")
}

func historyView(st budgetstore.State) string {
	title := fmt.Sprintf("History %d-%02d (by day)", st.Period.Year, st.Period.Month)
	data := st.MonthHistoryData

	if st.TimeFrame == budgetstore.TimeFrameYear {
		title = fmt.Sprintf("History %d (by month)", st.Period.Year)
		data = st.YearHistoryData
	}

	lines := []string{title, ""}

	if len(data) == 0 {
		lines = append(lines, faintStyle.Render("no history"))
	}

	peak := decimal.Zero
	for _, h := range data {
		peak = decimal.Max(peak, h.Income, h.Expense)
	}

	for _, h := range data {
		label := time.Month(h.Month).String()[:3]
		if st.TimeFrame != budgetstore.TimeFrameYear {
			label = fmt.Sprintf("%02d", h.Day)
		}

		lines = append(lines, fmt.Sprintf("%-4s %s %s",
			label,
			successStyle.Render(bar(h.Income, peak)),
			errorStyle.Render(bar(h.Expense, peak)),
		))
	}

	if len(st.HistoryYears) > 0 {
		years := make([]string, 0, len(st.HistoryYears))
		for _, y := range st.HistoryYears {
			years = append(years, fmt.Sprint(y))
		}

		lines = append(lines, "", faintStyle.Render("years with data: "+strings.Join(years, ", ")))
	}

	return strings.Join(lines, "\n")
}

const barWidth = 20

func bar(v, peak decimal.Decimal) string {
	if peak.IsZero() {
		return strings.Repeat(" ", barWidth)
	}

	n := int(v.Div(peak).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())

	return strings.Repeat("█", n) + strings.Repeat(" ", barWidth-n)
}

func recentView(st budgetstore.State) string {
	lines := []string{"Recent transactions"}

	if len(st.UserTransactions) == 0 {
		lines = append(lines, faintStyle.Render("  none in range"))
	}

	for i, tx := range st.UserTransactions {
		if i == recentTransactions {
			lines = append(lines, faintStyle.Render(fmt.Sprintf("  ... %d more (l)", len(st.UserTransactions)-i)))
			break
		}

		lines = append(lines, "  "+transactionLine(tx, st.Budget.Currency))
	}

	return strings.Join(lines, "\n")
}

func transactionLine(tx *budget.Transaction, currency string) string {
	amount := FormatAmount(tx.Amount, currency)
	if tx.Type == budget.TypeExpense {
		amount = "-" + amount
	}

	return fmt.Sprintf("%s  %14s  %s", FormatDate(tx.Date), amount, tx.Description)
}
