package view

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgetly/internal/budget"
	"github.com/MrJamesThe3rd/budgetly/internal/importer"
)

type txState int

const (
	txStateList txState = iota
	txStateAdding
	txStateImporting
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx       *budget.Transaction
	category string
	currency string
}

func (i txItem) Title() string {
	return transactionLine(i.tx, i.currency)
}

func (i txItem) Description() string {
	return fmt.Sprintf("%s · %s", i.category, i.tx.Type)
}

func (i txItem) FilterValue() string {
	return i.tx.Description + " " + i.category
}

type TransactionsModel struct {
	CommonModel
	deps Deps

	state   txState
	list    list.Model
	form    *huh.Form
	loading bool
	status  string
}

func NewTransactionsModel(deps Deps) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	m := TransactionsModel{deps: deps, list: l}
	m.refreshListItems()

	return m
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateList:
		return "Esc: back | a: add | i: import CSV | /: filter"
	case txStateAdding, txStateImporting:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case importResultMsg:
		m.loading = false
		m.state = txStateList
		m.status = msg.status

		if msg.reload {
			return m, m.reloadCmd()
		}

		return m, nil

	case saveTxResultMsg:
		m.loading = false
		m.state = txStateList

		if msg.err != "" {
			m.status = msg.err
			return m, nil
		}

		m.status = "Transaction recorded."

		return m, m.reloadCmd()

	case refreshedMsg:
		m.refreshListItems()
		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case txStateList:
		return m.updateList(msg)
	case txStateAdding:
		return m.updateAdding(msg)
	case txStateImporting:
		return m.updateImporting(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			return m.startAdding()
		case "i":
			return m.startImporting()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) startAdding() (tea.Model, tea.Cmd) {
	st := m.deps.Store.State()

	if len(st.Categories) == 0 {
		m.status = "No categories loaded yet, refresh first."
		return m, nil
	}

	categories := make([]huh.Option[string], 0, len(st.Categories))
	for _, c := range st.Categories {
		categories = append(categories, huh.NewOption(fmt.Sprintf("%s (%s)", c.Name, c.Type), c.ID.String()))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", string(budget.TypeExpense)),
					huh.NewOption("Income", string(budget.TypeIncome)),
				),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categories...).
				Height(6),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("12.50").
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || !d.IsPositive() {
						return fmt.Errorf("enter a positive amount")
					}
					return nil
				}),

			huh.NewInput().
				Key("description").
				Title("Description").
				CharLimit(255),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder(FormatDate(time.Now())).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if _, err := time.Parse(time.DateOnly, s); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateAdding
	m.status = ""

	return m, m.form.Init()
}

func (m TransactionsModel) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && !m.loading {
		m.state = txStateList
		m.form = nil

		return m, nil
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

	return m, m.saveTxCmd()
}

func (m TransactionsModel) View() string {
	statusLine := ""
	if m.status != "" {
		statusLine = faintStyle.Render(m.status) + "\n"
	}

	switch m.state {
	case txStateList:
		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())

	case txStateAdding:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Saving...")
		}

		return lipgloss.NewStyle().Padding(1).Render(titleStyle.Render("New transaction") + "\n\n" + m.form.View())

	case txStateImporting:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Importing...")
		}

		return lipgloss.NewStyle().Padding(1).Render(titleStyle.Render("Import CSV statement") + "\n\n" + m.form.View())
	}

	return ""
}

func (m *TransactionsModel) refreshListItems() {
	st := m.deps.Store.State()

	names := make(map[string]string, len(st.Categories))
	for _, c := range st.Categories {
		names[c.ID.String()] = c.Name
	}

	currency := ""
	if st.Budget != nil {
		currency = st.Budget.Currency
	}

	items := make([]list.Item, len(st.UserTransactions))
	for i, tx := range st.UserTransactions {
		items[i] = txItem{tx: tx, category: names[tx.CategoryID.String()], currency: currency}
	}

	m.list.SetItems(items)
}

func (m TransactionsModel) reloadCmd() tea.Cmd {
	store := m.deps.Store

	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		store.Refresh(ctx)

		return refreshedMsg{}
	}
}

type saveTxResultMsg struct {
	err string
}

func (m TransactionsModel) saveTxCmd() tea.Cmd {
	st := m.deps.Store.State()
	c := m.deps.Client

	date := time.Now().UTC()
	if s := m.form.GetString("date"); s != "" {
		date, _ = time.Parse(time.DateOnly, s)
	}

	amount, _ := decimal.NewFromString(strings.TrimSpace(m.form.GetString("amount")))

	params := budget.CreateTransactionParams{
		CategoryID:  m.form.GetString("category"),
		Amount:      amount,
		Type:        budget.Type(m.form.GetString("type")),
		Description: strings.TrimSpace(m.form.GetString("description")),
		Date:        date,
	}

	return func() tea.Msg {
		if st.Budget == nil {
			return saveTxResultMsg{err: "No active budget."}
		}

		ctx, cancel := RequestCtx()
		defer cancel()

		res, err := c.CreateTransaction(ctx, st.Budget.ID, params)
		if err != nil {
			return saveTxResultMsg{err: fmt.Sprintf("Error saving: %v", err)}
		}

		if !res.Success {
			return saveTxResultMsg{err: res.Error}
		}

		return saveTxResultMsg{}
	}
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faintStyle.Render(i.Description()))
}

func (m TransactionsModel) startImporting() (tea.Model, tea.Cmd) {
	if m.deps.Store.State().Budget == nil {
		m.status = "No active budget."
		return m, nil
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("CSV file").
				Placeholder("~/Downloads/statement.csv").
				Validate(func(s string) error {
					if _, err := os.Stat(expandHome(s)); err != nil {
						return fmt.Errorf("file not found")
					}
					return nil
				}),

			huh.NewConfirm().
				Key("preview").
				Title("Preview only?").
				Affirmative("Preview").
				Negative("Import"),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = txStateImporting
	m.status = ""

	return m, m.form.Init()
}

func (m TransactionsModel) updateImporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && !m.loading {
		m.state = txStateList
		m.form = nil

		return m, nil
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

	return m, m.importCmd()
}

type importResultMsg struct {
	status string
	reload bool
}

func (m TransactionsModel) importCmd() tea.Cmd {
	c := m.deps.Client
	budgetID := m.deps.Store.State().Budget.ID
	path := expandHome(m.form.GetString("path"))
	preview := m.form.GetBool("preview")

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{status: fmt.Sprintf("Error opening file: %v", err)}
		}
		defer f.Close()

		ctx, cancel := RequestCtx()
		defer cancel()

		res, err := c.ImportStatement(ctx, budgetID, path, f, preview)
		if err != nil {
			return importResultMsg{status: fmt.Sprintf("Error importing: %v", err)}
		}

		if !res.Success {
			return importResultMsg{status: res.Error}
		}

		return importResultMsg{status: importSummary(res.Data), reload: !preview}
	}
}

func importSummary(r *importer.Report) string {
	bySource := map[importer.Source]int{}
	for _, e := range r.Entries {
		bySource[e.Source]++
	}

	verb := "Imported"
	if r.DryRun {
		verb = "Would import"
	}

	return fmt.Sprintf("%s %d rows (%d by category column, %d by rule, %d fallback), %d skipped, %s.",
		verb, len(r.Entries),
		bySource[importer.SourceColumn], bySource[importer.SourceRule], bySource[importer.SourceFallback],
		len(r.Skipped), r.Charset)
}

func expandHome(path string) string {
	path = strings.TrimSpace(path)

	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}

	return path
}
