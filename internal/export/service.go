package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgetly/internal/budget"
)

// Item is a single exported transaction with its resolved category name.
type Item struct {
	Transaction *budget.Transaction
	Category    string
}

// Statement is the export of one budget over a date range.
type Statement struct {
	Budget  *budget.Budget
	Range   budget.DateRange
	Items   []Item
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Service builds budget statements.
type Service struct {
	budgets *budget.Service
}

// NewService creates a new export Service.
func NewService(budgets *budget.Service) *Service {
	return &Service{budgets: budgets}
}

// Export collects the transactions of a budget owned by userID within r. A zero range
// means the current month.
func (s *Service) Export(ctx context.Context, userID, budgetID uuid.UUID, r budget.DateRange) (*Statement, error) {
	b, err := s.budgets.Get(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	r = s.budgets.DefaultRange(r)

	transactions, err := s.budgets.Transactions(ctx, userID, budgetID, r)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	categories, err := s.budgets.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	st := &Statement{
		Budget:  b,
		Range:   r,
		Items:   make([]Item, 0, len(transactions)),
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}

	for _, tx := range transactions {
		switch tx.Type {
		case budget.TypeIncome:
			st.Income = st.Income.Add(tx.Amount)
		case budget.TypeExpense:
			st.Expense = st.Expense.Add(tx.Amount)
		}

		st.Items = append(st.Items, Item{Transaction: tx, Category: names[tx.CategoryID]})
	}

	return st, nil
}

var csvHeader = []string{"date", "type", "category", "description", "amount", "currency"}

// WriteCSV writes one row per transaction. Expenses carry a negative amount.
func (st *Statement) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, item := range st.Items {
		tx := item.Transaction

		if err := cw.Write([]string{
			tx.Date.Format("2006-01-02"),
			string(tx.Type),
			item.Category,
			tx.Description,
			signed(tx).StringFixed(2),
			st.Budget.Currency,
		}); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// Summary renders a plain-text digest of the statement.
func (st *Statement) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s (%s) %s to %s\n\n",
		st.Budget.Name, st.Budget.Currency,
		st.Range.From.Format("2006-01-02"), st.Range.To.Format("2006-01-02"))

	for _, item := range st.Items {
		tx := item.Transaction

		category := item.Category
		if category == "" {
			category = "Uncategorized"
		}

		amount := signed(tx).StringFixed(2)
		if tx.Type == budget.TypeIncome {
			amount = "+" + amount
		}

		fmt.Fprintf(&sb, "* %s | %s | %s %s | %s\n",
			tx.Date.Format("2006-01-02"), tx.Description, amount, st.Budget.Currency, category)
	}

	fmt.Fprintf(&sb, "\nIncome:  %s %s\nExpense: %s %s\nBalance: %s %s\n",
		st.Income.StringFixed(2), st.Budget.Currency,
		st.Expense.StringFixed(2), st.Budget.Currency,
		st.Income.Sub(st.Expense).StringFixed(2), st.Budget.Currency)

	return sb.String()
}

func signed(tx *budget.Transaction) decimal.Decimal {
	if tx.Type == budget.TypeExpense {
		return tx.Amount.Neg()
	}

	return tx.Amount
}
