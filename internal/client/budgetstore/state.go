package budgetstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgetly/internal/budget"
)

// StorageKey is the local storage key the whole state is persisted under.
const StorageKey = "budget-storage"

type TimeFrame string

const (
	TimeFrameMonth TimeFrame = "month"
	TimeFrameYear  TimeFrame = "year"
)

// Period selects the year and month (1-12) the history views show.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// BudgetSummary is the grouped type totals folded into one value.
type BudgetSummary struct {
	Expense decimal.Decimal `json:"expense"`
	Income  decimal.Decimal `json:"income"`
}

type CategorySummary struct {
	CategoryID uuid.UUID       `json:"categoryId"`
	Type       budget.Type     `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
}

type State struct {
	Budget           *budget.Budget        `json:"budget"`
	BudgetSummary    BudgetSummary         `json:"budgetSummary"`
	CategorySummary  []CategorySummary     `json:"categorySummary"`
	Categories       []*budget.Category    `json:"categories"`
	HistoryYears     []int                 `json:"historyYears"`
	YearHistoryData  []budget.HistoryData  `json:"yearHistoryData"`
	MonthHistoryData []budget.HistoryData  `json:"monthHistoryData"`
	TimeFrame        TimeFrame             `json:"timeFrame"`
	Period           Period                `json:"period"`
	Date             budget.DateRange      `json:"date"`
	UserBudgets      []*budget.Budget      `json:"userBudgets"`
	UserTransactions []*budget.Transaction `json:"userTransactions"`
}

// DefaultState is the state of a store that has never been written.
func DefaultState(now time.Time) State {
	return State{
		BudgetSummary: BudgetSummary{Expense: decimal.Zero, Income: decimal.Zero},
		TimeFrame:     TimeFrameMonth,
		Period:        Period{Year: now.Year(), Month: int(now.Month())},
		Date:          budget.CurrentMonth(now),
	}
}

// FoldSummary turns grouped per-type sums into a BudgetSummary. A type without a row
// sums to zero.
func FoldSummary(totals []budget.TypeTotal) BudgetSummary {
	s := BudgetSummary{Expense: decimal.Zero, Income: decimal.Zero}

	for _, t := range totals {
		switch t.Type {
		case budget.TypeExpense:
			s.Expense = s.Expense.Add(t.Sum)
		case budget.TypeIncome:
			s.Income = s.Income.Add(t.Sum)
		}
	}

	return s
}

func toCategorySummary(totals []budget.CategoryTotal) []CategorySummary {
	out := make([]CategorySummary, 0, len(totals))
	for _, t := range totals {
		out = append(out, CategorySummary{CategoryID: t.CategoryID, Type: t.Type, Amount: t.Sum})
	}

	return out
}

// clone copies the slices so a snapshot handed out never aliases store state.
func (s State) clone() State {
	s.CategorySummary = append([]CategorySummary(nil), s.CategorySummary...)
	s.Categories = append([]*budget.Category(nil), s.Categories...)
	s.HistoryYears = append([]int(nil), s.HistoryYears...)
	s.YearHistoryData = append([]budget.HistoryData(nil), s.YearHistoryData...)
	s.MonthHistoryData = append([]budget.HistoryData(nil), s.MonthHistoryData...)
	s.UserBudgets = append([]*budget.Budget(nil), s.UserBudgets...)
	s.UserTransactions = append([]*budget.Transaction(nil), s.UserTransactions...)

	return s
}
