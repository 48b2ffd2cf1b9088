package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Budget is a named container of transactions in a single currency, owned by one user.
// Its currency is fixed at creation.
type Budget struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
}

// WithTransactions is a budget with its transactions eagerly loaded.
type WithTransactions struct {
	Budget
	Transactions []*Transaction `json:"transactions"`
}

// Transaction is a single income or expense entry of a budget.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	BudgetID    uuid.UUID       `json:"budgetId"`
	CategoryID  uuid.UUID       `json:"categoryId"`
	Amount      decimal.Decimal `json:"amount"`
	Type        Type            `json:"type"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Category is a lookup entry referenced by transactions.
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Icon string    `json:"icon"`
	Type Type      `json:"type"`
}

// TypeTotal is one row of a sum grouped by transaction type.
type TypeTotal struct {
	Type Type            `json:"type"`
	Sum  decimal.Decimal `json:"sum"`
}

// CategoryTotal is one row of a sum grouped by category and type.
type CategoryTotal struct {
	CategoryID uuid.UUID       `json:"categoryId"`
	Type       Type            `json:"type"`
	Sum        decimal.Decimal `json:"sum"`
}

// HistoryData holds the totals of one month (Day == 0) or one day of a month.
type HistoryData struct {
	Expense decimal.Decimal `json:"expense"`
	Income  decimal.Decimal `json:"income"`
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Day     int             `json:"day,omitempty"`
}

// DateRange is an inclusive [From, To] filter.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// CurrentMonth returns [start of the month containing now, now].
func CurrentMonth(now time.Time) DateRange {
	return DateRange{
		From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		To:   now,
	}
}
