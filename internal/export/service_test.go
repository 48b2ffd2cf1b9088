package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
	"github.com/MrJamesThe3rd/budgetly/internal/budget"
	"github.com/MrJamesThe3rd/budgetly/internal/export"
)

type fixture struct {
	userID   uuid.UUID
	budget   *budget.Budget
	food     *budget.Category
	salary   *budget.Category
	rng      budget.DateRange
	repo     *budget.MockRepository
	exporter *export.Service
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	repo := budget.NewMockRepository(ctrl)

	userID := uuid.New()

	return &fixture{
		userID: userID,
		budget: &budget.Budget{ID: uuid.New(), UserID: userID, Name: "Household", Currency: "EUR"},
		food:   &budget.Category{ID: uuid.New(), Name: "Food", Type: budget.TypeExpense},
		salary: &budget.Category{ID: uuid.New(), Name: "Salary", Type: budget.TypeIncome},
		rng: budget.DateRange{
			From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
		},
		repo:     repo,
		exporter: export.NewService(budget.NewService(repo, budget.NewMockRevalidator(ctrl))),
	}
}

func (f *fixture) expectTransactions(txs ...*budget.Transaction) {
	f.repo.EXPECT().GetBudget(gomock.Any(), f.userID, f.budget.ID).Return(f.budget, nil).Times(2)
	f.repo.EXPECT().ListTransactions(gomock.Any(), f.budget.ID, f.rng).Return(txs, nil)
	f.repo.EXPECT().ListCategories(gomock.Any()).Return([]*budget.Category{f.food, f.salary}, nil)
}

func TestService_Export(t *testing.T) {
	f := newFixture(t)

	f.expectTransactions(
		&budget.Transaction{
			ID: uuid.New(), CategoryID: f.salary.ID, Type: budget.TypeIncome,
			Amount: decimal.RequireFromString("1500"), Description: "March pay",
			Date: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		&budget.Transaction{
			ID: uuid.New(), CategoryID: f.food.ID, Type: budget.TypeExpense,
			Amount: decimal.RequireFromString("42.5"), Description: "Groceries",
			Date: time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC),
		},
		&budget.Transaction{
			ID: uuid.New(), CategoryID: uuid.New(), Type: budget.TypeExpense,
			Amount: decimal.RequireFromString("7.5"), Description: "Parking",
			Date: time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC),
		},
	)

	st, err := f.exporter.Export(context.Background(), f.userID, f.budget.ID, f.rng)
	require.NoError(t, err)

	assert.Equal(t, "1500", st.Income.String())
	assert.Equal(t, "50", st.Expense.String())
	require.Len(t, st.Items, 3)
	assert.Equal(t, "Food", st.Items[1].Category)
	assert.Empty(t, st.Items[2].Category)

	t.Run("CSV", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, st.WriteCSV(&buf))

		rows, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)

		require.Len(t, rows, 4)
		assert.Equal(t, []string{"date", "type", "category", "description", "amount", "currency"}, rows[0])
		assert.Equal(t, []string{"2024-03-01", "income", "Salary", "March pay", "1500.00", "EUR"}, rows[1])
		assert.Equal(t, []string{"2024-03-04", "expense", "Food", "Groceries", "-42.50", "EUR"}, rows[2])
	})

	t.Run("Summary", func(t *testing.T) {
		body := st.Summary()

		assert.Contains(t, body, "Household (EUR) 2024-03-01 to 2024-03-31")
		assert.Contains(t, body, "* 2024-03-01 | March pay | +1500.00 EUR | Salary")
		assert.Contains(t, body, "* 2024-03-09 | Parking | -7.50 EUR | Uncategorized")
		assert.Contains(t, body, "Balance: 1450.00 EUR")
	})
}

func TestService_Export_NotOwned(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetBudget(gomock.Any(), f.userID, f.budget.ID).Return(nil, apperr.ErrNotFound)

	_, err := f.exporter.Export(context.Background(), f.userID, f.budget.ID, f.rng)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
