package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
	"github.com/MrJamesThe3rd/budgetly/internal/budget"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectBudgetColumns = `b.id, b.user_id, b.name, b.currency, b.created_at`

func scanBudget(s scanner) (*budget.Budget, error) {
	var b budget.Budget
	if err := s.Scan(&b.ID, &b.UserID, &b.Name, &b.Currency, &b.CreatedAt); err != nil {
		return nil, err
	}

	return &b, nil
}

const selectTransactionColumns = `t.id, t.budget_id, t.category_id, t.amount, t.type, t.description, t.date, t.created_at`

func scanTransaction(s scanner) (*budget.Transaction, error) {
	var tx budget.Transaction

	var typeStr string

	if err := s.Scan(
		&tx.ID, &tx.BudgetID, &tx.CategoryID, &tx.Amount, &typeStr, &tx.Description, &tx.Date, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = budget.Type(typeStr)

	return &tx, nil
}

// CreateWithSettings inserts the budget and upserts the owner's settings row inside one
// database transaction. The owner row is locked first so a concurrent delete cannot leave
// a half-applied write.
func (s *Store) CreateWithSettings(ctx context.Context, b *budget.Budget) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var ownerID uuid.UUID

	err = dbTx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, b.UserID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("user not found")
		}

		return fmt.Errorf("locking user: %w", err)
	}

	budgetQuery := `
		INSERT INTO budgets (user_id, name, currency, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	if err := dbTx.QueryRowContext(ctx, budgetQuery, b.UserID, b.Name, b.Currency).Scan(&b.ID, &b.CreatedAt); err != nil {
		return fmt.Errorf("creating budget: %w", err)
	}

	settingsQuery := `
		INSERT INTO settings (user_id, currency, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET currency = EXCLUDED.currency, updated_at = NOW()
	`
	if _, err := dbTx.ExecContext(ctx, settingsQuery, b.UserID, b.Currency); err != nil {
		return fmt.Errorf("upserting settings: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) ListBudgets(ctx context.Context, userID uuid.UUID) ([]*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + `
		FROM budgets b
		WHERE b.user_id = $1
		ORDER BY b.created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget

	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}

		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget rows: %w", err)
	}

	return budgets, nil
}

func (s *Store) GetBudget(ctx context.Context, userID, budgetID uuid.UUID) (*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + `
		FROM budgets b
		WHERE b.id = $1 AND b.user_id = $2`

	b, err := scanBudget(s.db.QueryRowContext(ctx, query, budgetID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("budget not found")
		}

		return nil, fmt.Errorf("getting budget: %w", err)
	}

	return b, nil
}

func (s *Store) SumByType(ctx context.Context, budgetID uuid.UUID, r budget.DateRange) ([]budget.TypeTotal, error) {
	query := `
		SELECT t.type, COALESCE(SUM(t.amount), 0)
		FROM transactions t
		WHERE t.budget_id = $1 AND t.date >= $2 AND t.date <= $3
		GROUP BY t.type
		ORDER BY t.type
	`

	rows, err := s.db.QueryContext(ctx, query, budgetID, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("summing by type: %w", err)
	}
	defer rows.Close()

	var totals []budget.TypeTotal

	for rows.Next() {
		var (
			total   budget.TypeTotal
			typeStr string
		)

		if err := rows.Scan(&typeStr, &total.Sum); err != nil {
			return nil, fmt.Errorf("scanning type total: %w", err)
		}

		total.Type = budget.Type(typeStr)
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating type totals: %w", err)
	}

	return totals, nil
}

func (s *Store) SumByCategory(ctx context.Context, budgetID uuid.UUID, r budget.DateRange) ([]budget.CategoryTotal, error) {
	query := `
		SELECT t.category_id, t.type, COALESCE(SUM(t.amount), 0)
		FROM transactions t
		WHERE t.budget_id = $1 AND t.date >= $2 AND t.date <= $3
		GROUP BY t.category_id, t.type
		ORDER BY SUM(t.amount) DESC
	`

	rows, err := s.db.QueryContext(ctx, query, budgetID, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("summing by category: %w", err)
	}
	defer rows.Close()

	var totals []budget.CategoryTotal

	for rows.Next() {
		var (
			total   budget.CategoryTotal
			typeStr string
		)

		if err := rows.Scan(&total.CategoryID, &typeStr, &total.Sum); err != nil {
			return nil, fmt.Errorf("scanning category total: %w", err)
		}

		total.Type = budget.Type(typeStr)
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category totals: %w", err)
	}

	return totals, nil
}

func (s *Store) HistoryYears(ctx context.Context, budgetID uuid.UUID) ([]int, error) {
	query := `
		SELECT DISTINCT EXTRACT(YEAR FROM t.date AT TIME ZONE 'UTC')::int AS year
		FROM transactions t
		WHERE t.budget_id = $1
		ORDER BY year DESC
	`

	rows, err := s.db.QueryContext(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("listing history years: %w", err)
	}
	defer rows.Close()

	var years []int

	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("scanning year: %w", err)
		}

		years = append(years, year)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating years: %w", err)
	}

	return years, nil
}

func (s *Store) YearHistory(ctx context.Context, budgetID uuid.UUID, year int) ([]budget.HistoryData, error) {
	query := `
		SELECT
			EXTRACT(MONTH FROM t.date AT TIME ZONE 'UTC')::int AS month,
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'expense'), 0),
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'income'), 0)
		FROM transactions t
		WHERE t.budget_id = $1 AND EXTRACT(YEAR FROM t.date AT TIME ZONE 'UTC') = $2
		GROUP BY month
		ORDER BY month
	`

	rows, err := s.db.QueryContext(ctx, query, budgetID, year)
	if err != nil {
		return nil, fmt.Errorf("loading year history: %w", err)
	}
	defer rows.Close()

	var history []budget.HistoryData

	for rows.Next() {
		h := budget.HistoryData{Year: year}
		if err := rows.Scan(&h.Month, &h.Expense, &h.Income); err != nil {
			return nil, fmt.Errorf("scanning year history: %w", err)
		}

		history = append(history, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating year history: %w", err)
	}

	return history, nil
}

func (s *Store) MonthHistory(ctx context.Context, budgetID uuid.UUID, year, month int) ([]budget.HistoryData, error) {
	query := `
		SELECT
			EXTRACT(DAY FROM t.date AT TIME ZONE 'UTC')::int AS day,
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'expense'), 0),
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'income'), 0)
		FROM transactions t
		WHERE t.budget_id = $1
			AND EXTRACT(YEAR FROM t.date AT TIME ZONE 'UTC') = $2
			AND EXTRACT(MONTH FROM t.date AT TIME ZONE 'UTC') = $3
		GROUP BY day
		ORDER BY day
	`

	rows, err := s.db.QueryContext(ctx, query, budgetID, year, month)
	if err != nil {
		return nil, fmt.Errorf("loading month history: %w", err)
	}
	defer rows.Close()

	var history []budget.HistoryData

	for rows.Next() {
		h := budget.HistoryData{Year: year, Month: month}
		if err := rows.Scan(&h.Day, &h.Expense, &h.Income); err != nil {
			return nil, fmt.Errorf("scanning month history: %w", err)
		}

		history = append(history, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating month history: %w", err)
	}

	return history, nil
}

func (s *Store) ListTransactions(ctx context.Context, budgetID uuid.UUID, r budget.DateRange) ([]*budget.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.budget_id = $1 AND t.date >= $2 AND t.date <= $3
		ORDER BY t.date DESC, t.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, budgetID, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*budget.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *budget.Transaction) error {
	query := `
		INSERT INTO transactions (budget_id, category_id, amount, type, description, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.BudgetID,
		tx.CategoryID,
		tx.Amount,
		tx.Type,
		tx.Description,
		tx.Date,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]*budget.Category, error) {
	query := `SELECT c.id, c.name, c.icon, c.type FROM categories c ORDER BY c.type, c.name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*budget.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return categories, nil
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*budget.Category, error) {
	query := `SELECT c.id, c.name, c.icon, c.type FROM categories c WHERE c.id = $1`

	c, err := scanCategory(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("category not found")
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	return c, nil
}

func scanCategory(s scanner) (*budget.Category, error) {
	var (
		c       budget.Category
		typeStr string
	)

	if err := s.Scan(&c.ID, &c.Name, &c.Icon, &typeStr); err != nil {
		return nil, err
	}

	c.Type = budget.Type(typeStr)

	return &c, nil
}
