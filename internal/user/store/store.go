package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
	"github.com/MrJamesThe3rd/budgetly/internal/budget"
	"github.com/MrJamesThe3rd/budgetly/internal/user"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, u.Email, u.Name, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperr.Conflict("email is already registered")
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT id, email, name, password_hash, created_at FROM users WHERE email = $1`

	var u user.User

	err := s.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}

		return nil, fmt.Errorf("getting user by email: %w", err)
	}

	return &u, nil
}

// GetAggregate reads the user, settings, budgets and transactions from one repeatable-read
// snapshot so the result is consistent across the separate queries.
func (s *Store) GetAggregate(ctx context.Context, id uuid.UUID) (*user.Aggregate, error) {
	dbTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	userQuery := `
		SELECT u.id, u.email, u.name, u.password_hash, u.created_at,
			s.id, s.currency, s.updated_at
		FROM users u
		LEFT JOIN settings s ON s.user_id = u.id
		WHERE u.id = $1
	`

	var (
		agg              user.Aggregate
		settingsID       *uuid.UUID
		settingsCurrency sql.NullString
		settingsUpdated  sql.NullTime
	)

	err = dbTx.QueryRowContext(ctx, userQuery, id).Scan(
		&agg.ID, &agg.Email, &agg.Name, &agg.PasswordHash, &agg.CreatedAt,
		&settingsID, &settingsCurrency, &settingsUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	if settingsID != nil {
		agg.Settings = &user.Settings{
			ID:        *settingsID,
			UserID:    agg.ID,
			Currency:  settingsCurrency.String,
			UpdatedAt: settingsUpdated.Time,
		}
	}

	budgets, err := loadBudgets(ctx, dbTx, id)
	if err != nil {
		return nil, err
	}

	if err := loadTransactions(ctx, dbTx, id, budgets); err != nil {
		return nil, err
	}

	agg.Budgets = budgets

	return &agg, nil
}

func loadBudgets(ctx context.Context, dbTx *sql.Tx, userID uuid.UUID) ([]*budget.WithTransactions, error) {
	query := `
		SELECT b.id, b.user_id, b.name, b.currency, b.created_at
		FROM budgets b
		WHERE b.user_id = $1
		ORDER BY b.created_at ASC
	`

	rows, err := dbTx.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	budgets := []*budget.WithTransactions{}

	for rows.Next() {
		b := &budget.WithTransactions{Transactions: []*budget.Transaction{}}
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Currency, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}

		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget rows: %w", err)
	}

	return budgets, nil
}

func loadTransactions(ctx context.Context, dbTx *sql.Tx, userID uuid.UUID, budgets []*budget.WithTransactions) error {
	if len(budgets) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*budget.WithTransactions, len(budgets))
	for _, b := range budgets {
		byID[b.ID] = b
	}

	query := `
		SELECT t.id, t.budget_id, t.category_id, t.amount, t.type, t.description, t.date, t.created_at
		FROM transactions t
		JOIN budgets b ON b.id = t.budget_id
		WHERE b.user_id = $1
		ORDER BY t.date DESC, t.created_at DESC
	`

	rows, err := dbTx.QueryContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tx      budget.Transaction
			typeStr string
		)

		if err := rows.Scan(
			&tx.ID, &tx.BudgetID, &tx.CategoryID, &tx.Amount, &typeStr, &tx.Description, &tx.Date, &tx.CreatedAt,
		); err != nil {
			return fmt.Errorf("scanning transaction: %w", err)
		}

		tx.Type = budget.Type(typeStr)

		if b, ok := byID[tx.BudgetID]; ok {
			b.Transactions = append(b.Transactions, &tx)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating transaction rows: %w", err)
	}

	return nil
}
