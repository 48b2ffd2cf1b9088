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
	"github.com/MrJamesThe3rd/budgetly/internal/matching"
)

const foreignKeyViolation = "23503"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, userID uuid.UUID, description string, t budget.Type) (uuid.UUID, error) {
	query := `
		SELECT r.category_id
		FROM category_rules r
		JOIN categories c ON c.id = r.category_id
		WHERE r.user_id = $1
		  AND c.type = $3
		  AND $2 ILIKE '%' || r.pattern || '%'
		ORDER BY LENGTH(r.pattern) DESC, r.created_at DESC
		LIMIT 1
	`

	var id uuid.UUID

	err := s.db.QueryRowContext(ctx, query, userID, description, t).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, nil
		}

		return uuid.Nil, fmt.Errorf("finding match: %w", err)
	}

	return id, nil
}

func (s *Store) SaveRule(ctx context.Context, r *matching.Rule) error {
	query := `
		INSERT INTO category_rules (user_id, pattern, category_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, pattern) DO UPDATE
		SET category_id = EXCLUDED.category_id, created_at = NOW()
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, r.UserID, r.Pattern, r.CategoryID).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return apperr.Validation("category does not exist", err)
		}

		return fmt.Errorf("saving rule: %w", err)
	}

	return nil
}

func (s *Store) ListRules(ctx context.Context, userID uuid.UUID) ([]*matching.Rule, error) {
	query := `
		SELECT id, user_id, pattern, category_id, created_at
		FROM category_rules
		WHERE user_id = $1
		ORDER BY pattern
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []*matching.Rule

	for rows.Next() {
		var r matching.Rule
		if err := rows.Scan(&r.ID, &r.UserID, &r.Pattern, &r.CategoryID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		rules = append(rules, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}

	return rules, nil
}
