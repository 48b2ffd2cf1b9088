package store_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
	"github.com/MrJamesThe3rd/budgetly/internal/budget"
	"github.com/MrJamesThe3rd/budgetly/internal/budget/store"
	"github.com/MrJamesThe3rd/budgetly/internal/config"
	"github.com/MrJamesThe3rd/budgetly/internal/database"
)

const (
	lockUser       = `SELECT id FROM users WHERE id = \$1 FOR UPDATE`
	insertBudget   = `INSERT INTO budgets \(user_id, name, currency, created_at\)`
	upsertSettings = `INSERT INTO settings \(user_id, currency, updated_at\).+ON CONFLICT \(user_id\) DO UPDATE SET currency = EXCLUDED.currency`
)

func newMockStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return store.New(db), mock
}

func TestStore_CreateWithSettings(t *testing.T) {
	userID := uuid.New()
	budgetID := uuid.New()
	createdAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   func(t *testing.T, err error)
		wantID    uuid.UUID
	}

	tests := []testCase{
		{
			name: "Commits",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(lockUser).WithArgs(userID.String()).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID.String()))
				mock.ExpectQuery(insertBudget).WithArgs(userID.String(), "Groceries", "USD").
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(budgetID.String(), createdAt))
				mock.ExpectExec(upsertSettings).WithArgs(userID.String(), "USD").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantID: budgetID,
		},
		{
			name: "UnknownUserRollsBack",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(lockUser).WithArgs(userID.String()).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
				mock.ExpectRollback()
			},
			wantErr: func(t *testing.T, err error) {
				assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
			},
		},
		{
			name: "SettingsFailureRollsBack",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(lockUser).WithArgs(userID.String()).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID.String()))
				mock.ExpectQuery(insertBudget).WithArgs(userID.String(), "Groceries", "USD").
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(budgetID.String(), createdAt))
				mock.ExpectExec(upsertSettings).WithArgs(userID.String(), "USD").
					WillReturnError(errors.New("connection reset"))
				mock.ExpectRollback()
			},
			wantErr: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "upserting settings")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			tt.setupMock(mock)

			b := &budget.Budget{UserID: userID, Name: "Groceries", Currency: "USD"}
			err := s.CreateWithSettings(context.Background(), b)

			if tt.wantErr != nil {
				require.Error(t, err)
				tt.wantErr(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, b.ID)
				assert.Equal(t, createdAt, b.CreatedAt)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// openPostgres connects to the database named by the DB_* variables, skipping the test
// when DB_HOST is unset.
func openPostgres(t *testing.T) *sql.DB {
	t.Helper()

	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST not set")
	}

	var cfg config.Config
	require.NoError(t, envconfig.Process("", &cfg.DB))
	require.NoError(t, database.Migrate(cfg.ConnectionString()))

	db, err := database.New(context.Background(), cfg.ConnectionString(), database.Pool{MaxOpenConns: 2, MaxIdleConns: 1})
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db
}

func count(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), query, args...).Scan(&n))

	return n
}

func TestStore_CreateWithSettings_Postgres(t *testing.T) {
	db := openPostgres(t)
	s := store.New(db)
	ctx := context.Background()

	var userID uuid.UUID
	require.NoError(t, db.QueryRowContext(ctx,
		`INSERT INTO users (email, name, password_hash) VALUES ($1, 'Store Test', 'x') RETURNING id`,
		uuid.NewString()+"@example.test",
	).Scan(&userID))

	t.Cleanup(func() { _, _ = db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID) })

	require.NoError(t, s.CreateWithSettings(ctx, &budget.Budget{UserID: userID, Name: "Groceries", Currency: "USD"}))

	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM budgets WHERE user_id = $1 AND name = 'Groceries' AND currency = 'USD'`, userID))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM settings WHERE user_id = $1 AND currency = 'USD'`, userID))

	require.NoError(t, s.CreateWithSettings(ctx, &budget.Budget{UserID: userID, Name: "Travel", Currency: "EUR"}))

	assert.Equal(t, 2, count(t, db, `SELECT COUNT(*) FROM budgets WHERE user_id = $1`, userID))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM settings WHERE user_id = $1`, userID))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM settings WHERE user_id = $1 AND currency = 'EUR'`, userID))

	ghost := uuid.New()
	err := s.CreateWithSettings(ctx, &budget.Budget{UserID: ghost, Name: "Nope", Currency: "GBP"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM budgets WHERE user_id = $1`, ghost))
	assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM settings WHERE user_id = $1`, ghost))
}
