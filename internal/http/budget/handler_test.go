package budget_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
	"github.com/MrJamesThe3rd/budgetly/internal/auth"
	"github.com/MrJamesThe3rd/budgetly/internal/budget"
	authHttp "github.com/MrJamesThe3rd/budgetly/internal/http/auth"
	budgetHttp "github.com/MrJamesThe3rd/budgetly/internal/http/budget"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newRouter(t *testing.T, userID uuid.UUID) (http.Handler, *budget.MockRepository, *budget.MockRevalidator) {
	ctrl := gomock.NewController(t)

	repo := budget.NewMockRepository(ctrl)
	reval := budget.NewMockRevalidator(ctrl)
	h := budgetHttp.NewHandler(budget.NewService(repo, reval))

	claims := auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()}}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(authHttp.WithClaims(req.Context(), claims)))
		})
	})
	r.Route("/budgets", h.Routes)
	r.Route("/categories", h.CategoryRoutes)

	return r, repo, reval
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return rec, env
}

func TestHandler_Create(t *testing.T) {
	userID := uuid.New()

	type testCase struct {
		name       string
		body       func() string
		setupMock  func(repo *budget.MockRepository, reval *budget.MockRevalidator)
		wantStatus int
		wantMsg    string
		wantErr    string
	}

	tests := []testCase{
		{
			name: "Success",
			body: func() string {
				return `{"userId":"` + userID.String() + `","currency":"USD","budgetName":"Groceries"}`
			},
			setupMock: func(repo *budget.MockRepository, reval *budget.MockRevalidator) {
				repo.EXPECT().CreateWithSettings(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b *budget.Budget) error {
						b.ID = uuid.New()
						return nil
					})
				reval.EXPECT().Revalidate(gomock.Any(), budget.HomePath)
			},
			wantStatus: http.StatusCreated,
			wantMsg:    "Currency and budget updated successfully",
		},
		{
			name: "UserIDFromSession",
			body: func() string { return `{"currency":"EUR","budgetName":"Rent"}` },
			setupMock: func(repo *budget.MockRepository, reval *budget.MockRevalidator) {
				repo.EXPECT().CreateWithSettings(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b *budget.Budget) error {
						assert.Equal(t, userID, b.UserID)
						return nil
					})
				reval.EXPECT().Revalidate(gomock.Any(), budget.HomePath)
			},
			wantStatus: http.StatusCreated,
			wantMsg:    "Currency and budget updated successfully",
		},
		{
			name: "OtherUser",
			body: func() string {
				return `{"userId":"` + uuid.NewString() + `","currency":"USD","budgetName":"Groceries"}`
			},
			wantStatus: http.StatusUnauthorized,
			wantErr:    "Unauthorized",
		},
		{
			name:       "InvalidCurrency",
			body:       func() string { return `{"currency":"usd","budgetName":"Groceries"}` },
			wantStatus: http.StatusBadRequest,
			wantErr:    "Currency must be an ISO 4217 currency code",
		},
		{
			name: "PersistenceFailure",
			body: func() string { return `{"currency":"USD","budgetName":"Groceries"}` },
			setupMock: func(repo *budget.MockRepository, _ *budget.MockRevalidator) {
				repo.EXPECT().CreateWithSettings(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
			wantErr:    "Unable to update currency or create budget, please try again later",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo, reval := newRouter(t, userID)
			if tt.setupMock != nil {
				tt.setupMock(repo, reval)
			}

			rec, env := do(t, router, http.MethodPost, "/budgets", tt.body())

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantErr == "", env.Success)
			assert.Equal(t, tt.wantMsg, env.Message)
			assert.Equal(t, tt.wantErr, env.Error)
		})
	}
}

func TestHandler_Summary(t *testing.T) {
	userID, budgetID := uuid.New(), uuid.New()

	t.Run("ExplicitRange", func(t *testing.T) {
		router, repo, _ := newRouter(t, userID)

		want := budget.DateRange{
			From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 1, 31, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
		}

		repo.EXPECT().GetBudget(gomock.Any(), userID, budgetID).Return(&budget.Budget{ID: budgetID}, nil)
		repo.EXPECT().SumByType(gomock.Any(), budgetID, want).Return([]budget.TypeTotal{
			{Type: budget.TypeIncome, Sum: decimal.NewFromInt(1000)},
		}, nil)

		rec, env := do(t, router, http.MethodGet, "/budgets/"+budgetID.String()+"/summary?from=2024-01-01&to=2024-01-31", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var totals []budget.TypeTotal
		require.NoError(t, json.Unmarshal(env.Data, &totals))
		require.Len(t, totals, 1)
		assert.True(t, totals[0].Sum.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("EmptyIsArray", func(t *testing.T) {
		router, repo, _ := newRouter(t, userID)

		repo.EXPECT().GetBudget(gomock.Any(), userID, budgetID).Return(&budget.Budget{ID: budgetID}, nil)
		repo.EXPECT().SumByType(gomock.Any(), budgetID, gomock.Any()).Return(nil, nil)

		rec, env := do(t, router, http.MethodGet, "/budgets/"+budgetID.String()+"/summary", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, string(env.Data))
	})

	t.Run("BadDate", func(t *testing.T) {
		router, _, _ := newRouter(t, userID)

		rec, env := do(t, router, http.MethodGet, "/budgets/"+budgetID.String()+"/summary?from=yesterday", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, env.Success)
	})

	t.Run("InvertedRange", func(t *testing.T) {
		router, _, _ := newRouter(t, userID)

		rec, _ := do(t, router, http.MethodGet, "/budgets/"+budgetID.String()+"/summary?from=2024-02-01&to=2024-01-01", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NotOwned", func(t *testing.T) {
		router, repo, _ := newRouter(t, userID)

		repo.EXPECT().GetBudget(gomock.Any(), userID, budgetID).Return(nil, apperr.NotFound("budget not found"))

		rec, env := do(t, router, http.MethodGet, "/budgets/"+budgetID.String()+"/summary", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "budget not found", env.Error)
	})

	t.Run("BadBudgetID", func(t *testing.T) {
		router, _, _ := newRouter(t, userID)

		rec, _ := do(t, router, http.MethodGet, "/budgets/42/summary", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_MonthHistory(t *testing.T) {
	userID, budgetID := uuid.New(), uuid.New()

	t.Run("Success", func(t *testing.T) {
		router, repo, _ := newRouter(t, userID)

		repo.EXPECT().GetBudget(gomock.Any(), userID, budgetID).Return(&budget.Budget{ID: budgetID}, nil)
		repo.EXPECT().MonthHistory(gomock.Any(), budgetID, 2024, 2).Return([]budget.HistoryData{
			{Year: 2024, Month: 2, Day: 14, Expense: decimal.NewFromInt(30), Income: decimal.Zero},
		}, nil)

		rec, env := do(t, router, http.MethodGet, "/budgets/"+budgetID.String()+"/history/month?year=2024&month=2", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var history []budget.HistoryData
		require.NoError(t, json.Unmarshal(env.Data, &history))
		require.Len(t, history, 1)
		assert.Equal(t, 14, history[0].Day)
	})

	t.Run("NonNumericMonth", func(t *testing.T) {
		router, _, _ := newRouter(t, userID)

		rec, env := do(t, router, http.MethodGet, "/budgets/"+budgetID.String()+"/history/month?month=feb", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "month must be a number", env.Error)
	})
}

func TestHandler_CreateTransaction(t *testing.T) {
	userID, budgetID, categoryID := uuid.New(), uuid.New(), uuid.New()

	router, repo, reval := newRouter(t, userID)

	repo.EXPECT().GetBudget(gomock.Any(), userID, budgetID).Return(&budget.Budget{ID: budgetID}, nil)
	repo.EXPECT().GetCategory(gomock.Any(), categoryID).
		Return(&budget.Category{ID: categoryID, Name: "Food", Type: budget.TypeExpense}, nil)
	repo.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *budget.Transaction) error {
			assert.True(t, tx.Amount.Equal(decimal.RequireFromString("9.99")))
			tx.ID = uuid.New()
			return nil
		})
	reval.EXPECT().Revalidate(gomock.Any(), budget.HomePath)

	body := `{"categoryId":"` + categoryID.String() + `","amount":"9.99","type":"expense","description":"Lunch","date":"2024-03-10T12:00:00Z"}`

	rec, env := do(t, router, http.MethodPost, "/budgets/"+budgetID.String()+"/transactions", body)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
}

func TestHandler_Categories(t *testing.T) {
	router, repo, _ := newRouter(t, uuid.New())

	repo.EXPECT().ListCategories(gomock.Any()).Return([]*budget.Category{
		{ID: uuid.New(), Name: "Salary", Type: budget.TypeIncome},
	}, nil)

	rec, env := do(t, router, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []budget.Category
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	require.Len(t, categories, 1)
	assert.Equal(t, "Salary", categories[0].Name)
}
