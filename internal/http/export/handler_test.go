package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
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
	"github.com/MrJamesThe3rd/budgetly/internal/export"
	authHttp "github.com/MrJamesThe3rd/budgetly/internal/http/auth"
	exportHttp "github.com/MrJamesThe3rd/budgetly/internal/http/export"
)

func newRouter(t *testing.T, userID uuid.UUID) (http.Handler, *budget.MockRepository) {
	ctrl := gomock.NewController(t)

	repo := budget.NewMockRepository(ctrl)
	svc := export.NewService(budget.NewService(repo, budget.NewMockRevalidator(ctrl)))

	claims := auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()}}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(authHttp.WithClaims(req.Context(), claims)))
		})
	})
	r.Route("/exports/{id}", exportHttp.NewHandler(svc).Routes)

	return r, repo
}

func expectStatement(repo *budget.MockRepository, b *budget.Budget) {
	food := &budget.Category{ID: uuid.New(), Name: "Food", Type: budget.TypeExpense}

	repo.EXPECT().GetBudget(gomock.Any(), b.UserID, b.ID).Return(b, nil).Times(2)
	repo.EXPECT().ListTransactions(gomock.Any(), b.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, r budget.DateRange) ([]*budget.Transaction, error) {
			if r.From.Year() != 2024 || r.To.Day() != 31 {
				return nil, nil
			}

			return []*budget.Transaction{{
				ID: uuid.New(), CategoryID: food.ID, Type: budget.TypeExpense,
				Amount: decimal.RequireFromString("12.3"), Description: "Lunch",
				Date: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			}}, nil
		})
	repo.EXPECT().ListCategories(gomock.Any()).Return([]*budget.Category{food}, nil)
}

func TestHandler_Metadata(t *testing.T) {
	userID := uuid.New()
	b := &budget.Budget{ID: uuid.New(), UserID: userID, Name: "Daily", Currency: "USD"}

	h, repo := newRouter(t, userID)
	expectStatement(repo, b)

	req := httptest.NewRequest(http.MethodGet, "/exports/"+b.ID.String()+"?from=2024-01-01&to=2024-01-31", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			Transactions []struct {
				Category string `json:"category"`
				Amount   string `json:"amount"`
			} `json:"transactions"`
			Expense string `json:"expense"`
			Summary string `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	assert.True(t, env.Success)
	require.Len(t, env.Data.Transactions, 1)
	assert.Equal(t, "Food", env.Data.Transactions[0].Category)
	assert.Equal(t, "12.3", env.Data.Expense)
	assert.Contains(t, env.Data.Summary, "* 2024-01-15 | Lunch | -12.30 USD | Food")
}

func TestHandler_Download(t *testing.T) {
	userID := uuid.New()
	b := &budget.Budget{ID: uuid.New(), UserID: userID, Name: "Daily", Currency: "USD"}

	h, repo := newRouter(t, userID)
	expectStatement(repo, b)

	req := httptest.NewRequest(http.MethodGet, "/exports/"+b.ID.String()+"/download?from=2024-01-01&to=2024-01-31", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "export_20240131.zip")

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)

	files := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()

		files[f.Name] = string(body)
	}

	assert.Contains(t, files["statement.csv"], "2024-01-15,expense,Food,Lunch,-12.30,USD")
	assert.Contains(t, files["summary.txt"], "Balance: -12.30 USD")
}

func TestHandler_NotOwned(t *testing.T) {
	userID := uuid.New()
	budgetID := uuid.New()

	h, repo := newRouter(t, userID)
	repo.EXPECT().GetBudget(gomock.Any(), userID, budgetID).Return(nil, apperr.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/exports/"+budgetID.String()+"/download", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
