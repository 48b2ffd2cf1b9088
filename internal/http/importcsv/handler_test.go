package importcsv_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/budgetly/internal/auth"
	"github.com/MrJamesThe3rd/budgetly/internal/budget"
	authHttp "github.com/MrJamesThe3rd/budgetly/internal/http/auth"
	"github.com/MrJamesThe3rd/budgetly/internal/http/importcsv"
	"github.com/MrJamesThe3rd/budgetly/internal/importer"
	"github.com/MrJamesThe3rd/budgetly/internal/matching"
)

func newRouter(t *testing.T, userID uuid.UUID) (http.Handler, *budget.MockRepository, *matching.MockRepository) {
	ctrl := gomock.NewController(t)

	budgets := budget.NewMockRepository(ctrl)
	rules := matching.NewMockRepository(ctrl)
	svc := importer.NewService(budget.NewService(budgets, budget.NewMockRevalidator(ctrl)), matching.NewService(rules))

	claims := auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()}}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(authHttp.WithClaims(req.Context(), claims)))
		})
	})
	r.Route("/imports/{id}", importcsv.NewHandler(svc).Routes)

	return r, budgets, rules
}

func upload(t *testing.T, h http.Handler, path string, fields map[string]string, file string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if file != "" {
		fw, err := mw.CreateFormFile("file", "statement.csv")
		require.NoError(t, err)

		_, err = fw.Write([]byte(file))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return rec, env
}

func TestHandler_Import_DryRun(t *testing.T) {
	userID := uuid.New()
	budgetID := uuid.New()
	other := &budget.Category{ID: uuid.New(), Name: "Other expense", Type: budget.TypeExpense}

	h, budgets, rules := newRouter(t, userID)
	budgets.EXPECT().GetBudget(gomock.Any(), userID, budgetID).Return(&budget.Budget{ID: budgetID}, nil)
	budgets.EXPECT().ListCategories(gomock.Any()).Return([]*budget.Category{other}, nil)
	rules.EXPECT().FindMatch(gomock.Any(), userID, "Coffee", budget.TypeExpense).Return(uuid.Nil, nil)

	rec, env := upload(t, h, "/imports/"+budgetID.String(),
		map[string]string{"dryRun": "true"},
		"date,description,amount\n2024-05-01,Coffee,-2.20\n")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, env["success"])
	assert.Equal(t, "Statement preview", env["message"])

	data := env["data"].(map[string]any)
	entries := data["entries"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "Other expense", entries[0].(map[string]any)["category"])
}

func TestHandler_Import_MissingFile(t *testing.T) {
	userID := uuid.New()

	h, _, _ := newRouter(t, userID)

	rec, env := upload(t, h, "/imports/"+uuid.NewString(), nil, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file field is required", env["error"])
}

func TestHandler_Import_NoHeader(t *testing.T) {
	userID := uuid.New()
	budgetID := uuid.New()

	h, budgets, _ := newRouter(t, userID)
	budgets.EXPECT().GetBudget(gomock.Any(), userID, budgetID).Return(&budget.Budget{ID: budgetID}, nil)

	rec, env := upload(t, h, "/imports/"+budgetID.String(), nil, "a,b\n1,2\n")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env["error"], "no header row found")
}
