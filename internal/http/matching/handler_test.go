package matching_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
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
	matchingHttp "github.com/MrJamesThe3rd/budgetly/internal/http/matching"
	"github.com/MrJamesThe3rd/budgetly/internal/matching"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newRouter(t *testing.T, userID uuid.UUID) (http.Handler, *matching.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := matching.NewMockRepository(ctrl)

	claims := auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()}}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(authHttp.WithClaims(req.Context(), claims)))
		})
	})
	r.Route("/rules", matchingHttp.NewHandler(matching.NewService(repo)).Routes)

	return r, repo
}

func serve(t *testing.T, h http.Handler, method, path, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return rec.Code, env
}

func TestHandler_Suggest(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()

	t.Run("Match", func(t *testing.T) {
		h, repo := newRouter(t, userID)
		repo.EXPECT().FindMatch(gomock.Any(), userID, "Salary ACME", budget.TypeIncome).Return(categoryID, nil)

		code, env := serve(t, h, http.MethodGet, "/rules/suggest?description=Salary+ACME&type=income", "")
		require.Equal(t, http.StatusOK, code)

		var data struct {
			CategoryID *uuid.UUID `json:"categoryId"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		require.NotNil(t, data.CategoryID)
		assert.Equal(t, categoryID, *data.CategoryID)
	})

	t.Run("NoMatchIsNull", func(t *testing.T) {
		h, repo := newRouter(t, userID)
		repo.EXPECT().FindMatch(gomock.Any(), userID, "coffee", budget.TypeExpense).Return(uuid.Nil, nil)

		code, env := serve(t, h, http.MethodGet, "/rules/suggest?description=coffee", "")
		require.Equal(t, http.StatusOK, code)
		assert.Contains(t, string(env.Data), `"categoryId":null`)
	})

	t.Run("BadType", func(t *testing.T) {
		h, _ := newRouter(t, userID)

		code, env := serve(t, h, http.MethodGet, "/rules/suggest?description=coffee&type=gift", "")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.False(t, env.Success)
	})
}

func TestHandler_Learn(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()

	h, repo := newRouter(t, userID)
	repo.EXPECT().SaveRule(gomock.Any(), gomock.Any()).Return(nil)

	code, env := serve(t, h, http.MethodPost, "/rules", `{"pattern":"Uber","categoryId":"`+categoryID.String()+`"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Rule saved", env.Message)
	assert.Contains(t, string(env.Data), `"pattern":"uber"`)
}

func TestHandler_List(t *testing.T) {
	userID := uuid.New()

	h, repo := newRouter(t, userID)
	repo.EXPECT().ListRules(gomock.Any(), userID).Return(nil, nil)

	code, env := serve(t, h, http.MethodGet, "/rules", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))
}
