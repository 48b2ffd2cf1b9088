package budget

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgetly/internal/action"
	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
	"github.com/MrJamesThe3rd/budgetly/internal/budget"
	authHttp "github.com/MrJamesThe3rd/budgetly/internal/http/auth"
)

type Handler struct {
	svc *budget.Service
}

func NewHandler(svc *budget.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/summary", h.summary)
		r.Get("/categories/summary", h.categorySummary)
		r.Get("/history/years", h.historyYears)
		r.Get("/history/year", h.yearHistory)
		r.Get("/history/month", h.monthHistory)
		r.Get("/transactions", h.transactions)
		r.Post("/transactions", h.createTransaction)
	})
}

// CategoryRoutes mounts the category lookup.
func (h *Handler) CategoryRoutes(r chi.Router) {
	r.Get("/", h.categories)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := authHttp.UserID(r)
	if err != nil {
		action.Fail(w, r, err, "Unauthorized")
		return
	}

	var req budget.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		action.Fail(w, r, apperr.Validation("invalid request body", err), "")
		return
	}

	if req.UserID == "" {
		req.UserID = userID.String()
	}

	if req.UserID != userID.String() {
		action.Fail(w, r, apperr.Auth("Unauthorized", nil), "Unauthorized")
		return
	}

	b, err := h.svc.Create(r.Context(), req)
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, updating currency and budget")
		return
	}

	action.Write(w, http.StatusCreated, action.Ok(b, "Currency and budget updated successfully"))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := authHttp.UserID(r)
	if err != nil {
		action.Fail(w, r, err, "Unauthorized")
		return
	}

	budgets, err := h.svc.List(r.Context(), userID)
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, listing budgets")
		return
	}

	if budgets == nil {
		budgets = []*budget.Budget{}
	}

	action.Write(w, http.StatusOK, action.Ok(budgets, ""))
}

// BudgetScope resolves the session user and the {id} budget of the request.
func BudgetScope(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	userID, err := authHttp.UserID(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	budgetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.Validation("invalid budget id", err)
	}

	return userID, budgetID, nil
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	userID, budgetID, err := BudgetScope(r)
	if err != nil {
		action.Fail(w, r, err, "")
		return
	}

	rng, err := ParseRange(r)
	if err != nil {
		action.Fail(w, r, err, "")
		return
	}

	totals, err := h.svc.Summary(r.Context(), userID, budgetID, rng)
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, loading summary")
		return
	}

	if totals == nil {
		totals = []budget.TypeTotal{}
	}

	action.Write(w, http.StatusOK, action.Ok(totals, ""))
}

func (h *Handler) categorySummary(w http.ResponseWriter, r *http.Request) {
	userID, budgetID, err := BudgetScope(r)
	if err != nil {
		action.Fail(w, r, err, "")
		return
	}

	rng, err := ParseRange(r)
	if err != nil {
		action.Fail(w, r, err, "")
		return
	}

	totals, err := h.svc.CategorySummary(r.Context(), userID, budgetID, rng)
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, loading category summary")
		return
	}

	if totals == nil {
		totals = []budget.CategoryTotal{}
	}

	action.Write(w, http.StatusOK, action.Ok(totals, ""))
}

func (h *Handler) historyYears(w http.ResponseWriter, r *http.Request) {
	userID, budgetID, err := BudgetScope(r)
	if err != nil {
		action.Fail(w, r, err, "")
		return
	}

	years, err := h.svc.HistoryYears(r.Context(), userID, budgetID)
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, loading history years")
		return
	}

	if years == nil {
		years = []int{}
	}

	action.Write(w, http.StatusOK, action.Ok(years, ""))
}

func (h *Handler) yearHistory(w http.ResponseWriter, r *http.Request) {
	userID, budgetID, err := BudgetScope(r)
	if err != nil {
		action.Fail(w, r, err, "")
		return
	}

	year, err := queryInt(r, "year")
	if err != nil {
		action.Fail(w, r, err, "")
		return
	}

	history, err := h.svc.YearHistory(r.Context(), userID, budgetID, year)
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, loading year history")
		return
	}

	writeHistory(w, history)
}

func (h *Handler) monthHistory(w http.ResponseWriter, r *http.Request) {
	userID, budgetID, err := BudgetScope(r)
	if err != nil {
		action.Fail(w, r, err, "")
		return
	}

	year, err := queryInt(r, "year")
	if err != nil {
		action.Fail(w, r, err, "")
		return
	}

	month, err := queryInt(r, "month")
	if err != nil {
		action.Fail(w, r, err, "")
		return
	}

	history, err := h.svc.MonthHistory(r.Context(), userID, budgetID, year, month)
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, loading month history")
		return
	}

	writeHistory(w, history)
}

func writeHistory(w http.ResponseWriter, history []budget.HistoryData) {
	if history == nil {
		history = []budget.HistoryData{}
	}

	action.Write(w, http.StatusOK, action.Ok(history, ""))
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	userID, budgetID, err := BudgetScope(r)
	if err != nil {
		action.Fail(w, r, err, "")
		return
	}

	rng, err := ParseRange(r)
	if err != nil {
		action.Fail(w, r, err, "")
		return
	}

	txs, err := h.svc.Transactions(r.Context(), userID, budgetID, rng)
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, loading transactions")
		return
	}

	if txs == nil {
		txs = []*budget.Transaction{}
	}

	action.Write(w, http.StatusOK, action.Ok(txs, ""))
}

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	userID, budgetID, err := BudgetScope(r)
	if err != nil {
		action.Fail(w, r, err, "")
		return
	}

	var req budget.CreateTransactionParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		action.Fail(w, r, apperr.Validation("invalid request body", err), "")
		return
	}

	tx, err := h.svc.CreateTransaction(r.Context(), userID, budgetID, req)
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, recording transaction")
		return
	}

	action.Write(w, http.StatusCreated, action.Ok(tx, "Transaction recorded"))
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, loading categories")
		return
	}

	if categories == nil {
		categories = []*budget.Category{}
	}

	action.Write(w, http.StatusOK, action.Ok(categories, ""))
}

// ParseRange reads the optional from/to query parameters (RFC 3339 or YYYY-MM-DD).
// A date-only "to" covers the whole day.
func ParseRange(r *http.Request) (budget.DateRange, error) {
	var rng budget.DateRange

	if s := r.URL.Query().Get("from"); s != "" {
		t, err := parseTime(s, false)
		if err != nil {
			return rng, apperr.Validation("from must be a date (YYYY-MM-DD) or RFC 3339 timestamp", err)
		}

		rng.From = t
	}

	if s := r.URL.Query().Get("to"); s != "" {
		t, err := parseTime(s, true)
		if err != nil {
			return rng, apperr.Validation("to must be a date (YYYY-MM-DD) or RFC 3339 timestamp", err)
		}

		rng.To = t
	}

	if !rng.From.IsZero() && !rng.To.IsZero() && rng.To.Before(rng.From) {
		return rng, apperr.Validation("to must not be before from", nil)
	}

	return rng, nil
}

func parseTime(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}

	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}

	return t, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperr.Validation(name+" must be a number", err)
	}

	return n, nil
}
