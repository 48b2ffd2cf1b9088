package matching

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgetly/internal/action"
	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
	"github.com/MrJamesThe3rd/budgetly/internal/budget"
	authHttp "github.com/MrJamesThe3rd/budgetly/internal/http/auth"
	"github.com/MrJamesThe3rd/budgetly/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Description string     `json:"description"`
	CategoryID  *uuid.UUID `json:"categoryId"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	userID, err := authHttp.UserID(r)
	if err != nil {
		action.Fail(w, r, err, "Unauthorized")
		return
	}

	desc := r.URL.Query().Get("description")
	if desc == "" {
		action.Fail(w, r, apperr.Validation("description query parameter is required", nil), "")
		return
	}

	t := budget.Type(r.URL.Query().Get("type"))
	if t == "" {
		t = budget.TypeExpense
	}

	if t != budget.TypeExpense && t != budget.TypeIncome {
		action.Fail(w, r, apperr.Validation("type must be one of: income expense", nil), "")
		return
	}

	id, ok, err := h.svc.Suggest(r.Context(), userID, desc, t)
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, matching category")
		return
	}

	resp := suggestResponse{Description: desc}
	if ok {
		resp.CategoryID = &id
	}

	action.Write(w, http.StatusOK, action.Ok(resp, ""))
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	userID, err := authHttp.UserID(r)
	if err != nil {
		action.Fail(w, r, err, "Unauthorized")
		return
	}

	var req matching.LearnParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		action.Fail(w, r, apperr.Validation("invalid request body", err), "")
		return
	}

	rule, err := h.svc.Learn(r.Context(), userID, req)
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, saving rule")
		return
	}

	action.Write(w, http.StatusCreated, action.Ok(rule, "Rule saved"))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := authHttp.UserID(r)
	if err != nil {
		action.Fail(w, r, err, "Unauthorized")
		return
	}

	rules, err := h.svc.Rules(r.Context(), userID)
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, listing rules")
		return
	}

	if rules == nil {
		rules = []*matching.Rule{}
	}

	action.Write(w, http.StatusOK, action.Ok(rules, ""))
}
