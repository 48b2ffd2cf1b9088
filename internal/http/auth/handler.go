package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/budgetly/internal/action"
	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
	"github.com/MrJamesThe3rd/budgetly/internal/auth"
	"github.com/MrJamesThe3rd/budgetly/internal/user"
)

const invalidCredentials = "Invalid Credentials"

type Handler struct {
	users     *user.Service
	verifier  *auth.Verifier
	tokens    *auth.Tokens
	augmenter *auth.Augmenter
}

func NewHandler(users *user.Service, verifier *auth.Verifier, tokens *auth.Tokens, augmenter *auth.Augmenter) *Handler {
	return &Handler{users: users, verifier: verifier, tokens: tokens, augmenter: augmenter}
}

// Routes mounts the public endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

// SessionRoutes mounts the endpoints that need an authenticated request.
func (h *Handler) SessionRoutes(r chi.Router) {
	r.Get("/session", h.session)
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req user.RegisterParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		action.Fail(w, r, apperr.Validation("invalid request body", err), "")
		return
	}

	u, err := h.users.Register(r.Context(), req)
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, registering user")
		return
	}

	action.Write(w, http.StatusCreated, action.Ok(userResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
	}, "Account created"))
}

type tokenResponse struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		action.Fail(w, r, apperr.Auth(invalidCredentials, err), invalidCredentials)
		return
	}

	u, ok := h.verifier.Verify(r.Context(), req)
	if !ok {
		action.Fail(w, r, apperr.Auth(invalidCredentials, nil), invalidCredentials)
		return
	}

	token, expires, err := h.tokens.Issue(u)
	if err != nil {
		action.Fail(w, r, err, "Internal Server Error, signing in")
		return
	}

	action.Write(w, http.StatusOK, action.Ok(tokenResponse{Token: token, Expires: expires}, "Signed in"))
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		action.Fail(w, r, apperr.ErrAuth, "Unauthorized")
		return
	}

	session := h.augmenter.Augment(r.Context(), claims, auth.NewSession(claims))

	action.Write(w, http.StatusOK, action.Ok(session, ""))
}
