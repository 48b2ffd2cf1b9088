// Package action holds the response envelope every server action returns.
package action

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
)

// Result is the {success, message, data, error} envelope shared by the API and its clients.
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitzero"`
	Error   string `json:"error,omitempty"`
}

func Ok[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Data: data, Message: message}
}

func Err[T any](msg string) Result[T] {
	return Result[T]{Success: false, Error: msg}
}

// Write encodes res with the given status code.
func Write[T any](w http.ResponseWriter, status int, res Result[T]) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Fail logs err and writes the failure envelope. Persistence errors are reported with
// fallback so internal details never reach the client.
func Fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	kind := apperr.KindOf(err)

	status := http.StatusInternalServerError
	msg := fallback

	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
		msg = apperr.MessageOf(err, fallback)
	case apperr.KindNotFound:
		status = http.StatusNotFound
		msg = apperr.MessageOf(err, fallback)
	case apperr.KindConflict:
		status = http.StatusConflict
		msg = apperr.MessageOf(err, fallback)
	case apperr.KindAuth:
		status = http.StatusUnauthorized
		msg = apperr.MessageOf(err, fallback)
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "action failed", "path", r.URL.Path, "error", err)
	} else {
		slog.DebugContext(r.Context(), "action rejected", "path", r.URL.Path, "kind", kind, "error", err)
	}

	Write(w, status, Err[struct{}](msg))
}

// ErrUnsuccessful is returned by clients when the envelope reports success=false.
var ErrUnsuccessful = errors.New("action unsuccessful")
