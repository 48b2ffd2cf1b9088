// Package apperr defines the error kinds shared by services, stores and transports.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport layer can decide how to surface it.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindPersistence Kind = "persistence"
	KindAuth        Kind = "auth"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
)

var (
	ErrNotFound = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict = &Error{Kind: KindConflict, Message: "already exists"}
	ErrAuth     = &Error{Kind: KindAuth, Message: "unauthorized"}
)

// Error is a classified failure. Message is safe to show to a client; Err is not.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, apperr.ErrNotFound) works
// regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

func Validation(msg string, err error) error {
	return &Error{Kind: KindValidation, Message: msg, Err: err}
}

func Persistence(msg string, err error) error {
	return &Error{Kind: KindPersistence, Message: msg, Err: err}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Auth(msg string, err error) error {
	return &Error{Kind: KindAuth, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in the chain, or KindPersistence for
// unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindPersistence
}

// MessageOf returns the client-safe message of err, or fallback for unclassified errors.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}

	return fallback
}
