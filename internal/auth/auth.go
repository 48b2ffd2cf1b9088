// Package auth verifies credentials, issues stateless session tokens and enriches
// sessions with the user's data on every read.
package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgetly/internal/user"
)

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=auth
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

type AggregateLoader interface {
	Aggregate(ctx context.Context, id uuid.UUID) (*user.Aggregate, error)
}
