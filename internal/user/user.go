package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgetly/internal/budget"
)

// User is an account holder. PasswordHash never leaves the server.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Settings holds per-user preferences. There is at most one row per user.
type Settings struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Aggregate is a user with every budget (and its transactions) and settings loaded.
// Settings is nil until the user creates a first budget.
type Aggregate struct {
	User
	Budgets  []*budget.WithTransactions `json:"budgets"`
	Settings *Settings                  `json:"settings"`
}
