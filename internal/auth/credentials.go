package auth

import (
	"strings"

	"github.com/MrJamesThe3rd/budgetly/internal/validate"
)

// LoginInput is the raw, untrusted login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// Credentials is a login payload that passed validation. The zero value is never valid;
// obtain one through ParseLogin.
type Credentials struct {
	email    string
	password string
}

func (c Credentials) Email() string    { return c.email }
func (c Credentials) Password() string { return c.password }

// ParseLogin checks the shape of in and returns either valid Credentials or a
// validation error, never both.
func ParseLogin(in LoginInput) (Credentials, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validate.Struct(in); err != nil {
		return Credentials{}, err
	}

	return Credentials{email: in.Email, password: in.Password}, nil
}
