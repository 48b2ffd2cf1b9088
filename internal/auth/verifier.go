package auth

import (
	"context"
	"log/slog"

	"github.com/MrJamesThe3rd/budgetly/internal/user"
)

// Verifier checks an email/password pair against the stored bcrypt hash.
type Verifier struct {
	users UserFinder
}

func NewVerifier(users UserFinder) *Verifier {
	return &Verifier{users: users}
}

// Verify returns the user only when the input is well formed, the email exists and the
// password matches. Every failure returns (nil, false) so callers cannot tell an unknown
// email from a wrong password.
func (v *Verifier) Verify(ctx context.Context, in LoginInput) (*user.User, bool) {
	creds, err := ParseLogin(in)
	if err != nil {
		slog.DebugContext(ctx, "login rejected", "reason", "validation", "error", err)
		return nil, false
	}

	u, err := v.users.GetByEmail(ctx, creds.Email())
	if err != nil {
		slog.DebugContext(ctx, "login rejected", "reason", "lookup", "error", err)
		return nil, false
	}

	if !user.ComparePassword(u.PasswordHash, creds.Password()) {
		slog.DebugContext(ctx, "login rejected", "reason", "password")
		return nil, false
	}

	return u, true
}
