package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgetly/internal/user"
)

// Session is rebuilt from the token on every read. Enriched reports whether User carries
// the full aggregate or only the identity claims from the token.
type Session struct {
	User     user.Aggregate `json:"user"`
	Enriched bool           `json:"enriched"`
	Expires  time.Time      `json:"expires"`
}

// NewSession builds the minimal session described by the token claims.
func NewSession(claims Claims) Session {
	s := Session{
		User: user.Aggregate{User: user.User{Email: claims.Email, Name: claims.Name}},
	}

	if id, err := claims.UserID(); err == nil {
		s.User.ID = id
	}

	if claims.ExpiresAt != nil {
		s.Expires = claims.ExpiresAt.Time
	}

	return s
}

// Augmenter replaces the session user with the aggregate loaded from the database.
type Augmenter struct {
	users AggregateLoader
}

func NewAugmenter(users AggregateLoader) *Augmenter {
	return &Augmenter{users: users}
}

// Augment never fails: a missing subject, an unknown user or a lookup error leave the
// session as it was.
func (a *Augmenter) Augment(ctx context.Context, claims Claims, session Session) Session {
	if claims.Subject == "" {
		return session
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		slog.WarnContext(ctx, "session enrichment skipped", "reason", "invalid subject", "subject", claims.Subject)
		return session
	}

	agg, err := a.users.Aggregate(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "session enrichment skipped", "user_id", id, "error", err)
		return session
	}

	session.User = *agg
	session.Enriched = true

	return session
}
