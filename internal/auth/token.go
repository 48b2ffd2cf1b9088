package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
	"github.com/MrJamesThe3rd/budgetly/internal/user"
)

// Claims are the contents of a session token. Subject carries the user id.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// UserID parses the subject. It fails for tokens without a valid subject.
func (c Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Tokens signs and verifies HS256 session tokens. No session state is kept server side.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration, issuer string) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}
}

// Issue signs a token for u that expires after the configured TTL.
func (t *Tokens) Issue(u *user.User) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)

	claims := Claims{
		Email: u.Email,
		Name:  u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return signed, expires, nil
}

// Parse verifies the signature, algorithm, issuer and expiry of raw.
func (t *Tokens) Parse(raw string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, apperr.Auth("session expired", err)
		}

		return Claims{}, apperr.Auth("invalid session", err)
	}

	return claims, nil
}
