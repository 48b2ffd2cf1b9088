package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/budgetly/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetAggregate loads the user with budgets, their transactions and settings.
	GetAggregate(ctx context.Context, id uuid.UUID) (*Aggregate, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RegisterParams struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Register creates a user with a bcrypt hash of the password. A taken email is
// reported as apperr.ErrConflict by the repository.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))

	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) Aggregate(ctx context.Context, id uuid.UUID) (*Aggregate, error) {
	return s.repo.GetAggregate(ctx, id)
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(hashed), nil
}

// ComparePassword reports whether plain matches the stored bcrypt hash.
func ComparePassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
