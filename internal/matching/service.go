package matching

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgetly/internal/budget"
	"github.com/MrJamesThe3rd/budgetly/internal/validate"
)

// Rule maps a description fragment to the category transactions containing it belong to.
type Rule struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	Pattern    string    `json:"pattern"`
	CategoryID uuid.UUID `json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	// FindMatch returns the category of the longest pattern contained in description,
	// restricted to categories of type t. uuid.Nil means no rule matched.
	FindMatch(ctx context.Context, userID uuid.UUID, description string, t budget.Type) (uuid.UUID, error)
	// SaveRule inserts r or repoints the existing rule with the same pattern.
	SaveRule(ctx context.Context, r *Rule) error
	ListRules(ctx context.Context, userID uuid.UUID) ([]*Rule, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest looks up a category for a transaction description. The bool is false when no
// rule matched.
func (s *Service) Suggest(ctx context.Context, userID uuid.UUID, description string, t budget.Type) (uuid.UUID, bool, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return uuid.Nil, false, nil
	}

	id, err := s.repo.FindMatch(ctx, userID, description, t)
	if err != nil {
		return uuid.Nil, false, err
	}

	return id, id != uuid.Nil, nil
}

type LearnParams struct {
	Pattern    string `json:"pattern" validate:"required,min=3,max=100"`
	CategoryID string `json:"categoryId" validate:"required,uuid"`
}

// Learn remembers that descriptions containing params.Pattern belong to a category.
// Patterns are matched case-insensitively.
func (s *Service) Learn(ctx context.Context, userID uuid.UUID, params LearnParams) (*Rule, error) {
	params.Pattern = strings.ToLower(strings.TrimSpace(params.Pattern))

	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	r := &Rule{
		UserID:     userID,
		Pattern:    params.Pattern,
		CategoryID: uuid.MustParse(params.CategoryID),
	}

	if err := s.repo.SaveRule(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Rules(ctx context.Context, userID uuid.UUID) ([]*Rule, error) {
	return s.repo.ListRules(ctx, userID)
}
