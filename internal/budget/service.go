package budget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
	"github.com/MrJamesThe3rd/budgetly/internal/validate"
)

// HomePath is the route whose cached content is revalidated after every write.
const HomePath = "/"

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	// CreateWithSettings inserts b and upserts the owner's settings currency in one
	// database transaction. Returns apperr.ErrNotFound when the user does not exist.
	CreateWithSettings(ctx context.Context, b *Budget) error
	ListBudgets(ctx context.Context, userID uuid.UUID) ([]*Budget, error)
	GetBudget(ctx context.Context, userID, budgetID uuid.UUID) (*Budget, error)

	SumByType(ctx context.Context, budgetID uuid.UUID, r DateRange) ([]TypeTotal, error)
	SumByCategory(ctx context.Context, budgetID uuid.UUID, r DateRange) ([]CategoryTotal, error)
	HistoryYears(ctx context.Context, budgetID uuid.UUID) ([]int, error)
	YearHistory(ctx context.Context, budgetID uuid.UUID, year int) ([]HistoryData, error)
	MonthHistory(ctx context.Context, budgetID uuid.UUID, year, month int) ([]HistoryData, error)

	ListTransactions(ctx context.Context, budgetID uuid.UUID, r DateRange) ([]*Transaction, error)
	CreateTransaction(ctx context.Context, tx *Transaction) error

	ListCategories(ctx context.Context) ([]*Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
}

// Revalidator drops cached content rendered under a path.
type Revalidator interface {
	Revalidate(ctx context.Context, path string)
}

type Service struct {
	repo        Repository
	revalidator Revalidator
	now         func() time.Time
}

func NewService(repo Repository, revalidator Revalidator) *Service {
	return &Service{repo: repo, revalidator: revalidator, now: time.Now}
}

// CreateParams is the input of the budget mutation action.
type CreateParams struct {
	UserID     string `json:"userId" validate:"required,uuid"`
	Currency   string `json:"currency" validate:"required,currency"`
	BudgetName string `json:"budgetName" validate:"required,min=1,max=64"`
}

// Create adds a budget for the user and makes its currency the user's default, atomically.
// A missing user is reported as a persistence failure, like any other write failure.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Budget, error) {
	params.BudgetName = strings.TrimSpace(params.BudgetName)

	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	b := &Budget{
		UserID:   uuid.MustParse(params.UserID),
		Name:     params.BudgetName,
		Currency: params.Currency,
	}

	if err := s.repo.CreateWithSettings(ctx, b); err != nil {
		return nil, apperr.Persistence("Unable to update currency or create budget, please try again later", err)
	}

	s.revalidator.Revalidate(ctx, HomePath)

	return b, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Budget, error) {
	return s.repo.ListBudgets(ctx, userID)
}

// Get returns the budget when it belongs to userID, apperr.ErrNotFound otherwise.
func (s *Service) Get(ctx context.Context, userID, budgetID uuid.UUID) (*Budget, error) {
	return s.repo.GetBudget(ctx, userID, budgetID)
}

// DefaultRange fills a zero range with the current month up to now.
func (s *Service) DefaultRange(r DateRange) DateRange {
	if r.From.IsZero() && r.To.IsZero() {
		return CurrentMonth(s.now())
	}

	if r.To.IsZero() {
		r.To = s.now()
	}

	return r
}

func (s *Service) Summary(ctx context.Context, userID, budgetID uuid.UUID, r DateRange) ([]TypeTotal, error) {
	if _, err := s.Get(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	return s.repo.SumByType(ctx, budgetID, s.DefaultRange(r))
}

func (s *Service) CategorySummary(ctx context.Context, userID, budgetID uuid.UUID, r DateRange) ([]CategoryTotal, error) {
	if _, err := s.Get(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	return s.repo.SumByCategory(ctx, budgetID, s.DefaultRange(r))
}

func (s *Service) HistoryYears(ctx context.Context, userID, budgetID uuid.UUID) ([]int, error) {
	if _, err := s.Get(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	return s.repo.HistoryYears(ctx, budgetID)
}

// YearHistory returns per-month totals. A zero year means the current year.
func (s *Service) YearHistory(ctx context.Context, userID, budgetID uuid.UUID, year int) ([]HistoryData, error) {
	if _, err := s.Get(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	if year == 0 {
		year = s.now().Year()
	}

	return s.repo.YearHistory(ctx, budgetID, year)
}

// MonthHistory returns per-day totals of a month (1-12). Zero values mean the current
// year and month.
func (s *Service) MonthHistory(ctx context.Context, userID, budgetID uuid.UUID, year, month int) ([]HistoryData, error) {
	if month < 0 || month > 12 {
		return nil, apperr.Validation("month must be between 1 and 12", nil)
	}

	if _, err := s.Get(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	now := s.now()
	if year == 0 {
		year = now.Year()
	}

	if month == 0 {
		month = int(now.Month())
	}

	return s.repo.MonthHistory(ctx, budgetID, year, month)
}

func (s *Service) Transactions(ctx context.Context, userID, budgetID uuid.UUID, r DateRange) ([]*Transaction, error) {
	if _, err := s.Get(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	return s.repo.ListTransactions(ctx, budgetID, s.DefaultRange(r))
}

func (s *Service) Categories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

type CreateTransactionParams struct {
	CategoryID  string          `json:"categoryId" validate:"required,uuid"`
	Amount      decimal.Decimal `json:"amount"`
	Type        Type            `json:"type" validate:"required,oneof=income expense"`
	Description string          `json:"description" validate:"max=255"`
	Date        time.Time       `json:"date" validate:"required"`
}

// CreateTransaction records a transaction in a budget owned by userID. The category must
// exist and be of the same type as the transaction.
func (s *Service) CreateTransaction(ctx context.Context, userID, budgetID uuid.UUID, params CreateTransactionParams) (*Transaction, error) {
	if err := checkTransaction(params); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	tx, err := s.record(ctx, budgetID, params)
	if err != nil {
		return nil, err
	}

	s.revalidator.Revalidate(ctx, HomePath)

	return tx, nil
}

// CreateTransactions records a batch in a budget owned by userID and revalidates once
// when anything was recorded. Rows failing validation are returned in rejected, keyed by
// their index in params; any other failure stops the batch.
func (s *Service) CreateTransactions(
	ctx context.Context,
	userID, budgetID uuid.UUID,
	params []CreateTransactionParams,
) (recorded []*Transaction, rejected map[int]error, err error) {
	if _, err := s.Get(ctx, userID, budgetID); err != nil {
		return nil, nil, err
	}

	defer func() {
		if len(recorded) > 0 {
			s.revalidator.Revalidate(ctx, HomePath)
		}
	}()

	rejected = make(map[int]error)

	for i, p := range params {
		err := checkTransaction(p)

		var tx *Transaction
		if err == nil {
			tx, err = s.record(ctx, budgetID, p)
		}

		if err != nil {
			if apperr.KindOf(err) != apperr.KindValidation {
				return recorded, rejected, fmt.Errorf("recording transaction %d: %w", i, err)
			}

			rejected[i] = err

			continue
		}

		recorded = append(recorded, tx)
	}

	return recorded, rejected, nil
}

func checkTransaction(params CreateTransactionParams) error {
	if err := validate.Struct(params); err != nil {
		return err
	}

	if !params.Amount.IsPositive() {
		return apperr.Validation("amount must be greater than zero", nil)
	}

	if !params.Amount.Equal(params.Amount.Round(2)) {
		return apperr.Validation("amount must have at most 2 decimal places", nil)
	}

	return nil
}

// record inserts a checked transaction without revalidating.
func (s *Service) record(ctx context.Context, budgetID uuid.UUID, params CreateTransactionParams) (*Transaction, error) {
	categoryID := uuid.MustParse(params.CategoryID)

	category, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Validation("category does not exist", err)
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	if category.Type != params.Type {
		return nil, apperr.Validation(fmt.Sprintf("category %q is for %s transactions", category.Name, category.Type), nil)
	}

	tx := &Transaction{
		BudgetID:    budgetID,
		CategoryID:  categoryID,
		Amount:      params.Amount,
		Type:        params.Type,
		Description: params.Description,
		Date:        params.Date,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}
