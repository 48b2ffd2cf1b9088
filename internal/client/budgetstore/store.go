// Package budgetstore is the client-side cache of the active budget and its summaries.
// Fields are replaced only through setters; a setter whose request fails leaves the
// field as it was.
package budgetstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/budgetly/internal/action"
	"github.com/MrJamesThe3rd/budgetly/internal/budget"
	"github.com/MrJamesThe3rd/budgetly/internal/client/localstore"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=budgetstore
type Actions interface {
	Budgets(ctx context.Context) (action.Result[[]*budget.Budget], error)
	Summary(ctx context.Context, budgetID uuid.UUID, r budget.DateRange) (action.Result[[]budget.TypeTotal], error)
	CategorySummary(ctx context.Context, budgetID uuid.UUID, r budget.DateRange) (action.Result[[]budget.CategoryTotal], error)
	HistoryYears(ctx context.Context, budgetID uuid.UUID) (action.Result[[]int], error)
	YearHistory(ctx context.Context, budgetID uuid.UUID, year int) (action.Result[[]budget.HistoryData], error)
	MonthHistory(ctx context.Context, budgetID uuid.UUID, year, month int) (action.Result[[]budget.HistoryData], error)
	Transactions(ctx context.Context, budgetID uuid.UUID, r budget.DateRange) (action.Result[[]*budget.Transaction], error)
	Categories(ctx context.Context) (action.Result[[]*budget.Category], error)
}

// Persister is the local storage the state is serialized into.
type Persister interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Generation keys, one per fetched field.
const (
	keyBudgetSummary    = "budgetSummary"
	keyCategorySummary  = "categorySummary"
	keyCategories       = "categories"
	keyHistoryYears     = "historyYears"
	keyYearHistoryData  = "yearHistoryData"
	keyMonthHistoryData = "monthHistoryData"
	keyUserBudgets      = "userBudgets"
	keyUserTransactions = "userTransactions"
)

type Store struct {
	actions   Actions
	persister Persister
	now       func() time.Time

	mu    sync.Mutex
	state State
	gens  map[string]uint64
}

// Open rehydrates the store from persister, falling back to defaults when nothing was
// saved or the saved state cannot be read.
func Open(ctx context.Context, actions Actions, persister Persister) *Store {
	return open(ctx, actions, persister, time.Now)
}

func open(ctx context.Context, actions Actions, persister Persister, now func() time.Time) *Store {
	s := &Store{
		actions:   actions,
		persister: persister,
		now:       now,
		gens:      make(map[string]uint64),
	}

	s.state = s.load(ctx)

	return s
}

func (s *Store) load(ctx context.Context) State {
	state := DefaultState(s.now())

	raw, err := s.persister.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			slog.WarnContext(ctx, "failed to read stored budget state", "error", err)
		}

		return state
	}

	if err := json.Unmarshal(raw, &state); err != nil {
		slog.WarnContext(ctx, "discarding unreadable budget state", "error", err)
		return DefaultState(s.now())
	}

	return state
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.clone()
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) {
	raw, err := json.Marshal(s.state)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode budget state", "error", err)
		return
	}

	if err := s.persister.Put(ctx, StorageKey, raw); err != nil {
		slog.WarnContext(ctx, "failed to persist budget state", "error", err)
	}
}

func (s *Store) update(ctx context.Context, apply func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apply(&s.state)
	s.persist(ctx)
}

func (s *Store) SetBudget(ctx context.Context, b *budget.Budget) {
	s.update(ctx, func(st *State) { st.Budget = b })
}

func (s *Store) SetDate(ctx context.Context, r budget.DateRange) {
	s.update(ctx, func(st *State) { st.Date = r })
}

func (s *Store) SetPeriod(ctx context.Context, p Period) {
	s.update(ctx, func(st *State) { st.Period = p })
}

func (s *Store) SetTimeFrame(ctx context.Context, tf TimeFrame) {
	s.update(ctx, func(st *State) { st.TimeFrame = tf })
}

// begin starts a request for key and returns its generation.
func (s *Store) begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gens[key]++

	return s.gens[key]
}

// fetch runs call and applies its data when the response succeeded and no newer request
// for the same key was started meanwhile. Failures leave the state untouched.
func fetch[T any](
	ctx context.Context,
	s *Store,
	key string,
	call func(ctx context.Context) (action.Result[T], error),
	apply func(st *State, data T),
) {
	gen := s.begin(key)

	res, err := call(ctx)
	if err != nil {
		slog.DebugContext(ctx, "store fetch failed", "key", key, "error", err)
		return
	}

	if !res.Success {
		slog.DebugContext(ctx, "store fetch unsuccessful", "key", key, "error", res.Error)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gens[key] != gen {
		slog.DebugContext(ctx, "store fetch superseded", "key", key, "generation", gen, "latest", s.gens[key])
		return
	}

	apply(&s.state, res.Data)
	s.persist(ctx)
}

func (s *Store) rangeOrDefault(r budget.DateRange) budget.DateRange {
	if r.From.IsZero() && r.To.IsZero() {
		return budget.CurrentMonth(s.now())
	}

	return r
}

func (s *Store) SetBudgetSummary(ctx context.Context, budgetID uuid.UUID, r budget.DateRange) {
	r = s.rangeOrDefault(r)

	fetch(ctx, s, keyBudgetSummary,
		func(ctx context.Context) (action.Result[[]budget.TypeTotal], error) {
			return s.actions.Summary(ctx, budgetID, r)
		},
		func(st *State, totals []budget.TypeTotal) { st.BudgetSummary = FoldSummary(totals) },
	)
}

func (s *Store) SetCategorySummary(ctx context.Context, budgetID uuid.UUID, r budget.DateRange) {
	r = s.rangeOrDefault(r)

	fetch(ctx, s, keyCategorySummary,
		func(ctx context.Context) (action.Result[[]budget.CategoryTotal], error) {
			return s.actions.CategorySummary(ctx, budgetID, r)
		},
		func(st *State, totals []budget.CategoryTotal) { st.CategorySummary = toCategorySummary(totals) },
	)
}

func (s *Store) SetUserTransactions(ctx context.Context, budgetID uuid.UUID, r budget.DateRange) {
	r = s.rangeOrDefault(r)

	fetch(ctx, s, keyUserTransactions,
		func(ctx context.Context) (action.Result[[]*budget.Transaction], error) {
			return s.actions.Transactions(ctx, budgetID, r)
		},
		func(st *State, txs []*budget.Transaction) { st.UserTransactions = txs },
	)
}

func (s *Store) SetHistoryYears(ctx context.Context, budgetID uuid.UUID) {
	fetch(ctx, s, keyHistoryYears,
		func(ctx context.Context) (action.Result[[]int], error) {
			return s.actions.HistoryYears(ctx, budgetID)
		},
		func(st *State, years []int) { st.HistoryYears = years },
	)
}

// SetYearHistoryData loads per-month totals of year; zero means the current year.
func (s *Store) SetYearHistoryData(ctx context.Context, budgetID uuid.UUID, year int) {
	if year == 0 {
		year = s.now().Year()
	}

	fetch(ctx, s, keyYearHistoryData,
		func(ctx context.Context) (action.Result[[]budget.HistoryData], error) {
			return s.actions.YearHistory(ctx, budgetID, year)
		},
		func(st *State, history []budget.HistoryData) { st.YearHistoryData = history },
	)
}

// SetMonthHistoryData loads per-day totals; zero year or month mean the current one.
func (s *Store) SetMonthHistoryData(ctx context.Context, budgetID uuid.UUID, year, month int) {
	now := s.now()
	if year == 0 {
		year = now.Year()
	}

	if month == 0 {
		month = int(now.Month())
	}

	fetch(ctx, s, keyMonthHistoryData,
		func(ctx context.Context) (action.Result[[]budget.HistoryData], error) {
			return s.actions.MonthHistory(ctx, budgetID, year, month)
		},
		func(st *State, history []budget.HistoryData) { st.MonthHistoryData = history },
	)
}

func (s *Store) SetCategories(ctx context.Context) {
	fetch(ctx, s, keyCategories, s.actions.Categories,
		func(st *State, categories []*budget.Category) { st.Categories = categories },
	)
}

func (s *Store) SetUserBudgets(ctx context.Context) {
	fetch(ctx, s, keyUserBudgets, s.actions.Budgets,
		func(st *State, budgets []*budget.Budget) { st.UserBudgets = budgets },
	)
}

// Refresh reloads every fetched field of the active budget for the current date range
// and period. Without an active budget only the budget list and categories are loaded.
func (s *Store) Refresh(ctx context.Context) {
	st := s.State()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	g.Go(func() error { s.SetUserBudgets(ctx); return nil })
	g.Go(func() error { s.SetCategories(ctx); return nil })

	if st.Budget != nil {
		id := st.Budget.ID

		g.Go(func() error { s.SetBudgetSummary(ctx, id, st.Date); return nil })
		g.Go(func() error { s.SetCategorySummary(ctx, id, st.Date); return nil })
		g.Go(func() error { s.SetUserTransactions(ctx, id, st.Date); return nil })
		g.Go(func() error { s.SetHistoryYears(ctx, id); return nil })
		g.Go(func() error { s.SetYearHistoryData(ctx, id, st.Period.Year); return nil })
		g.Go(func() error { s.SetMonthHistoryData(ctx, id, st.Period.Year, st.Period.Month); return nil })
	}

	_ = g.Wait()
}
