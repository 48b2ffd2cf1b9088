package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
	"github.com/MrJamesThe3rd/budgetly/internal/budget"
)

type Service struct {
	budgets *budget.Service
	matcher Matcher
}

func NewService(budgets *budget.Service, matcher Matcher) *Service {
	return &Service{budgets: budgets, matcher: matcher}
}

// Import parses a statement and records its rows in a budget owned by userID. Each row
// gets the category named in its category column, else the one a matching rule
// suggests, else the "Other" category of its type. Rows that fail validation are
// reported as skipped. Cached views are revalidated once for the whole file. With dryRun
// the resolved entries are returned unrecorded.
func (s *Service) Import(ctx context.Context, userID, budgetID uuid.UUID, r io.Reader, dryRun bool) (*Report, error) {
	if _, err := s.budgets.Get(ctx, userID, budgetID); err != nil {
		return nil, err
	}

	parsed, err := Parse(r)
	if err != nil {
		return nil, err
	}

	categories, err := s.budgets.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	resolver := newResolver(categories)

	report := &Report{
		Charset: parsed.Charset,
		DryRun:  dryRun,
		Entries: make([]Entry, 0, len(parsed.Rows)),
		Skipped: parsed.Skipped,
	}

	for _, row := range parsed.Rows {
		entry, ok, err := s.resolve(ctx, userID, resolver, row)
		if err != nil {
			return nil, err
		}

		if !ok {
			report.Skipped = append(report.Skipped, Skipped{Line: row.Line, Reason: "no " + string(row.Type) + " category available"})
			continue
		}

		report.Entries = append(report.Entries, entry)
	}

	if dryRun {
		return report, nil
	}

	params := make([]budget.CreateTransactionParams, len(report.Entries))
	for i, entry := range report.Entries {
		params[i] = budget.CreateTransactionParams{
			CategoryID:  entry.CategoryID.String(),
			Amount:      entry.Amount,
			Type:        entry.Type,
			Description: entry.Description,
			Date:        entry.Date,
		}
	}

	_, rejected, err := s.budgets.CreateTransactions(ctx, userID, budgetID, params)
	if err != nil {
		return nil, err
	}

	recorded := make([]Entry, 0, len(report.Entries)-len(rejected))

	for i, entry := range report.Entries {
		if rerr, ok := rejected[i]; ok {
			report.Skipped = append(report.Skipped, Skipped{Line: entry.Line, Reason: apperr.MessageOf(rerr, "invalid row")})
			continue
		}

		recorded = append(recorded, entry)
	}

	report.Entries = recorded
	report.Imported = len(recorded)

	slog.InfoContext(ctx, "statement imported",
		"budget_id", budgetID, "imported", report.Imported, "skipped", len(report.Skipped), "charset", report.Charset)

	return report, nil
}

func (s *Service) resolve(ctx context.Context, userID uuid.UUID, res resolver, row Row) (Entry, bool, error) {
	if c, ok := res.byName(row.Category, row.Type); ok {
		row.Category = c.Name
		return Entry{Row: row, CategoryID: c.ID, Source: SourceColumn}, true, nil
	}

	if s.matcher != nil {
		id, ok, err := s.matcher.Suggest(ctx, userID, row.Description, row.Type)
		if err != nil {
			return Entry{}, false, fmt.Errorf("matching line %d: %w", row.Line, err)
		}

		if c, found := res.byID[id]; ok && found && c.Type == row.Type {
			row.Category = c.Name
			return Entry{Row: row, CategoryID: c.ID, Source: SourceRule}, true, nil
		}
	}

	c, ok := res.fallback[row.Type]
	if !ok {
		return Entry{}, false, nil
	}

	row.Category = c.Name

	return Entry{Row: row, CategoryID: c.ID, Source: SourceFallback}, true, nil
}

type resolver struct {
	byID     map[uuid.UUID]*budget.Category
	named    map[string]*budget.Category
	fallback map[budget.Type]*budget.Category
}

func newResolver(categories []*budget.Category) resolver {
	res := resolver{
		byID:     make(map[uuid.UUID]*budget.Category, len(categories)),
		named:    make(map[string]*budget.Category, len(categories)),
		fallback: make(map[budget.Type]*budget.Category, 2),
	}

	for _, c := range categories {
		res.byID[c.ID] = c
		res.named[nameKey(c.Name, c.Type)] = c

		if _, ok := res.fallback[c.Type]; !ok || strings.HasPrefix(strings.ToLower(c.Name), "other") {
			res.fallback[c.Type] = c
		}
	}

	return res
}

func (res resolver) byName(name string, t budget.Type) (*budget.Category, bool) {
	if name == "" {
		return nil, false
	}

	c, ok := res.named[nameKey(name, t)]

	return c, ok
}

func nameKey(name string, t budget.Type) string {
	return string(t) + "/" + strings.ToLower(strings.TrimSpace(name))
}
