package importer

import (
	"context"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgetly/internal/budget"
)

// Matcher suggests a category for a transaction description.
type Matcher interface {
	Suggest(ctx context.Context, userID uuid.UUID, description string, t budget.Type) (uuid.UUID, bool, error)
}

// Source tells where the category of an imported row came from.
type Source string

const (
	SourceColumn   Source = "column"
	SourceRule     Source = "rule"
	SourceFallback Source = "fallback"
)

// Entry is a parsed row with its resolved category.
type Entry struct {
	Row
	CategoryID uuid.UUID `json:"categoryId"`
	Source     Source    `json:"source"`
}

// Report describes an import. With DryRun nothing was written.
type Report struct {
	Charset  string    `json:"charset"`
	DryRun   bool      `json:"dryRun"`
	Entries  []Entry   `json:"entries"`
	Imported int       `json:"imported"`
	Skipped  []Skipped `json:"skipped"`
}
