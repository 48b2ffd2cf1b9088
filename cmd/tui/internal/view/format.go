package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const requestTimeout = 10 * time.Second

// FormatAmount renders an amount with two decimals followed by the currency code.
func FormatAmount(amount decimal.Decimal, currency string) string {
	if currency == "" {
		return amount.StringFixed(2)
	}

	return amount.StringFixed(2) + " " + currency
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// RequestCtx returns a context with a standard timeout for API calls.
func RequestCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}
