package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads amounts in either the "1,234.56" or the "1.234,56" convention.
// When both separators appear the last one is the decimal point. A lone comma followed
// by one or two digits is a decimal comma.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '-', r == '+', r == '.', r == ',':
			return r
		}

		return -1
	}, s)

	if clean == "" {
		return decimal.Zero, fmt.Errorf("no digits in %q", s)
	}

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(clean, ",") == 1 && len(clean)-lastComma-1 <= 2 {
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case strings.Count(clean, ".") > 1:
		clean = strings.ReplaceAll(clean, ".", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return d, nil
}
