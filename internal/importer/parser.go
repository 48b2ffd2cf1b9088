package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
	"github.com/MrJamesThe3rd/budgetly/internal/budget"
	"github.com/MrJamesThe3rd/budgetly/internal/encoding"
)

// Row is one transaction read from a statement file.
type Row struct {
	Line        int             `json:"line"`
	Date        time.Time       `json:"date"`
	Type        budget.Type     `json:"type"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Skipped is a data row that could not be turned into a transaction.
type Skipped struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Parsed is the result of reading a statement file.
type Parsed struct {
	Charset string
	Rows    []Row
	Skipped []Skipped
}

var dateLayouts = []string{
	time.DateOnly,
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	time.RFC3339,
}

// Parse reads a CSV statement of any charset. The header row is located by its column
// names, so preamble lines before it are ignored. Rows without a parseable date are
// treated as footer noise and dropped silently.
func Parse(r io.Reader) (*Parsed, error) {
	utf8r, charset, err := encoding.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := readRecords(reader)
	if err != nil {
		return nil, apperr.Validation("file is not a readable CSV statement", err)
	}

	for i, rec := range records {
		l, ok := detectLayout(rec.fields)
		if !ok {
			continue
		}

		parsed := parseRows(l, records[i+1:])
		parsed.Charset = charset

		return parsed, nil
	}

	return nil, apperr.Validation("no header row found: expected date, description and amount (or debit and credit) columns", nil)
}

type record struct {
	line   int
	fields []string
}

// readRecords keeps the file line of every record, blank lines included.
func readRecords(reader *csv.Reader) ([]record, error) {
	var records []record

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}

		if err != nil {
			return nil, err
		}

		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}
}

// sniffDelimiter picks ';' when the first lines use it more than ','.
func sniffDelimiter(br *bufio.Reader) rune {
	head, _ := br.Peek(1024)

	if bytes.Count(head, []byte{';'}) > bytes.Count(head, []byte{','}) {
		return ';'
	}

	return ','
}

func parseRows(l layout, records []record) *Parsed {
	parsed := &Parsed{}

	for _, rec := range records {
		row, line := rec.fields, rec.line

		date, ok := parseDate(l.cell(row, colDate))
		if !ok {
			continue
		}

		desc := l.cell(row, colDescription)

		amount, t, err := rowAmount(l, row)
		if err != nil {
			parsed.Skipped = append(parsed.Skipped, Skipped{Line: line, Reason: err.Error()})
			continue
		}

		parsed.Rows = append(parsed.Rows, Row{
			Line:        line,
			Date:        date,
			Type:        t,
			Category:    l.cell(row, colCategory),
			Description: desc,
			Amount:      amount,
		})
	}

	return parsed
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// rowAmount returns the absolute amount and the type implied by the row. An explicit
// type column overrides the sign.
func rowAmount(l layout, row []string) (decimal.Decimal, budget.Type, error) {
	var (
		amount decimal.Decimal
		t      budget.Type
	)

	if s := l.cell(row, colAmount); s != "" {
		d, err := parseAmount(s)
		if err != nil {
			return decimal.Zero, "", err
		}

		amount, t = d.Abs(), budget.TypeIncome
		if d.IsNegative() {
			t = budget.TypeExpense
		}
	} else {
		var err error

		amount, t, err = splitAmount(l.cell(row, colDebit), l.cell(row, colCredit))
		if err != nil {
			return decimal.Zero, "", err
		}
	}

	if amount.IsZero() {
		return decimal.Zero, "", fmt.Errorf("amount is zero")
	}

	switch budget.Type(strings.ToLower(l.cell(row, colType))) {
	case budget.TypeIncome:
		t = budget.TypeIncome
	case budget.TypeExpense:
		t = budget.TypeExpense
	}

	return amount, t, nil
}

func splitAmount(debit, credit string) (decimal.Decimal, budget.Type, error) {
	if debit != "" {
		d, err := parseAmount(debit)
		if err != nil {
			return decimal.Zero, "", err
		}

		if !d.IsZero() {
			return d.Abs(), budget.TypeExpense, nil
		}
	}

	if credit != "" {
		d, err := parseAmount(credit)
		if err != nil {
			return decimal.Zero, "", err
		}

		return d.Abs(), budget.TypeIncome, nil
	}

	return decimal.Zero, "", fmt.Errorf("no debit or credit amount")
}
