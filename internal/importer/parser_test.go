package importer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
	"github.com/MrJamesThe3rd/budgetly/internal/budget"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParse_ExportFormat(t *testing.T) {
	csv := `date,type,category,description,amount,currency
2024-03-01,income,Salary,March pay,1500.00,EUR
2024-03-04,expense,Groceries,"Market, weekly",-42.50,EUR
`

	parsed, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 2)
	assert.Empty(t, parsed.Skipped)
	assert.Equal(t, "UTF-8", parsed.Charset)

	assert.Equal(t, Row{
		Line: 2, Date: date(2024, 3, 1), Type: budget.TypeIncome,
		Category: "Salary", Description: "March pay", Amount: parsed.Rows[0].Amount,
	}, parsed.Rows[0])
	assert.Equal(t, "1500", parsed.Rows[0].Amount.String())

	assert.Equal(t, budget.TypeExpense, parsed.Rows[1].Type)
	assert.Equal(t, "Market, weekly", parsed.Rows[1].Description)
	assert.Equal(t, "42.5", parsed.Rows[1].Amount.String())
}

func TestParse_BankPreambleAndSemicolons(t *testing.T) {
	csv := `Account statement - 31-01-2026;
Customer;JOHN DOE

Data mov.;Data-valor;Descrição;Montante;Saldo
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
Total;;;;
`

	parsed, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 2)

	assert.Equal(t, 5, parsed.Rows[0].Line)
	assert.Equal(t, date(2026, 1, 30), parsed.Rows[0].Date)
	assert.Equal(t, budget.TypeExpense, parsed.Rows[0].Type)
	assert.Equal(t, "588.74", parsed.Rows[0].Amount.String())

	assert.Equal(t, budget.TypeIncome, parsed.Rows[1].Type)
	assert.Equal(t, "8608.52", parsed.Rows[1].Amount.String())
}

func TestParse_DebitCreditWindows1252(t *testing.T) {
	csv := "Data;Descrição;Débito;Crédito\n" +
		"15/02/2026;Café Central;3,50;\n" +
		"16/02/2026;Reembolso;;12,00\n" +
		"17/02/2026;Sem valor;;\n"

	encoded, err := charmap.Windows1252.NewEncoder().String(csv)
	require.NoError(t, err)

	parsed, err := Parse(bytes.NewReader([]byte(encoded)))
	require.NoError(t, err)

	require.Len(t, parsed.Rows, 2)
	assert.Equal(t, "Café Central", parsed.Rows[0].Description)
	assert.Equal(t, budget.TypeExpense, parsed.Rows[0].Type)
	assert.Equal(t, "3.5", parsed.Rows[0].Amount.String())
	assert.Equal(t, budget.TypeIncome, parsed.Rows[1].Type)

	require.Len(t, parsed.Skipped, 1)
	assert.Equal(t, 4, parsed.Skipped[0].Line)
}

func TestParse_NoHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("foo,bar\n1,2\n"))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1,234.56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"-588,74", "-588.74"},
		{"42.5", "42.5"},
		{"1,234", "1234"},
		{"€ 12,30", "12.3"},
		{"1.234.567", "1234567"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := parseAmount("n/a")
	assert.Error(t, err)
}
