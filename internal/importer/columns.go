package importer

import "strings"

type column int

const (
	colDate column = iota
	colDescription
	colAmount
	colDebit
	colCredit
	colType
	colCategory
)

// aliases maps lower-cased header cells to the column they hold. The export format of
// this service and common bank layouts are covered.
var aliases = map[string]column{
	"date":         colDate,
	"booking date": colDate,
	"data":         colDate,
	"data mov.":    colDate,

	"description": colDescription,
	"memo":        colDescription,
	"payee":       colDescription,
	"descrição":   colDescription,

	"amount":    colAmount,
	"value":     colAmount,
	"montante":  colAmount,
	"movimento": colAmount,

	"debit":      colDebit,
	"withdrawal": colDebit,
	"débito":     colDebit,

	"credit":  colCredit,
	"deposit": colCredit,
	"crédito": colCredit,

	"type": colType,
	"tipo": colType,

	"category":  colCategory,
	"categoria": colCategory,
}

// layout is the position of each recognised column in a header row.
type layout map[column]int

func detectLayout(row []string) (layout, bool) {
	l := make(layout)

	for i, cell := range row {
		col, ok := aliases[strings.ToLower(strings.TrimSpace(cell))]
		if !ok {
			continue
		}

		if _, dup := l[col]; !dup {
			l[col] = i
		}
	}

	_, hasDate := l[colDate]
	_, hasDesc := l[colDescription]
	_, hasAmount := l[colAmount]
	_, hasDebit := l[colDebit]
	_, hasCredit := l[colCredit]

	return l, hasDate && hasDesc && (hasAmount || (hasDebit && hasCredit))
}

func (l layout) cell(row []string, col column) string {
	i, ok := l[col]
	if !ok || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}
