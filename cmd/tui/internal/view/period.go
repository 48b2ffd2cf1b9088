package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/budgetly/internal/budget"
	"github.com/MrJamesThe3rd/budgetly/internal/client/budgetstore"
)

// PeriodSelectedMsg carries the month or year the user settled on, with the date range
// that covers it.
type PeriodSelectedMsg struct {
	Frame  budgetstore.TimeFrame
	Period budgetstore.Period
	Range  budget.DateRange
}

// PeriodPicker selects a whole month or year. Up/Down switch the granularity and
// Left/Right move through periods, never past the current one.
type PeriodPicker struct {
	frame  budgetstore.TimeFrame
	period budgetstore.Period
	now    func() time.Time
}

func NewPeriodPicker() PeriodPicker {
	now := time.Now()

	return PeriodPicker{
		frame:  budgetstore.TimeFrameMonth,
		period: budgetstore.Period{Year: now.Year(), Month: int(now.Month())},
		now:    time.Now,
	}
}

// Reset starts the picker from the store's current selection.
func (m *PeriodPicker) Reset(frame budgetstore.TimeFrame, period budgetstore.Period) {
	m.frame = frame
	m.period = period
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyUp, tea.KeyDown:
		if m.frame == budgetstore.TimeFrameYear {
			m.frame = budgetstore.TimeFrameMonth
		} else {
			m.frame = budgetstore.TimeFrameYear
		}
	case tea.KeyLeft:
		m.period = shiftPeriod(m.period, m.frame, false)
	case tea.KeyRight:
		next := shiftPeriod(m.period, m.frame, true)
		if !periodRange(m.frame, next, m.now()).From.After(m.now()) {
			m.period = next
		}
	case tea.KeyEnter:
		sel := PeriodSelectedMsg{Frame: m.frame, Period: m.period, Range: periodRange(m.frame, m.period, m.now())}
		return m, func() tea.Msg { return sel }
	}

	return m, nil
}

// periodRange covers the whole month or year of p, cut off at the end of today.
func periodRange(frame budgetstore.TimeFrame, p budgetstore.Period, now time.Time) budget.DateRange {
	from := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Second)

	if frame == budgetstore.TimeFrameYear {
		from = time.Date(p.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(1, 0, 0).Add(-time.Second)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
	if to.After(today) {
		to = today
	}

	return budget.DateRange{From: from, To: to}
}

func (m PeriodPicker) View() string {
	var b strings.Builder

	b.WriteString("Select Period:\n\n")

	month := time.Date(m.period.Year, time.Month(m.period.Month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")

	for _, opt := range []struct {
		frame budgetstore.TimeFrame
		label string
		value string
	}{
		{budgetstore.TimeFrameMonth, "Month", month},
		{budgetstore.TimeFrameYear, "Year ", fmt.Sprint(m.period.Year)},
	} {
		cursor := " "
		if opt.frame == m.frame {
			cursor = ">"
		}

		fmt.Fprintf(&b, "%s %s  < %s >\n", cursor, opt.label, opt.value)
	}

	b.WriteString("\n(Up/Down: month or year, Left/Right: period, Enter to apply, Esc to back)")

	return b.String()
}
