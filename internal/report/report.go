// Package report aggregates expense entries into summaries, ledgers, charts and exports.
// Every function is a pure computation over the entries it is given.
package report

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gitlab.com/yelinaung/expense-report/internal/models"
)

// Report modes selectable on the reports page.
const (
	ModeOverall  = "overall"
	ModeLedger   = "ledger"
	ModeHeadWise = "headwise"
)

// Modes lists the report modes in menu order.
var Modes = []string{ModeOverall, ModeLedger, ModeHeadWise}

// ValidMode reports whether mode names a known report.
func ValidMode(mode string) bool {
	return slices.Contains(Modes, mode)
}

// TrendPoint is the total spent on one calendar date.
type TrendPoint struct {
	Date   time.Time
	Amount decimal.Decimal
}

// Summary is the overall report: grand total, per-head totals and daily trend.
type Summary struct {
	Count int
	Total decimal.Decimal
	TA    decimal.Decimal
	DA    decimal.Decimal
	Tour  decimal.Decimal
	Trend []TrendPoint
}

// Overall computes the grand total, the TA/DA/Tour subtotals (zero when a
// head has no rows) and the total per distinct date in ascending date order.
func Overall(entries []models.Entry) Summary {
	s := Summary{Count: len(entries)}
	byDate := make(map[time.Time]decimal.Decimal)

	for _, e := range entries {
		s.Total = s.Total.Add(e.Amount)
		switch e.ExpenseType {
		case models.ExpenseTA:
			s.TA = s.TA.Add(e.Amount)
		case models.ExpenseDA:
			s.DA = s.DA.Add(e.Amount)
		case models.ExpenseTour:
			s.Tour = s.Tour.Add(e.Amount)
		}
		day := dateOnly(e.Date)
		byDate[day] = byDate[day].Add(e.Amount)
	}

	s.Trend = make([]TrendPoint, 0, len(byDate))
	for day, amount := range byDate {
		s.Trend = append(s.Trend, TrendPoint{Date: day, Amount: amount})
	}
	slices.SortFunc(s.Trend, func(a, b TrendPoint) int {
		return a.Date.Compare(b.Date)
	})

	return s
}

// Subtotal is the amount one employee spent on one expense head.
type Subtotal struct {
	Employee    string
	ExpenseType models.ExpenseType
	Amount      decimal.Decimal
}

// EmployeeLedger is the per-employee report.
type EmployeeLedger struct {
	// Employees is every distinct employee, in order of first appearance.
	Employees []string
	// Selected is the subset of Employees the ledger is filtered to.
	Selected  []string
	Rows      []models.Entry
	Subtotals []Subtotal
}

// Empty reports whether the selection matched no rows.
func (l EmployeeLedger) Empty() bool {
	return len(l.Rows) == 0
}

// IsSelected reports whether employee is part of the selection.
func (l EmployeeLedger) IsSelected(employee string) bool {
	return slices.Contains(l.Selected, employee)
}

// Total is the sum of all subtotals.
func (l EmployeeLedger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, st := range l.Subtotals {
		total = total.Add(st.Amount)
	}
	return total
}

// Ledger filters entries to the selected employees and groups their amounts
// by (employee, expense head), sorted by employee then head. A nil selection
// means every employee; an empty non-nil selection matches nothing.
// Unknown names in the selection are dropped.
func Ledger(entries []models.Entry, selected []string) EmployeeLedger {
	var l EmployeeLedger
	for _, e := range entries {
		if !slices.Contains(l.Employees, e.Employee) {
			l.Employees = append(l.Employees, e.Employee)
		}
	}

	if selected == nil {
		l.Selected = slices.Clone(l.Employees)
	} else {
		for _, name := range l.Employees {
			if slices.Contains(selected, name) {
				l.Selected = append(l.Selected, name)
			}
		}
	}

	type key struct {
		employee    string
		expenseType models.ExpenseType
	}
	sums := make(map[key]decimal.Decimal)
	for _, e := range entries {
		if !l.IsSelected(e.Employee) {
			continue
		}
		l.Rows = append(l.Rows, e)
		k := key{e.Employee, e.ExpenseType}
		sums[k] = sums[k].Add(e.Amount)
	}

	for k, amount := range sums {
		l.Subtotals = append(l.Subtotals, Subtotal{Employee: k.employee, ExpenseType: k.expenseType, Amount: amount})
	}
	slices.SortFunc(l.Subtotals, func(a, b Subtotal) int {
		if c := strings.Compare(a.Employee, b.Employee); c != 0 {
			return c
		}
		return strings.Compare(string(a.ExpenseType), string(b.ExpenseType))
	})

	return l
}

// HeadTotal is the amount spent on one expense head.
type HeadTotal struct {
	ExpenseType models.ExpenseType
	Amount      decimal.Decimal
}

// HeadWise sums amounts per expense head present in entries, sorted by head name.
func HeadWise(entries []models.Entry) []HeadTotal {
	sums := make(map[models.ExpenseType]decimal.Decimal)
	for _, e := range entries {
		sums[e.ExpenseType] = sums[e.ExpenseType].Add(e.Amount)
	}

	totals := make([]HeadTotal, 0, len(sums))
	for t, amount := range sums {
		totals = append(totals, HeadTotal{ExpenseType: t, Amount: amount})
	}
	slices.SortFunc(totals, func(a, b HeadTotal) int {
		return strings.Compare(string(a.ExpenseType), string(b.ExpenseType))
	})
	return totals
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
