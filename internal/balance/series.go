// Package balance derives the chronological running-balance series from a
// ledger snapshot.
package balance

import (
	"sort"

	"fintrack/internal/core"
)

// Point is one step of the running balance: the transaction's date, its
// income or expense contribution (the other is zero) and the balance after it.
type Point struct {
	Date    core.Date
	Income  core.Money
	Expense core.Money
	Balance core.Money
}

// Series holds parallel sequences, all of length equal to the transaction count.
type Series struct {
	Labels   []string
	Incomes  []core.Money
	Expenses []core.Money
	Balances []core.Money
	Points   []Point

	Start        core.Money
	TotalIncome  core.Money
	TotalExpense core.Money
}

// Net is total income minus total expense.
func (s Series) Net() core.Money { return s.TotalIncome.Sub(s.TotalExpense) }

// End is the balance after the last transaction, or the start when empty.
func (s Series) End() core.Money {
	if len(s.Balances) == 0 {
		return s.Start
	}
	return s.Balances[len(s.Balances)-1]
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Points) }

// Compute sorts a copy of txs by date (stable, so same-day transactions keep
// insertion order) and walks it from start.
func Compute(txs []core.Transaction, start core.Money) Series {
	sorted := append([]core.Transaction(nil), txs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	n := len(sorted)
	s := Series{
		Labels:   make([]string, 0, n),
		Incomes:  make([]core.Money, 0, n),
		Expenses: make([]core.Money, 0, n),
		Balances: make([]core.Money, 0, n),
		Points:   make([]Point, 0, n),
		Start:    start,
	}
	running := start
	for _, tx := range sorted {
		var p Point
		p.Date = tx.Date
		switch tx.Type {
		case core.Income:
			p.Income = tx.Amount
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		case core.Expense:
			p.Expense = tx.Amount
			s.TotalExpense = s.TotalExpense.Add(tx.Amount)
		}
		running = running.Add(tx.Signed())
		p.Balance = running

		s.Labels = append(s.Labels, tx.Date.String())
		s.Incomes = append(s.Incomes, p.Income)
		s.Expenses = append(s.Expenses, p.Expense)
		s.Balances = append(s.Balances, p.Balance)
		s.Points = append(s.Points, p)
	}
	return s
}
