package budget

import (
	"slices"
	"strings"

	"github.com/etnz/budget/date"
)

// AccountBalance computes the balance of an account as of a date, split into
// the cleared part (Cleared or Reconciled transactions) and the uncleared
// part. Transactions dated exactly on the given day are excluded: same-day
// records may still be pending on the authoring device, and excluding them
// keeps the balance stable across devices.
func AccountBalance(store *EntityStore, accountID string, on date.Date, currency string) (cleared, uncleared Money) {
	cleared = M(0, currency)
	uncleared = M(0, currency)
	for tx := range store.Transactions() {
		if tx.AccountID != accountID || tx.When().After(on) || tx.When() == on {
			continue
		}
		if tx.Cleared.IsCleared() {
			cleared = cleared.Add(M(tx.Amount, currency))
		} else {
			uncleared = uncleared.Add(M(tx.Amount, currency))
		}
	}
	return cleared, uncleared
}

// CategorySummary is one line of a monthly budget summary.
type CategorySummary struct {
	CategoryID string
	Name       string
	Budgeted   Money
	Outflow    Money
	Available  Money
}

// MonthlySummary computes, for each category budgeted in the given month,
// the budgeted amount, the total outflow of the month's transactions in that
// category, and what remains available. Categories with nothing budgeted are
// left out. The result is sorted by category name.
func MonthlySummary(store *EntityStore, month date.Date, currency string) []CategorySummary {
	var budget *MonthlyBudget
	for mb := range store.MonthlyBudgets() {
		if mb.Month.SameMonth(month) {
			budget = mb
			break
		}
	}
	if budget == nil {
		return nil
	}

	outflows := categoryOutflows(store, month, currency)

	var summaries []CategorySummary
	for line := range store.MonthlyCategoryBudgets() {
		if line.ParentMonthlyBudgetID != budget.ID() || line.Budgeted <= 0 {
			continue
		}
		category, ok := store.Get(KindCategory, line.CategoryID)
		if !ok {
			continue
		}
		budgeted := M(line.Budgeted, currency)
		outflow := outflows[line.CategoryID]
		if outflow.IsZero() {
			outflow = M(0, currency)
		}
		summaries = append(summaries, CategorySummary{
			CategoryID: line.CategoryID,
			Name:       category.(*Category).Name,
			Budgeted:   budgeted,
			Outflow:    outflow,
			Available:  budgeted.Sub(outflow),
		})
	}
	slices.SortFunc(summaries, func(a, b CategorySummary) int { return strings.Compare(a.Name, b.Name) })
	return summaries
}

// categoryOutflows sums the absolute value of negative amounts per category
// over the month's transactions. Split transactions contribute each of their
// lines to that line's own category.
func categoryOutflows(store *EntityStore, month date.Date, currency string) map[string]Money {
	outflows := make(map[string]Money)
	add := func(categoryID string, amount int64) {
		if categoryID == "" || amount >= 0 {
			return
		}
		outflows[categoryID] = outflows[categoryID].Add(M(amount, currency).Abs())
	}
	for tx := range store.Transactions() {
		if !tx.When().SameMonth(month) {
			continue
		}
		if len(tx.SubTransactions) > 0 {
			for _, split := range tx.SubTransactions {
				add(split.CategoryID, split.Amount)
			}
			continue
		}
		add(tx.CategoryID, tx.Amount)
	}
	return outflows
}
