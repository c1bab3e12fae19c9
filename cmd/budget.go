package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/google/subcommands"
	"github.com/google/uuid"
)

type budgetCmd struct {
	month    string
	category string
	amount   string
}

func (*budgetCmd) Name() string     { return "budget" }
func (*budgetCmd) Synopsis() string { return "assign an amount to a category for a month" }
func (*budgetCmd) Usage() string {
	return `bud budget -m <month> -category <name> -amount <amount>

  Sets the budgeted amount of a category for one month, creating the
  month's budget if needed, and commits the change.

Usage Examples:
# 500 for groceries in August.
$ bud budget -m 2025-08 -category Groceries -amount 500

`
}

func (p *budgetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.month, "m", "", "Month to budget, e.g. 2025-08 (defaults to the current month).")
	f.StringVar(&p.category, "category", "", "Category to budget (by name).")
	f.StringVar(&p.amount, "amount", "", "Budgeted amount in major units.")
}

func (p *budgetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.category == "" || p.amount == "" {
		fmt.Fprintln(os.Stderr, "Error: -category and -amount are required")
		return subcommands.ExitUsageError
	}
	store, err := LoadStore()
	if err != nil {
		return fail(err)
	}

	month := date.Today().FirstOfMonth()
	if p.month != "" {
		if month, err = date.Parse(p.month + "-01"); err != nil {
			return fail(err)
		}
	}
	amount, err := parseAmount(p.amount, Currency())
	if err != nil {
		return fail(err)
	}

	var categoryID string
	for category := range store.Categories() {
		if category.Name == p.category {
			categoryID = category.ID()
			break
		}
	}
	if categoryID == "" {
		return fail(fmt.Errorf("no category named %q", p.category))
	}

	var monthID string
	for mb := range store.MonthlyBudgets() {
		if mb.Month.SameMonth(month) {
			monthID = mb.ID()
			break
		}
	}
	if monthID == "" {
		monthID = uuid.NewString()
		store.Put(&budget.MonthlyBudget{
			Envelope: budget.Envelope{EntityID: monthID},
			Month:    month,
		})
	}

	// Update the existing line for that category, or create one.
	var line *budget.MonthlyCategoryBudget
	for l := range store.MonthlyCategoryBudgets() {
		if l.ParentMonthlyBudgetID == monthID && l.CategoryID == categoryID {
			line = l
			break
		}
	}
	if line == nil {
		line = &budget.MonthlyCategoryBudget{
			Envelope:              budget.Envelope{EntityID: uuid.NewString()},
			CategoryID:            categoryID,
			ParentMonthlyBudgetID: monthID,
		}
	}
	line.Budgeted = amount
	store.Put(line)

	result, err := CommitStore(store)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(os.Stderr, "Budgeted %s for %q in %s (%s).\n",
		budget.M(amount, Currency()), p.category, month.FirstOfMonth(), result.Segment)
	return subcommands.ExitSuccess
}
