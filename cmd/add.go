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

type addCmd struct {
	account  string
	payee    string
	category string
	amount   string
	date     string
	memo     string
	cleared  bool
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a transaction and commit it" }
func (*addCmd) Usage() string {
	return `bud add -account <name> -amount <amount> [-payee <name>] [-category <name>] [-d <date>] [-memo <text>]

  Records a new transaction and immediately commits it as a delta segment,
  so other devices pick it up on their next load. The amount is in major
  currency units, negative for spending. An unknown payee is created.

Usage Examples:
# 12.50 spent at the grocer, from the Checking account.
$ bud add -account Checking -payee Grocer -category Groceries -amount -12.50

`
}

func (p *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "account", "", "Account of the transaction (by name).")
	f.StringVar(&p.payee, "payee", "", "Payee of the transaction (by name, created if unknown).")
	f.StringVar(&p.category, "category", "", "Category of the transaction (by name).")
	f.StringVar(&p.amount, "amount", "", "Amount in major units, negative for spending.")
	f.StringVar(&p.date, "d", "", "Date of the transaction (defaults to today).")
	f.StringVar(&p.memo, "memo", "", "Free text memo.")
	f.BoolVar(&p.cleared, "cleared", false, "Mark the transaction as cleared.")
}

func (p *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.account == "" || p.amount == "" {
		fmt.Fprintln(os.Stderr, "Error: -account and -amount are required")
		return subcommands.ExitUsageError
	}
	store, err := LoadStore()
	if err != nil {
		return fail(err)
	}

	amount, err := parseAmount(p.amount, Currency())
	if err != nil {
		return fail(err)
	}
	on := date.Today()
	if p.date != "" {
		if on, err = date.Parse(p.date); err != nil {
			return fail(err)
		}
	}

	var accountID string
	for account := range store.Accounts() {
		if account.Name == p.account {
			accountID = account.ID()
			break
		}
	}
	if accountID == "" {
		return fail(fmt.Errorf("no account named %q", p.account))
	}

	var payeeID string
	if p.payee != "" {
		for payee := range store.Payees() {
			if payee.Name == p.payee {
				payeeID = payee.ID()
				break
			}
		}
		if payeeID == "" {
			payeeID = uuid.NewString()
			store.Put(&budget.Payee{
				Envelope: budget.Envelope{EntityID: payeeID},
				Name:     p.payee,
				Enabled:  true,
			})
		}
	}

	var categoryID string
	if p.category != "" {
		for category := range store.Categories() {
			if category.Name == p.category {
				categoryID = category.ID()
				break
			}
		}
		if categoryID == "" {
			return fail(fmt.Errorf("no category named %q", p.category))
		}
	}

	cleared := budget.Uncleared
	if p.cleared {
		cleared = budget.Cleared
	}
	store.Put(&budget.Transaction{
		Envelope:   budget.Envelope{EntityID: uuid.NewString()},
		AccountID:  accountID,
		PayeeID:    payeeID,
		CategoryID: categoryID,
		Amount:     amount,
		Date:       on,
		Cleared:    cleared,
		Accepted:   true,
		Memo:       p.memo,
	})

	result, err := CommitStore(store)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(os.Stderr, "Committed %d record(s) as %s.\n", result.Count, result.Segment)
	return subcommands.ExitSuccess
}
