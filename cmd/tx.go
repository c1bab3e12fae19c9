package cmd

import (
	"context"
	"flag"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/google/subcommands"
)

type txCmd struct {
	account string
	month   string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions" }
func (*txCmd) Usage() string {
	return `bud tx [-account <name>] [-m <month>]

  Lists transactions, most recent first, optionally restricted to one
  account or one calendar month.

Usage Examples:
# All of August's transactions on the Checking account.
$ bud tx -account Checking -m 2025-08

`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "account", "", "Only transactions of this account (by name).")
	f.StringVar(&p.month, "m", "", "Only transactions in this month, e.g. 2025-08.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := LoadStore()
	if err != nil {
		return fail(err)
	}
	cur := Currency()

	var month date.Date
	if p.month != "" {
		if month, err = date.Parse(p.month + "-01"); err != nil {
			return fail(err)
		}
	}
	var accountID string
	if p.account != "" {
		for account := range store.Accounts() {
			if account.Name == p.account {
				accountID = account.ID()
				break
			}
		}
		if accountID == "" {
			return fail(fmt.Errorf("no account named %q", p.account))
		}
	}

	accounts := make(map[string]string)
	for account := range store.Accounts() {
		accounts[account.ID()] = account.Name
	}
	payees := make(map[string]string)
	for payee := range store.Payees() {
		payees[payee.ID()] = payee.Name
	}

	var rows []*budget.Transaction
	for tx := range store.Transactions() {
		if accountID != "" && tx.AccountID != accountID {
			continue
		}
		if p.month != "" && !tx.When().SameMonth(month) {
			continue
		}
		rows = append(rows, tx)
	}
	// Most recent first; the store iterates by id.
	slices.SortStableFunc(rows, func(a, b *budget.Transaction) int {
		switch {
		case a.When().After(b.When()):
			return -1
		case b.When().After(a.When()):
			return 1
		}
		return 0
	})

	var b strings.Builder
	b.WriteString("| Date | Account | Payee | Memo | Amount |\n")
	b.WriteString("|---|---|---|---|--:|\n")
	for _, tx := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			tx.When(), accounts[tx.AccountID], payees[tx.PayeeID], tx.Memo, budget.M(tx.Amount, cur))
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
