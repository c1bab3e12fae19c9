package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/google/subcommands"
)

type showCmd struct {
	date string
	all  bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display accounts with their cleared and uncleared balances" }
func (*showCmd) Usage() string {
	return `bud show [-d <date>] [-all]

  Displays every on-budget account with its balance as of a date, split
  into the cleared part and the uncleared part. Transactions dated exactly
  on that day are excluded, so every device shows the same numbers.

Usage Examples:
# Balances as of today.
$ bud show

`
}

func (p *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "", "Balance date (defaults to today).")
	f.BoolVar(&p.all, "all", false, "Include hidden and off-budget accounts.")
}

func (p *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := LoadStore()
	if err != nil {
		return fail(err)
	}
	on := date.Today()
	if p.date != "" {
		if on, err = date.Parse(p.date); err != nil {
			return fail(err)
		}
	}
	cur := Currency()

	var b strings.Builder
	fmt.Fprintf(&b, "# Accounts on %s\n\n", on)
	b.WriteString("| Account | Cleared | Uncleared | Balance |\n")
	b.WriteString("|---|--:|--:|--:|\n")
	total := budget.M(0, cur)
	for account := range store.Accounts() {
		if !p.all && (account.Hidden || !account.OnBudget) {
			continue
		}
		cleared, uncleared := budget.AccountBalance(store, account.ID(), on, cur)
		balance := cleared.Add(uncleared)
		total = total.Add(balance)
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", account.Name, cleared, uncleared, balance)
	}
	fmt.Fprintf(&b, "| **Total** | | | **%s** |\n", total)

	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
