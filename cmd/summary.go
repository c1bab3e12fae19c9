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

type summaryCmd struct {
	month string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the monthly budget summary" }
func (*summaryCmd) Usage() string {
	return `bud summary [-m <month>]

  For each budgeted category of the month: the budgeted amount, the
  outflow so far, and what remains available.
`
}

func (p *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.month, "m", "", "Month to summarize, e.g. 2025-08 (defaults to the current month).")
}

func (p *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := LoadStore()
	if err != nil {
		return fail(err)
	}
	month := date.Today()
	if p.month != "" {
		if month, err = date.Parse(p.month + "-01"); err != nil {
			return fail(err)
		}
	}

	summaries := budget.MonthlySummary(store, month, Currency())

	var b strings.Builder
	fmt.Fprintf(&b, "# Budget for %s\n\n", month.FirstOfMonth())
	if len(summaries) == 0 {
		b.WriteString("Nothing budgeted this month.\n")
		printMarkdown(b.String())
		return subcommands.ExitSuccess
	}
	b.WriteString("| Category | Budgeted | Outflow | Available |\n")
	b.WriteString("|---|--:|--:|--:|\n")
	for _, line := range summaries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", line.Name, line.Budgeted, line.Outflow, line.Available)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
