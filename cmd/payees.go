package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type payeesCmd struct {
	rules  bool
	rename string
	to     string
}

func (*payeesCmd) Name() string     { return "payees" }
func (*payeesCmd) Synopsis() string { return "list or rename payees" }
func (*payeesCmd) Usage() string {
	return `bud payees [-rules]
bud payees -rename <name> -to <name>

  Lists the enabled payees, optionally with their renaming rules, or
  renames one payee and commits the change.

Usage Examples:
$ bud payees -rename "AMZN Mktp" -to "Amazon"

`
}

func (p *payeesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.rules, "rules", false, "Also show renaming rules.")
	f.StringVar(&p.rename, "rename", "", "Payee to rename (by name).")
	f.StringVar(&p.to, "to", "", "New name for the renamed payee.")
}

func (p *payeesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := LoadStore()
	if err != nil {
		return fail(err)
	}

	if p.rename != "" || p.to != "" {
		if p.rename == "" || p.to == "" {
			fmt.Fprintln(os.Stderr, "Error: -rename and -to go together")
			return subcommands.ExitUsageError
		}
		for payee := range store.Payees() {
			if payee.Name != p.rename {
				continue
			}
			payee.Name = p.to
			store.Put(payee)
			result, err := CommitStore(store)
			if err != nil {
				return fail(err)
			}
			fmt.Fprintf(os.Stderr, "Renamed %q to %q (%s).\n", p.rename, p.to, result.Segment)
			return subcommands.ExitSuccess
		}
		return fail(fmt.Errorf("no payee named %q", p.rename))
	}

	var b strings.Builder
	for payee := range store.Payees() {
		if !payee.Enabled {
			continue
		}
		fmt.Fprintf(&b, "* %s\n", payee.Name)
		if !p.rules {
			continue
		}
		for rule := range store.PayeeRenamingRules() {
			if rule.ParentPayeeID == payee.ID() {
				fmt.Fprintf(&b, "  * rename when the import name %s %q\n", strings.ToLower(rule.Operator), rule.Operand)
			}
		}
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
