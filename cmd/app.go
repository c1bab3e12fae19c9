// Package cmd implements the CLI application to manage a shared budget.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&initCmd{}, "budget")
	c.Register(&registerCmd{}, "budget")
	c.Register(&inspectCmd{}, "budget")

	c.Register(&addCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")
	c.Register(&showCmd{}, "transactions")
	c.Register(&payeesCmd{}, "transactions")

	c.Register(&budgetCmd{}, "budgeting")
	c.Register(&summaryCmd{}, "budgeting")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var budgetDir = flag.String("budget", "", "Path to the budget directory (defaults to the configured one)")
var strictness = flag.String("strictness", "", "Corrupt segment policy: lenient or strict")
var currency = flag.String("currency", "", "Display currency (ISO 4217 code)")

// LoadStore loads the configured budget into an entity store.
func LoadStore() (*budget.EntityStore, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	policy, err := budget.ParseStrictness(cfg.Strictness)
	if err != nil {
		return nil, err
	}
	return budget.LoadDir(cfg.Budget, policy)
}

// CommitStore writes the store's pending edits as a new delta segment
// authored by the configured device.
func CommitStore(store *budget.EntityStore) (budget.CommitResult, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return budget.CommitResult{}, err
	}
	if cfg.DeviceGUID == "" {
		return budget.CommitResult{}, fmt.Errorf("this machine is not registered in %q, run 'bud register' first", cfg.Budget)
	}
	return budget.CommitDir(cfg.Budget, store, cfg.DeviceGUID)
}

// Currency returns the display currency: the -currency flag, or the
// configured one.
func Currency() string {
	if *currency != "" {
		return *currency
	}
	cfg, err := LoadConfig()
	if err != nil || cfg.Currency == "" {
		return "EUR"
	}
	return cfg.Currency
}

// fail prints the error and returns the failure exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
