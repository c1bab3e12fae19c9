package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

type initCmd struct{}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create a new budget directory and register this machine" }
func (*initCmd) Usage() string {
	return `bud init -budget <dir>

  Creates an empty budget directory: a snapshot with no entities, and a
  device record for this machine. The directory is meant to live inside a
  file synchronization folder so other machines can register into it.

Usage Examples:
# Creates ~/Dropbox/family-budget and registers this machine as device A.
$ bud init -budget ~/Dropbox/family-budget

`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}

	fsys := budget.DirFS(cfg.Budget)
	if err := budget.InitBudget(fsys); err != nil {
		return fail(err)
	}
	device, err := budget.NewDeviceRegistry(fsys).Register()
	if err != nil {
		return fail(err)
	}

	cfg.DeviceGUID = device.DeviceGUID
	if err := SaveConfig(cfg); err != nil {
		return fail(err)
	}
	fmt.Fprintf(os.Stderr, "Created budget in %q, this machine is device %s.\n", cfg.Budget, device.ShortDeviceID)
	return subcommands.ExitSuccess
}
