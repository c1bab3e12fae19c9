package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

type registerCmd struct{}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "register this machine as a device of an existing budget" }
func (*registerCmd) Usage() string {
	return `bud register -budget <dir>

  Registers this machine into an existing budget directory. The machine
  gets the next free short device id (A to Z) and its own device directory
  to append delta segments into.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {}

func (c *registerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}
	if cfg.DeviceGUID != "" {
		fmt.Fprintf(os.Stderr, "This machine is already registered as device %s.\n", cfg.DeviceGUID)
		return subcommands.ExitFailure
	}

	// The budget must exist and be loadable before joining it.
	if _, err := LoadStore(); err != nil {
		return fail(err)
	}

	device, err := budget.NewDeviceRegistry(budget.DirFS(cfg.Budget)).Register()
	if err != nil {
		return fail(err)
	}
	cfg.DeviceGUID = device.DeviceGUID
	if err := SaveConfig(cfg); err != nil {
		return fail(err)
	}
	fmt.Fprintf(os.Stderr, "This machine is now device %s of %q.\n", device.ShortDeviceID, cfg.Budget)
	return subcommands.ExitSuccess
}
