package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"
)

type inspectCmd struct {
	query string
}

func (*inspectCmd) Name() string     { return "inspect" }
func (*inspectCmd) Synopsis() string { return "query the raw budget files with a JSONPath expression" }
func (*inspectCmd) Usage() string {
	return `bud inspect [-q <jsonpath>] <file>

  Reads a raw budget file (the snapshot or a delta segment) and prints it,
  or the part selected by a JSONPath query. A debugging aid when a
  synchronized directory misbehaves.

Usage Examples:
# All transaction amounts recorded in a segment.
$ bud inspect -q '$.items[?(@.entityType=="transaction")].amount' devices/DEVICE-B/16_16.delta

`
}

func (p *inspectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.query, "q", "", "JSONPath query to apply, e.g. $.items[0].entityId.")
}

func (p *inspectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one file to inspect")
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}

	name := f.Arg(0)
	if !filepath.IsAbs(name) {
		name = filepath.Join(cfg.Budget, name)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return fail(err)
	}

	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return fail(fmt.Errorf("%q is not valid JSON: %w", name, err))
	}
	if p.query != "" {
		if jobj, err = jsonpath.Get(p.query, jobj); err != nil {
			return fail(fmt.Errorf("error applying %q: %w", p.query, err))
		}
	}

	out, err := json.MarshalIndent(jobj, "", "  ")
	if err != nil {
		return fail(err)
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}
