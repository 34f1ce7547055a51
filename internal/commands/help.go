package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"dockassign/internal/config"
	"dockassign/internal/exitcode"
	"dockassign/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "dockassign help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	fmt.Fprintln(out, "\nCommands:")
	for _, cmd := range DefaultRegistry.All() {
		name := cmd.Name()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			name += " (" + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(out, "  %-18s %s\n", name, cmd.Synopsis())
	}
	return exitcode.Success
}

const helpText = `Usage:
  dockassign                                   Open the form (when run in a terminal)
  dockassign form [common flags]               Interactive reassignment form
  dockassign reassign [common flags] [--strict] <dock> <tracker>
                                               Reassign the dock's task to a tracker (id or name)
  dockassign tasks [common flags] [--dock <dock>]
  dockassign list [common flags] [--dock <dock>]
  dockassign docks
  dockassign trackers
  dockassign config [common flags]
  dockassign login [common flags] [--force] [--user <login>]
  dockassign logout [common flags]
  dockassign help
  dockassign version

Common flags:
  --config <dir>   Override config directory
  --quiet, -q      Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  DOCKASSIGN_SESSION_HASH       API session hash
  DOCKASSIGN_SESSION_LOGIN      Login used when no session is stored
  DOCKASSIGN_SESSION_PASSWORD   Password used by login and lazy authentication
  DOCKASSIGN_LIST_STRATEGY      "all" or "filtered"

Exit codes:
  0 success, 1 user error, 2 auth error, 3 backend error, 4 no matching task
`
