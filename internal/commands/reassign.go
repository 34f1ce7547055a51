package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"dockassign/internal/config"
	"dockassign/internal/exitcode"
	"dockassign/internal/output"
	"dockassign/internal/reassign"
	"dockassign/internal/service"
)

func init() {
	Register(&ReassignCmd{})
}

// ReassignCmd implements the reassign command.
type ReassignCmd struct {
	dock    string
	tracker string
	strict  bool
}

// SetStrict enables strict matching (for testing).
func (c *ReassignCmd) SetStrict(strict bool) {
	c.strict = strict
}

func (c *ReassignCmd) Name() string      { return "reassign" }
func (c *ReassignCmd) Aliases() []string { return []string{"assign"} }
func (c *ReassignCmd) Synopsis() string  { return "Reassign a dock's task to a tracker" }
func (c *ReassignCmd) Usage() string {
	return "dockassign reassign [--strict] <dock> <tracker>"
}
func (c *ReassignCmd) NeedsAuth() bool { return true }

func (c *ReassignCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.dock, "dock", "d", "", "")
	fs.StringVarP(&c.tracker, "tracker", "t", "", "")
	fs.BoolVar(&c.strict, "strict", false, "")
}

func (c *ReassignCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	dock, tracker := c.dock, c.tracker
	if dock == "" && len(args) > 0 {
		dock, args = args[0], args[1:]
	}
	if tracker == "" && len(args) > 0 {
		// Tracker names may contain spaces: "PAD 9 RESERVE".
		tracker, args = strings.Join(args, " "), nil
	}
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	cat := cfg.Catalog()
	if dock != "" && !cat.HasDock(dock) {
		fmt.Fprintf(errOut, "error: unknown dock: %s (run: dockassign docks)\n", dock)
		return exitcode.UserError
	}

	var trackerID string
	if tracker != "" {
		tr, err := cat.ResolveTracker(tracker)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		trackerID = tr.ID
	}

	opts := workflowOptions(cfg)
	if c.strict {
		opts.Strict = true
	}
	form := reassign.NewForm(reassign.New(svc, opts))
	form.SetDock(dock)
	form.SetTracker(trackerID)

	result, err := form.Submit(ctx)
	kind, msg := output.Message(result, err)
	if err != nil {
		fmt.Fprintf(errOut, "%s: %s\n", kind, msg)
		return exitcode.ForReassign(err)
	}

	if note := output.AmbiguityNote(result); note != "" {
		fmt.Fprintf(errOut, "warning: %s\n", note)
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "%s: %s\n", kind, msg)
	}
	return exitcode.Success
}
