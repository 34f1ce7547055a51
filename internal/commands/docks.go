package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"dockassign/internal/config"
	"dockassign/internal/exitcode"
	"dockassign/internal/output"
	"dockassign/internal/service"
)

func init() {
	Register(&DocksCmd{})
	Register(&TrackersCmd{})
}

// DocksCmd implements the docks command.
type DocksCmd struct{}

func (c *DocksCmd) Name() string      { return "docks" }
func (c *DocksCmd) Aliases() []string { return nil }
func (c *DocksCmd) Synopsis() string  { return "Print selectable docks" }
func (c *DocksCmd) Usage() string     { return "dockassign docks" }
func (c *DocksCmd) NeedsAuth() bool   { return false }

func (c *DocksCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *DocksCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	for _, d := range cfg.Catalog().Docks {
		output.FormatDock(out, d)
	}
	return exitcode.Success
}

// TrackersCmd implements the trackers command.
type TrackersCmd struct{}

func (c *TrackersCmd) Name() string      { return "trackers" }
func (c *TrackersCmd) Aliases() []string { return nil }
func (c *TrackersCmd) Synopsis() string  { return "Print selectable trackers" }
func (c *TrackersCmd) Usage() string     { return "dockassign trackers" }
func (c *TrackersCmd) NeedsAuth() bool   { return false }

func (c *TrackersCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *TrackersCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	for _, t := range cfg.Catalog().Trackers {
		output.FormatTracker(out, t)
	}
	return exitcode.Success
}
