package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"dockassign/internal/config"
	"dockassign/internal/exitcode"
	"dockassign/internal/reassign"
	"dockassign/internal/service"
	"dockassign/internal/tui"
)

func init() {
	Register(&FormCmd{})
}

// FormCmd implements the interactive form command.
type FormCmd struct {
	in io.Reader
}

// SetInput replaces stdin as the key source (for testing).
func (c *FormCmd) SetInput(in io.Reader) {
	c.in = in
}

func (c *FormCmd) Name() string      { return "form" }
func (c *FormCmd) Aliases() []string { return []string{"ui"} }
func (c *FormCmd) Synopsis() string  { return "Open the interactive reassignment form" }
func (c *FormCmd) Usage() string     { return "dockassign form [common flags]" }
func (c *FormCmd) NeedsAuth() bool   { return true }

func (c *FormCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *FormCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	in := c.in
	if in == nil {
		in = os.Stdin
	}

	form := reassign.NewForm(newWorkflow(cfg, svc))
	if err := tui.Run(ctx, form, cfg.Catalog(), in, out); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return exitcode.Success
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
