package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"dockassign/internal/config"
	"dockassign/internal/exitcode"
	"dockassign/internal/output"
	"dockassign/internal/reassign"
	"dockassign/internal/service"
)

func init() {
	Register(&TasksCmd{})
}

// TasksCmd implements the tasks command.
// Lists candidate tasks with the configured strategy, optionally only those matching a dock.
type TasksCmd struct {
	dock string
}

// SetDock sets the dock filter (for testing).
func (c *TasksCmd) SetDock(dock string) {
	c.dock = dock
}

func (c *TasksCmd) Name() string      { return "tasks" }
func (c *TasksCmd) Aliases() []string { return []string{"list"} }
func (c *TasksCmd) Synopsis() string  { return "List candidate tasks" }
func (c *TasksCmd) Usage() string     { return "dockassign tasks [--dock <dock>]" }
func (c *TasksCmd) NeedsAuth() bool   { return true }

func (c *TasksCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.dock, "dock", "d", "", "")
}

func (c *TasksCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	wf := newWorkflow(cfg, svc)

	var (
		tasks []service.Task
		err   error
	)
	if c.dock == "" {
		tasks, err = wf.Tasks(ctx)
	} else {
		tasks, err = wf.Candidates(ctx, c.dock)
	}
	if err != nil {
		_, msg := output.Message(reassign.Outcome{}, err)
		fmt.Fprintf(errOut, "error: %s\n", msg)
		return exitcode.ForReassign(err)
	}

	if c.dock != "" && len(tasks) == 0 {
		fmt.Fprintf(errOut, "warning: no matching task found for dock %s\n", c.dock)
		return exitcode.NoMatch
	}

	for _, t := range tasks {
		output.FormatTask(out, t)
	}
	return exitcode.Success
}
