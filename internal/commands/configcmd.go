package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"dockassign/internal/config"
	"dockassign/internal/exitcode"
	"dockassign/internal/service"
)

const redacted = "<redacted>"

func init() {
	Register(&ConfigCmd{})
}

// ConfigCmd implements the config command.
// Prints the effective settings as YAML with secrets redacted.
type ConfigCmd struct{}

func (c *ConfigCmd) Name() string      { return "config" }
func (c *ConfigCmd) Aliases() []string { return nil }
func (c *ConfigCmd) Synopsis() string  { return "Print effective settings" }
func (c *ConfigCmd) Usage() string     { return "dockassign config [common flags]" }
func (c *ConfigCmd) NeedsAuth() bool   { return false }

func (c *ConfigCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	s := cfg.Settings
	if s.Session.Hash != "" {
		s.Session.Hash = redacted
	}
	if s.Session.Password != "" {
		s.Session.Password = redacted
	}
	cat := cfg.Catalog()
	s.Catalog = config.CatalogSettings{Docks: cat.Docks, Trackers: cat.Trackers}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := enc.Close(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
