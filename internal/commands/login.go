package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"dockassign/internal/backend/navixy"
	"dockassign/internal/config"
	"dockassign/internal/exitcode"
	"dockassign/internal/service"
)

// loginTimeout bounds the user/auth exchange.
const loginTimeout = 30 * time.Second

// ErrNoPassword is returned when no password is configured and stdin is not a terminal.
var ErrNoPassword = errors.New("password required (set DOCKASSIGN_SESSION_PASSWORD or run interactively)")

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	user  string
	force bool

	readPassword func(prompt io.Writer) (string, error)
	httpClient   *http.Client
}

// SetPasswordReader replaces the terminal prompt (for testing).
func (c *LoginCmd) SetPasswordReader(fn func(prompt io.Writer) (string, error)) {
	c.readPassword = fn
}

// SetHTTPClient sets the client used for user/auth (for testing).
func (c *LoginCmd) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// SetUser sets the login name (for testing).
func (c *LoginCmd) SetUser(user string) {
	c.user = user
}

// SetForce forces a new login over an existing session (for testing).
func (c *LoginCmd) SetForce(force bool) {
	c.force = force
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Obtain and store an API session" }
func (c *LoginCmd) Usage() string     { return "dockassign login [common flags] [--force] [--user <login>]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.user, "user", "u", "", "")
	fs.BoolVarP(&c.force, "force", "f", false, "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if cfg.HasSession() && !c.force {
		if _, err := cfg.LoadSession(); err == nil {
			if !cfg.Quiet {
				fmt.Fprintln(out, "already logged in")
			}
			return exitcode.Success
		}
	}

	login := strings.TrimSpace(c.user)
	if login == "" {
		login = cfg.Settings.Session.Login
	}
	if login == "" {
		fmt.Fprintln(errOut, "error: login required (--user <login>)")
		return exitcode.UserError
	}

	password := cfg.Settings.Session.Password
	if password == "" {
		var err error
		password, err = c.promptPassword(errOut)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
	}

	authCtx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	hash, err := navixy.Authenticate(authCtx, c.httpClient, cfg.Settings.API.BaseURL, login, password)
	if err != nil {
		var apiErr *service.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintf(errOut, "error: auth error: %v\n", err)
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if err := cfg.SaveSession(config.Session{Hash: hash, Login: login, CreatedAt: time.Now()}); err != nil {
		fmt.Fprintf(errOut, "error: failed to save session: %v\n", err)
		return exitcode.AuthError
	}
	cfg.Logger().Info("session stored", "login", login, "path", cfg.SessionPath())

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func (c *LoginCmd) promptPassword(prompt io.Writer) (string, error) {
	if c.readPassword != nil {
		return c.readPassword(prompt)
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNoPassword
	}
	fmt.Fprint(prompt, "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
