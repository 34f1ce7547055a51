package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"dockassign/internal/commands"
	"dockassign/internal/config"
	"dockassign/internal/exitcode"
	"dockassign/internal/service"
	"dockassign/internal/testutil"
)

func newConfig(t *testing.T, quiet bool) *config.Config {
	t.Helper()
	cfg := config.New(t.TempDir())
	cfg.Quiet = quiet
	return cfg
}

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	return runWithConfig(t, cmd, newConfig(t, quiet), svc, args)
}

func runWithConfig(t *testing.T, cmd commands.Command, cfg *config.Config, svc *testutil.FakeService, args []string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	var s service.Service
	if svc != nil {
		s = svc
	}
	code = cmd.Run(context.Background(), cfg, s, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "dockassign 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "dockassign reassign", "--config <dir>", "Exit codes:"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Tests for reassign command
func TestReassignCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(1, "Q4-a morning")
	svc.AddTask(2, "Q5-a ramp")

	stdout, stderr, code := runCommand(t, &commands.ReassignCmd{}, svc, []string{"Q5-a", "875453"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok: task 2 (Q5-a ramp) reassigned to tracker 875453\n" {
		t.Errorf("unexpected output %q", stdout)
	}
	calls := svc.AssignCalls()
	if len(calls) != 1 || calls[0] != (testutil.AssignCall{TaskID: 2, TrackerID: 875453}) {
		t.Errorf("unexpected assign calls %+v", calls)
	}
}

func TestReassignCommand_TrackerByName(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(3, "Q8-b")

	_, stderr, code := runCommand(t, &commands.ReassignCmd{}, svc, []string{"Q8-b", "pad", "9", "reserve"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if calls := svc.AssignCalls(); len(calls) != 1 || calls[0].TrackerID != 875848 {
		t.Errorf("expected PAD 9 RESERVE (875848), got %+v", calls)
	}
}

func TestReassignCommand_Quiet(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(2, "Q5-a ramp")

	stdout, _, code := runCommand(t, &commands.ReassignCmd{}, svc, []string{"Q5-a", "875453"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestReassignCommand_Errors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		setup      func(svc *testutil.FakeService)
		wantCode   int
		wantStderr string
		wantLists  int
	}{
		{
			name:       "missing tracker",
			args:       []string{"Q5-a"},
			wantCode:   exitcode.UserError,
			wantStderr: "error: select both a dock and a tracker\n",
		},
		{
			name:       "missing both",
			wantCode:   exitcode.UserError,
			wantStderr: "error: select both a dock and a tracker\n",
		},
		{
			name:       "unknown dock",
			args:       []string{"Z9", "875440"},
			wantCode:   exitcode.UserError,
			wantStderr: "error: unknown dock: Z9 (run: dockassign docks)\n",
		},
		{
			name:       "unknown tracker name",
			args:       []string{"Q5-a", "PAD", "42"},
			wantCode:   exitcode.UserError,
			wantStderr: "error: tracker not found: PAD 42\n",
		},
		{
			name:       "no match",
			args:       []string{"Q7-b", "875440"},
			setup:      func(svc *testutil.FakeService) { svc.AddTask(1, "Q5-a ramp") },
			wantCode:   exitcode.NoMatch,
			wantStderr: "warning: no matching task found for dock Q7-b\n",
			wantLists:  1,
		},
		{
			name: "list rejected",
			args: []string{"Q5-a", "875440"},
			setup: func(svc *testutil.FakeService) {
				svc.ListTasksErr = &service.APIError{Op: "task/route/list", Code: 4, Description: "Wrong user hash"}
			},
			wantCode:   exitcode.BackendError,
			wantStderr: "error: failed to fetch tasks: Wrong user hash\n",
			wantLists:  1,
		},
		{
			name: "assign rejected",
			args: []string{"Q5-a", "875440"},
			setup: func(svc *testutil.FakeService) {
				svc.AddTask(2, "Q5-a ramp")
				svc.AssignTaskErr = &service.APIError{Op: "task/route/assign", Description: "locked"}
			},
			wantCode:   exitcode.BackendError,
			wantStderr: "error: failed to reassign the task: locked\n",
			wantLists:  1,
		},
		{
			name: "rejected credentials",
			args: []string{"Q5-a", "875440"},
			setup: func(svc *testutil.FakeService) {
				svc.ListTasksErr = fmt.Errorf("%w: %w", service.ErrUnauthorized,
					&service.APIError{Op: "user/auth", Code: 11, Description: "Access denied"})
			},
			wantCode:   exitcode.AuthError,
			wantStderr: "error: auth error: authentication failed: user/auth: Access denied (code 11)\n",
			wantLists:  1,
		},
		{
			name: "network failure",
			args: []string{"Q5-a", "875440"},
			setup: func(svc *testutil.FakeService) {
				svc.ListTasksErr = errors.New("connection refused")
			},
			wantCode:   exitcode.BackendError,
			wantStderr: "error: network error during list: connection refused\n",
			wantLists:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testutil.NewFakeService()
			if tt.setup != nil {
				tt.setup(svc)
			}

			stdout, stderr, code := runCommand(t, &commands.ReassignCmd{}, svc, tt.args, false)

			if code != tt.wantCode {
				t.Errorf("expected exit code %d, got %d", tt.wantCode, code)
			}
			if stderr != tt.wantStderr {
				t.Errorf("expected stderr %q, got %q", tt.wantStderr, stderr)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			if got := len(svc.ListCalls()); got != tt.wantLists {
				t.Errorf("expected %d list calls, got %d", tt.wantLists, got)
			}
		})
	}
}

func TestReassignCommand_AmbiguousUsesFirst(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(4, "Q6-a morning")
	svc.AddTask(9, "Q6-a evening")

	stdout, stderr, code := runCommand(t, &commands.ReassignCmd{}, svc, []string{"Q6-a", "875440"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "warning: 2 tasks match dock Q6-a; used first (4), skipped 9\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if !strings.Contains(stdout, "task 4") {
		t.Errorf("expected first task reassigned, got %q", stdout)
	}
}

func TestReassignCommand_Strict(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(4, "Q6-a morning")
	svc.AddTask(9, "Q6-a evening")

	cmd := &commands.ReassignCmd{}
	cmd.SetStrict(true)
	_, stderr, code := runCommand(t, cmd, svc, []string{"Q6-a", "875440"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: dock Q6-a matches 2 tasks: 4, 9\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.AssignCalls()) != 0 {
		t.Error("strict mode must not assign")
	}
}

func TestReassignCommand_FilteredStrategy(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(2, "Q5-a ramp")

	cfg := newConfig(t, true)
	cfg.Settings.List.Strategy = config.StrategyFiltered
	cfg.Settings.List.Trackers = []int{875440}
	cfg.Settings.List.Lookback = time.Hour

	_, _, code := runWithConfig(t, &commands.ReassignCmd{}, cfg, svc, []string{"Q5-a", "875453"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	filters := svc.ListCalls()
	if len(filters) != 1 {
		t.Fatalf("expected one list call, got %d", len(filters))
	}
	f := filters[0]
	if f.IsZero() || len(f.Trackers) != 1 || f.Trackers[0] != 875440 {
		t.Errorf("expected filtered listing, got %+v", f)
	}
	if f.From.After(time.Now().Add(-59 * time.Minute)) {
		t.Errorf("expected from to be an hour back, got %v", f.From)
	}
}

// Tests for tasks command
func TestTasksCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(1, "Q4-a morning")
	svc.AddTask(22, "Q5-a ramp")

	stdout, stderr, code := runCommand(t, &commands.TasksCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	want := "       1  Q4-a morning [assigned]\n      22  Q5-a ramp [assigned]\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestTasksCommand_Dock(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(1, "Q4-a morning")
	svc.AddTask(22, "Q5-a ramp")

	cmd := &commands.TasksCmd{}
	cmd.SetDock("Q5-a")
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "      22  Q5-a ramp [assigned]\n" {
		t.Errorf("unexpected output %q", stdout)
	}

	cmd.SetDock("Q8-b")
	_, stderr, code := runCommand(t, cmd, svc, nil, false)
	if code != exitcode.NoMatch {
		t.Errorf("expected exit code %d, got %d", exitcode.NoMatch, code)
	}
	if stderr != "warning: no matching task found for dock Q8-b\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestTasksCommand_ListError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = &service.APIError{Op: "task/route/list", Description: "Wrong user hash"}

	_, stderr, code := runCommand(t, &commands.TasksCmd{}, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: failed to fetch tasks: Wrong user hash\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for catalog commands
func TestDocksCommand(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.DocksCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	testutil.GoldenString(t, "docks", stdout)
}

func TestTrackersCommand(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.TrackersCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	testutil.GoldenString(t, "trackers", stdout)
}

func TestDocksCommand_ConfiguredCatalog(t *testing.T) {
	cfg := newConfig(t, false)
	cfg.Settings.Catalog.Docks = []string{"A1", "A2"}

	stdout, _, _ := runWithConfig(t, &commands.DocksCmd{}, cfg, nil, nil)
	if stdout != "A1\nA2\n" {
		t.Errorf("expected configured docks, got %q", stdout)
	}
}

// Tests for config command
func TestConfigCommand(t *testing.T) {
	cfg := newConfig(t, false)
	cfg.Settings.Session.Hash = "secret-hash"
	cfg.Settings.Session.Password = "secret-password"
	cfg.Settings.Session.Login = "operator"

	stdout, stderr, code := runWithConfig(t, &commands.ConfigCmd{}, cfg, nil, nil)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if strings.Contains(stdout, "secret") {
		t.Errorf("secrets leaked into output:\n%s", stdout)
	}

	var got config.Settings
	if err := yaml.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, stdout)
	}
	if got.Session.Hash != "<redacted>" || got.Session.Password != "<redacted>" {
		t.Errorf("expected redacted secrets, got %+v", got.Session)
	}
	if got.Session.Login != "operator" {
		t.Errorf("expected login kept, got %q", got.Session.Login)
	}
	if got.API.BaseURL != config.DefaultBaseURL {
		t.Errorf("expected default base url, got %q", got.API.BaseURL)
	}
	if len(got.Catalog.Docks) != 9 || len(got.Catalog.Trackers) != 9 {
		t.Errorf("expected effective catalog, got %d docks %d trackers", len(got.Catalog.Docks), len(got.Catalog.Trackers))
	}
}

// Tests for login/logout
func newAuthServer(t *testing.T, password, hash string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/user/auth" {
			http.NotFound(w, r)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		if body["password"] != password {
			io.WriteString(w, `{"success":false,"status":{"code":11,"description":"Access denied"}}`)
			return
		}
		io.WriteString(w, `{"success":true,"hash":"`+hash+`"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func staticPassword(pw string) func(io.Writer) (string, error) {
	return func(io.Writer) (string, error) { return pw, nil }
}

func TestLoginCommand(t *testing.T) {
	srv := newAuthServer(t, "pw", "fresh-hash")
	cfg := newConfig(t, false)
	cfg.Settings.API.BaseURL = srv.URL

	cmd := &commands.LoginCmd{}
	cmd.SetUser("operator")
	cmd.SetPasswordReader(staticPassword("pw"))
	cmd.SetHTTPClient(srv.Client())

	stdout, stderr, code := runWithConfig(t, cmd, cfg, nil, nil)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	s, err := cfg.LoadSession()
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if s.Hash != "fresh-hash" || s.Login != "operator" {
		t.Errorf("unexpected session %+v", s)
	}

	// A second login keeps the stored session.
	stdout, _, code = runWithConfig(t, cmd, cfg, nil, nil)
	if code != exitcode.Success || stdout != "already logged in\n" {
		t.Errorf("expected already logged in, got %d %q", code, stdout)
	}
}

func TestLoginCommand_PasswordFromSettings(t *testing.T) {
	srv := newAuthServer(t, "configured", "h")
	cfg := newConfig(t, true)
	cfg.Settings.API.BaseURL = srv.URL
	cfg.Settings.Session.Login = "operator"
	cfg.Settings.Session.Password = "configured"

	cmd := &commands.LoginCmd{}
	cmd.SetPasswordReader(func(io.Writer) (string, error) {
		t.Error("password prompt should not be used")
		return "", nil
	})

	_, stderr, code := runWithConfig(t, cmd, cfg, nil, nil)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
}

func TestLoginCommand_Rejected(t *testing.T) {
	srv := newAuthServer(t, "pw", "h")
	cfg := newConfig(t, false)
	cfg.Settings.API.BaseURL = srv.URL

	cmd := &commands.LoginCmd{}
	cmd.SetUser("operator")
	cmd.SetPasswordReader(staticPassword("wrong"))

	_, stderr, code := runWithConfig(t, cmd, cfg, nil, nil)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr, "error: auth error:") || !strings.Contains(stderr, "Access denied") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if cfg.HasSession() {
		t.Error("rejected login must not store a session")
	}
}

func TestLoginCommand_RequiresUser(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cmd.SetPasswordReader(staticPassword("pw"))

	_, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "login required") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestLogoutCommand(t *testing.T) {
	cfg := newConfig(t, false)

	stdout, _, code := runWithConfig(t, &commands.LogoutCmd{}, cfg, nil, nil)
	if code != exitcode.Success || stdout != "not logged in\n" {
		t.Errorf("expected not logged in, got %d %q", code, stdout)
	}

	if err := cfg.SaveSession(config.Session{Hash: "h", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	stdout, _, code = runWithConfig(t, &commands.LogoutCmd{}, cfg, nil, nil)
	if code != exitcode.Success || stdout != "ok\n" {
		t.Errorf("expected ok, got %d %q", code, stdout)
	}
	if cfg.HasSession() {
		t.Error("session file should be removed")
	}
}
