// Package output provides formatters for CLI output.
package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"dockassign/internal/catalog"
	"dockassign/internal/reassign"
	"dockassign/internal/service"
)

// Kind classifies a user-visible outcome message.
type Kind int

const (
	KindSuccess Kind = iota
	KindValidation
	KindWarning
	KindError
)

// String returns the lowercase prefix used for the kind on the CLI.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "ok"
	case KindValidation:
		return "error"
	case KindWarning:
		return "warning"
	default:
		return "error"
	}
}

// FormatTask formats a task line.
// Format: "{ID:>8}  {LABEL}\n", with " [status]" appended when known.
func FormatTask(w io.Writer, task service.Task) {
	line := fmt.Sprintf("%8d  %s", task.ID, normalizeLabel(task.Label))
	if task.Status != "" {
		line += " [" + task.Status + "]"
	}
	fmt.Fprintln(w, line)
}

// FormatDock formats a dock line.
func FormatDock(w io.Writer, dock string) {
	fmt.Fprintln(w, dock)
}

// FormatTracker formats a tracker line.
// Format: "{ID:>8}  {NAME}\n"
func FormatTracker(w io.Writer, t catalog.Tracker) {
	fmt.Fprintf(w, "%8s  %s\n", t.ID, t.Label())
}

// Message returns the user-visible message for a reassignment result.
// err is nil on success.
func Message(out reassign.Outcome, err error) (Kind, string) {
	if err == nil {
		msg := fmt.Sprintf("task %d (%s) reassigned to tracker %d", out.Task.ID, normalizeLabel(out.Task.Label), out.TrackerID)
		return KindSuccess, msg
	}

	var (
		vErr      *reassign.ValidationError
		listErr   *reassign.RemoteListError
		noMatch   *reassign.NoMatchError
		ambErr    *reassign.AmbiguousMatchError
		assignErr *reassign.RemoteAssignError
		netErr    *reassign.NetworkError
		authErr   *reassign.AuthError
	)
	switch {
	case errors.As(err, &vErr):
		return KindValidation, vErr.Reason
	case errors.Is(err, reassign.ErrBusy):
		return KindWarning, "a reassignment is already in progress"
	case errors.As(err, &noMatch):
		return KindWarning, fmt.Sprintf("no matching task found for dock %s", noMatch.Dock)
	case errors.As(err, &ambErr):
		return KindValidation, ambErr.Error()
	case errors.As(err, &authErr):
		return KindError, fmt.Sprintf("auth error: %v", authErr.Err)
	case errors.As(err, &listErr):
		return KindError, withDescription("failed to fetch tasks", listErr.Description)
	case errors.As(err, &assignErr):
		return KindError, withDescription("failed to reassign the task", assignErr.Description)
	case errors.As(err, &netErr):
		return KindError, fmt.Sprintf("network error during %s: %v", netErr.Step, netErr.Err)
	default:
		return KindError, err.Error()
	}
}

// AmbiguityNote describes skipped candidates when several tasks matched a dock.
// Returns "" when the match was unique.
func AmbiguityNote(out reassign.Outcome) string {
	if !out.Ambiguous() {
		return ""
	}
	skipped := make([]string, 0, len(out.Candidates)-1)
	for _, t := range out.Candidates[1:] {
		skipped = append(skipped, fmt.Sprint(t.ID))
	}
	return fmt.Sprintf("%d tasks match dock %s; used first (%d), skipped %s",
		len(out.Candidates), out.Dock, out.Task.ID, strings.Join(skipped, ", "))
}

func withDescription(msg, desc string) string {
	if strings.TrimSpace(desc) == "" {
		return msg
	}
	return msg + ": " + desc
}

// normalizeLabel normalizes a task label for display.
// - Empty or whitespace-only labels become "(unlabeled)"
// - Newlines are replaced with spaces
func normalizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")

	if strings.TrimSpace(label) == "" {
		return "(unlabeled)"
	}
	return label
}
