package reassign

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBusy is returned by Form.Submit while a previous submission is in flight.
var ErrBusy = errors.New("reassignment already in progress")

// Step names a stage of the workflow, used to tag network failures.
type Step string

const (
	StepList   Step = "list"
	StepAssign Step = "assign"
)

// ValidationError reports a missing or malformed selection.
// No network call has been made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RemoteListError reports that the task listing was rejected by the API.
type RemoteListError struct {
	Description string
	Err         error
}

func (e *RemoteListError) Error() string {
	if e.Description == "" {
		return "failed to fetch tasks"
	}
	return "failed to fetch tasks: " + e.Description
}

func (e *RemoteListError) Unwrap() error { return e.Err }

// NoMatchError reports that no listed task label contains the dock.
type NoMatchError struct {
	Dock    string
	Scanned int
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no task matches dock %s (%d scanned)", e.Dock, e.Scanned)
}

// AmbiguousMatchError reports several candidate tasks for one dock when
// strict matching is enabled.
type AmbiguousMatchError struct {
	Dock    string
	TaskIDs []int
}

func (e *AmbiguousMatchError) Error() string {
	ids := make([]string, len(e.TaskIDs))
	for i, id := range e.TaskIDs {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("dock %s matches %d tasks: %s", e.Dock, len(e.TaskIDs), strings.Join(ids, ", "))
}

// RemoteAssignError reports that the assignment was rejected by the API.
type RemoteAssignError struct {
	TaskID      int
	TrackerID   int
	Description string
	Err         error
}

func (e *RemoteAssignError) Error() string {
	if e.Description == "" {
		return "failed to reassign the task"
	}
	return "failed to reassign the task: " + e.Description
}

func (e *RemoteAssignError) Unwrap() error { return e.Err }

// NetworkError reports a transport-level failure (connection, timeout,
// malformed response) during a workflow step.
type NetworkError struct {
	Step Step
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Step, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError reports that no API session could be obtained, for example
// because the configured login or password was rejected.
type AuthError struct {
	Step Step
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Step, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }
