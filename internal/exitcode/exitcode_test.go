package exitcode_test

import (
	"errors"
	"fmt"
	"testing"

	"dockassign/internal/exitcode"
	"dockassign/internal/reassign"
)

func TestForReassign(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitcode.Success},
		{"validation", &reassign.ValidationError{Field: "dock"}, exitcode.UserError},
		{"ambiguous", &reassign.AmbiguousMatchError{Dock: "Q5-a"}, exitcode.UserError},
		{"busy", reassign.ErrBusy, exitcode.UserError},
		{"no match", &reassign.NoMatchError{Dock: "Q5-a"}, exitcode.NoMatch},
		{"wrapped no match", fmt.Errorf("submit: %w", &reassign.NoMatchError{}), exitcode.NoMatch},
		{"list", &reassign.RemoteListError{}, exitcode.BackendError},
		{"assign", &reassign.RemoteAssignError{}, exitcode.BackendError},
		{"network", &reassign.NetworkError{Err: errors.New("eof")}, exitcode.BackendError},
		{"auth", &reassign.AuthError{Step: reassign.StepList, Err: errors.New("denied")}, exitcode.AuthError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitcode.ForReassign(tt.err); got != tt.want {
				t.Errorf("ForReassign(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
