// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"dockassign/internal/reassign"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, missing selection, ambiguous match).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3

	// NoMatch indicates no task matched the selected dock.
	NoMatch = 4
)

// ForReassign maps a reassignment error to an exit code.
func ForReassign(err error) int {
	var (
		vErr    *reassign.ValidationError
		ambErr  *reassign.AmbiguousMatchError
		noMatch *reassign.NoMatchError
		authErr *reassign.AuthError
	)
	switch {
	case err == nil:
		return Success
	case errors.As(err, &vErr), errors.As(err, &ambErr), errors.Is(err, reassign.ErrBusy):
		return UserError
	case errors.As(err, &noMatch):
		return NoMatch
	case errors.As(err, &authErr):
		return AuthError
	default:
		return BackendError
	}
}
