package service

import (
	"errors"
	"fmt"
	"time"
)

// TimeLayout is the wire format of timestamps in API requests (local time).
const TimeLayout = "2006-01-02 15:04:05"

// StatusAssigned is the status of a task that has been given to a tracker
// and not started yet.
const StatusAssigned = "assigned"

// Task represents a single route task.
type Task struct {
	ID        int
	Label     string
	Status    string
	TrackerID int
}

// ListFilter narrows a task listing.
type ListFilter struct {
	Trackers []int
	From     time.Time
	Statuses []string
}

// IsZero reports whether the filter has no criteria set.
func (f ListFilter) IsZero() bool {
	return len(f.Trackers) == 0 && f.From.IsZero() && len(f.Statuses) == 0
}

// ErrUnauthorized marks failures to obtain a session, such as rejected credentials.
var ErrUnauthorized = errors.New("authentication failed")

// APIError is returned when the remote API answers with success=false.
type APIError struct {
	// Op is the API action, e.g. "task/route/list".
	Op          string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("%s: request rejected", e.Op)
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s: %s (code %d)", e.Op, e.Description, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Description)
}
