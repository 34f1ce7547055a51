// Package service defines the backend-agnostic interface for route task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All fleet API calls go through this interface.
// Commands never talk HTTP directly.
type Service interface {
	// ListTasks returns route tasks in API order.
	// A zero filter lists every task visible to the session.
	ListTasks(ctx context.Context, filter ListFilter) ([]Task, error)

	// AssignTask assigns a route task to a tracker.
	AssignTask(ctx context.Context, taskID, trackerID int) error
}
