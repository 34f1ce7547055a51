// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"

	"dockassign/internal/service"
)

// ErrNotFound is returned when a task id is unknown.
var ErrNotFound = errors.New("not found")

// AssignCall records one AssignTask invocation.
type AssignCall struct {
	TaskID    int
	TrackerID int
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu      sync.RWMutex
	tasks   []service.Task
	filters []service.ListFilter
	assigns []AssignCall

	// Error injection for testing
	ListTasksErr  error
	AssignTaskErr error

	// Hooks run at the start of each call, before errors are injected.
	OnListTasks  func(ctx context.Context)
	OnAssignTask func(ctx context.Context)
}

// NewFakeService creates a new FakeService with no tasks.
func NewFakeService() *FakeService {
	return &FakeService{}
}

// AddTask appends a task in "assigned" status to the listing.
func (f *FakeService) AddTask(id int, label string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{
		ID:     id,
		Label:  label,
		Status: service.StatusAssigned,
	})
}

// Tasks returns a copy of the current tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// ListCalls returns the filters passed to ListTasks, in call order.
func (f *FakeService) ListCalls() []service.ListFilter {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.ListFilter, len(f.filters))
	copy(result, f.filters)
	return result
}

// AssignCalls returns the AssignTask invocations, in call order.
func (f *FakeService) AssignCalls() []AssignCall {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]AssignCall, len(f.assigns))
	copy(result, f.assigns)
	return result
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, filter service.ListFilter) ([]service.Task, error) {
	if f.OnListTasks != nil {
		f.OnListTasks(ctx)
	}
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()

	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// AssignTask implements service.Service.
func (f *FakeService) AssignTask(ctx context.Context, taskID, trackerID int) error {
	if f.OnAssignTask != nil {
		f.OnAssignTask(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assigns = append(f.assigns, AssignCall{TaskID: taskID, TrackerID: trackerID})

	if f.AssignTaskErr != nil {
		return f.AssignTaskErr
	}
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks[i].TrackerID = trackerID
			return nil
		}
	}
	return ErrNotFound
}
