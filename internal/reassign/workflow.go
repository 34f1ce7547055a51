// Package reassign moves a dock's route task onto a chosen tracker.
//
// A reassignment is two sequential API calls: list candidate tasks, then
// assign the first task whose label contains the dock identifier. Form wraps
// the workflow with the operator's selection and a busy flag so only one
// reassignment runs at a time per form.
package reassign

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"dockassign/internal/logging"
	"dockassign/internal/service"
)

// Options configure a Workflow.
type Options struct {
	// Filtered selects the filtered listing (trackers, from, statuses)
	// instead of listing every task.
	Filtered bool
	Trackers []int
	Statuses []string
	// Lookback is subtracted from the current time to build the "from" filter.
	Lookback time.Duration

	// Strict fails with AmbiguousMatchError when several tasks match a dock.
	Strict bool

	Logger *logging.Logger

	// Now and NewID are replaceable for tests.
	Now   func() time.Time
	NewID func() string
}

// Outcome describes a successful reassignment.
type Outcome struct {
	AttemptID string
	Dock      string
	TrackerID int
	// Task is the task that was reassigned.
	Task service.Task
	// Candidates holds every task matching the dock, in list order.
	Candidates []service.Task
}

// Ambiguous reports whether more than one task matched the dock.
func (o Outcome) Ambiguous() bool {
	return len(o.Candidates) > 1
}

// Workflow runs reassignments against a Service.
type Workflow struct {
	svc  service.Service
	opts Options
	log  *logging.Logger
}

// New creates a Workflow.
func New(svc service.Service, opts Options) *Workflow {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Workflow{svc: svc, opts: opts, log: log}
}

// Validate checks that dock and tracker are present and the tracker id is numeric.
func Validate(dock, tracker string) (int, error) {
	if strings.TrimSpace(dock) == "" || strings.TrimSpace(tracker) == "" {
		field := "dock"
		if strings.TrimSpace(dock) != "" {
			field = "tracker"
		}
		return 0, &ValidationError{Field: field, Reason: "select both a dock and a tracker"}
	}
	id, err := strconv.Atoi(strings.TrimSpace(tracker))
	if err != nil {
		return 0, &ValidationError{Field: "tracker", Reason: "tracker id must be numeric: " + tracker}
	}
	return id, nil
}

// Filter returns the listing filter for a call made now.
func (w *Workflow) Filter() service.ListFilter {
	if !w.opts.Filtered {
		return service.ListFilter{}
	}
	return service.ListFilter{
		Trackers: w.opts.Trackers,
		From:     w.opts.Now().Add(-w.opts.Lookback),
		Statuses: w.opts.Statuses,
	}
}

// Tasks lists tasks with the configured strategy.
func (w *Workflow) Tasks(ctx context.Context) ([]service.Task, error) {
	return w.list(ctx)
}

// Candidates lists tasks with the configured strategy and returns those matching dock.
func (w *Workflow) Candidates(ctx context.Context, dock string) ([]service.Task, error) {
	tasks, err := w.list(ctx)
	if err != nil {
		return nil, err
	}
	return MatchTasks(tasks, dock), nil
}

// Reassign assigns the task matching dock to tracker (a numeric tracker id).
func (w *Workflow) Reassign(ctx context.Context, dock, tracker string) (Outcome, error) {
	trackerID, err := Validate(dock, tracker)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{
		AttemptID: w.opts.NewID(),
		Dock:      dock,
		TrackerID: trackerID,
	}
	log := w.log.WithAttempt(out.AttemptID).With("dock", dock, "tracker_id", trackerID)

	tasks, err := w.list(ctx)
	if err != nil {
		log.Warn("task listing failed", "error", err)
		return out, err
	}
	log.Debug("tasks listed", "count", len(tasks))

	out.Candidates = MatchTasks(tasks, dock)
	switch {
	case len(out.Candidates) == 0:
		log.Info("no task matches dock", "scanned", len(tasks))
		return out, &NoMatchError{Dock: dock, Scanned: len(tasks)}
	case len(out.Candidates) > 1:
		ids := taskIDs(out.Candidates)
		if w.opts.Strict {
			log.Warn("several tasks match dock, refusing", "task_ids", ids)
			return out, &AmbiguousMatchError{Dock: dock, TaskIDs: ids}
		}
		log.Warn("several tasks match dock, using first", "task_ids", ids)
	}
	out.Task = out.Candidates[0]

	if err := w.svc.AssignTask(ctx, out.Task.ID, trackerID); err != nil {
		var apiErr *service.APIError
		if errors.Is(err, service.ErrUnauthorized) {
			log.Warn("assignment unauthorized", "task_id", out.Task.ID, "error", err)
			return out, &AuthError{Step: StepAssign, Err: err}
		}
		if errors.As(err, &apiErr) {
			log.Warn("assignment rejected", "task_id", out.Task.ID, "error", err)
			return out, &RemoteAssignError{
				TaskID:      out.Task.ID,
				TrackerID:   trackerID,
				Description: apiErr.Description,
				Err:         err,
			}
		}
		log.Warn("assignment failed", "task_id", out.Task.ID, "error", err)
		return out, &NetworkError{Step: StepAssign, Err: err}
	}

	log.Info("task reassigned", "task_id", out.Task.ID, "label", out.Task.Label)
	return out, nil
}

// list fetches tasks and classifies failures into AuthError, RemoteListError
// or NetworkError.
func (w *Workflow) list(ctx context.Context) ([]service.Task, error) {
	tasks, err := w.svc.ListTasks(ctx, w.Filter())
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return nil, &AuthError{Step: StepList, Err: err}
		}
		var apiErr *service.APIError
		if errors.As(err, &apiErr) {
			return nil, &RemoteListError{Description: apiErr.Description, Err: err}
		}
		return nil, &NetworkError{Step: StepList, Err: err}
	}
	return tasks, nil
}

func taskIDs(tasks []service.Task) []int {
	ids := make([]int, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}
