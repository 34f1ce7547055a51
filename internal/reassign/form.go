package reassign

import (
	"context"
	"sync"
)

// Form is the selection state of one reassignment form: a dock, a tracker
// id and a busy flag. It is safe for concurrent use.
type Form struct {
	wf *Workflow

	mu      sync.Mutex
	dock    string
	tracker string
	busy    bool
}

// NewForm creates a Form with nothing selected.
func NewForm(wf *Workflow) *Form {
	return &Form{wf: wf}
}

// SetDock selects a dock. An empty string clears the selection.
func (f *Form) SetDock(dock string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dock = dock
}

// SetTracker selects a tracker id. An empty string clears the selection.
func (f *Form) SetTracker(tracker string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracker = tracker
}

// Dock returns the selected dock.
func (f *Form) Dock() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dock
}

// Tracker returns the selected tracker id.
func (f *Form) Tracker() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tracker
}

// Busy reports whether a submission is in flight.
func (f *Form) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// Submit runs the workflow with the current selection.
// Missing selections fail with ValidationError before the form turns busy.
// While a submission is in flight further calls return ErrBusy.
// The busy flag is cleared on every return path.
func (f *Form) Submit(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	dock, tracker := f.dock, f.tracker
	if _, err := Validate(dock, tracker); err != nil {
		f.mu.Unlock()
		return Outcome{}, err
	}
	if f.busy {
		f.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	f.busy = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	return f.wf.Reassign(ctx, dock, tracker)
}
