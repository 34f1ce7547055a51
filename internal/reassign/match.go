package reassign

import (
	"strings"

	"dockassign/internal/service"
)

// MatchTasks returns every task whose label contains dock, in list order.
// The first element is the one a reassignment picks.
func MatchTasks(tasks []service.Task, dock string) []service.Task {
	if dock == "" {
		return nil
	}
	var matches []service.Task
	for _, t := range tasks {
		if strings.Contains(t.Label, dock) {
			matches = append(matches, t)
		}
	}
	return matches
}
