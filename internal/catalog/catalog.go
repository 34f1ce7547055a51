// Package catalog holds the fixed dock and tracker enumerations the operator picks from.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Tracker is a vehicle-mounted device tasks can be assigned to.
type Tracker struct {
	Name string `mapstructure:"name" yaml:"name"`
	ID   string `mapstructure:"id" yaml:"id"`
}

// Catalog is the set of selectable docks and trackers.
type Catalog struct {
	Docks    []string
	Trackers []Tracker
}

// Default returns the built-in catalog.
func Default() Catalog {
	return Catalog{
		Docks: []string{
			"Q4-a",
			"Q5-a",
			"Q5-b",
			"Q6-a",
			"Q6-b",
			"Q7-a",
			"Q7-b",
			"Q8-a",
			"Q8-b",
		},
		Trackers: []Tracker{
			{Name: "PAD 1", ID: "875440"},
			{Name: "PAD 2", ID: "875453"},
			{Name: "PAD 3", ID: "875596"},
			{Name: "PAD 4", ID: "875602"},
			{Name: "PAD 5", ID: "875620"},
			{Name: "PAD 6", ID: "875827"},
			{Name: "PAD 7", ID: "875838"},
			{Name: "PAD 9 RESERVE", ID: "875848"},
			{Name: "PAD 8 COLIS DENIS", ID: "3068523"},
		},
	}
}

// HasDock reports whether dock is in the catalog (exact match).
func (c Catalog) HasDock(dock string) bool {
	for _, d := range c.Docks {
		if d == dock {
			return true
		}
	}
	return false
}

// TrackerByID returns the tracker with the given id.
func (c Catalog) TrackerByID(id string) (Tracker, bool) {
	for _, t := range c.Trackers {
		if t.ID == id {
			return t, true
		}
	}
	return Tracker{}, false
}

// ResolveTracker finds a tracker by id or by name (case-insensitive, trimmed).
// A numeric ref that is not in the catalog resolves to an unnamed tracker so
// ad-hoc devices can still be targeted.
// Returns error if not found or ambiguous.
func (c Catalog) ResolveTracker(ref string) (Tracker, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Tracker{}, fmt.Errorf("tracker not found: %q", ref)
	}

	if t, ok := c.TrackerByID(ref); ok {
		return t, nil
	}

	refLower := strings.ToLower(ref)
	var matches []Tracker
	for _, t := range c.Trackers {
		if strings.ToLower(strings.TrimSpace(t.Name)) == refLower {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		if _, err := strconv.Atoi(ref); err == nil {
			return Tracker{ID: ref}, nil
		}
		return Tracker{}, fmt.Errorf("tracker not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return Tracker{}, fmt.Errorf("ambiguous tracker name: %s", ref)
	}
}

// Label returns the display label for a tracker: its name, or its id when unnamed.
func (t Tracker) Label() string {
	if strings.TrimSpace(t.Name) == "" {
		return t.ID
	}
	return t.Name
}
