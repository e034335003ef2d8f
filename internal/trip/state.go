package trip

import (
	"fmt"
	"slices"

	"github.com/wanderplan/wanderplan/internal/recommend"
)

// DayPlan is one day of a trip: its date, chosen vibe, the recommended places,
// and the names the user has acted on.
type DayPlan struct {
	Date       string                    `json:"date"` // YYYY-MM-DD
	Vibe       string                    `json:"vibe"`
	Places     []recommend.EnrichedPlace `json:"places,omitempty"`
	Selected   []string                  `json:"selected,omitempty"`
	Visited    []string                  `json:"visited,omitempty"`
	Bookmarked []string                  `json:"bookmarked,omitempty"`
}

// PlanState is the full selection state of a trip. Values are treated as
// immutable: reducers return an updated copy and never touch their input.
type PlanState struct {
	City string    `json:"city"`
	Days []DayPlan `json:"days"`
}

// EventKind enumerates the reducer events a client can apply.
type EventKind string

const (
	EventSetVibe  EventKind = "set_vibe"
	EventSelect   EventKind = "select"
	EventDeselect EventKind = "deselect"
	EventVisit    EventKind = "visit"
	EventBookmark EventKind = "bookmark"
)

// Event is one user action against a PlanState.
type Event struct {
	Kind  EventKind `json:"kind" validate:"required,oneof=set_vibe select deselect visit bookmark"`
	Day   int       `json:"day" validate:"gte=0"`
	Vibe  string    `json:"vibe,omitempty"`
	Place string    `json:"place,omitempty"`
}

// Apply is the pure reducer: it returns the state after the event, leaving the
// input untouched. Marking a place visited also removes it from the day's
// selection.
func Apply(s PlanState, ev Event) (PlanState, error) {
	if ev.Day < 0 || ev.Day >= len(s.Days) {
		return s, fmt.Errorf("day %d out of range for a %d-day trip", ev.Day, len(s.Days))
	}

	next := clone(s)
	day := &next.Days[ev.Day]

	switch ev.Kind {
	case EventSetVibe:
		day.Vibe = ev.Vibe
	case EventSelect:
		day.Selected = addUnique(day.Selected, ev.Place)
	case EventDeselect:
		day.Selected = remove(day.Selected, ev.Place)
	case EventVisit:
		day.Visited = addUnique(day.Visited, ev.Place)
		day.Selected = remove(day.Selected, ev.Place)
	case EventBookmark:
		day.Bookmarked = addUnique(day.Bookmarked, ev.Place)
	default:
		return s, fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	return next, nil
}

// clone deep-copies the slices an event may touch.
func clone(s PlanState) PlanState {
	days := make([]DayPlan, len(s.Days))
	for i, d := range s.Days {
		d.Places = slices.Clone(d.Places)
		d.Selected = slices.Clone(d.Selected)
		d.Visited = slices.Clone(d.Visited)
		d.Bookmarked = slices.Clone(d.Bookmarked)
		days[i] = d
	}
	return PlanState{City: s.City, Days: days}
}

func addUnique(list []string, v string) []string {
	if v == "" || slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}

func remove(list []string, v string) []string {
	return slices.DeleteFunc(list, func(s string) bool { return s == v })
}
