// Package smart implements the virtual lists evaluated over the reminder set.
package smart

import (
	"time"

	"github.com/balkashynov/remindr/internal/models"
)

// Reserved list ids seeded at initialization
const (
	All       = "all"
	Today     = "today"
	Scheduled = "scheduled"
	Flagged   = "flag"
	Done      = "done"
)

// TodayLayout is the date format the Today list compares against
const TodayLayout = "02/01/2006"

var defaults = []models.List{
	{ListID: All, Name: "All", Icon: "apps", Color: "#5E5CE6", SmartList: true, SortOrder: 0},
	{ListID: Today, Name: "Today", Icon: "sunny", Color: "#FF2D55", SmartList: true, SortOrder: 1},
	{ListID: Scheduled, Name: "Scheduled", Icon: "calendar", Color: "#FF9500", SmartList: true, SortOrder: 2},
	{ListID: Flagged, Name: "Flagged", Icon: "flag", Color: "#FFCC00", SmartList: true, SortOrder: 3},
	{ListID: Done, Name: "Done", Icon: "checkmark", Color: "#656461", SmartList: true, SortOrder: 4},
}

// Defaults returns the smart lists every store is seeded with
func Defaults() []models.List {
	out := make([]models.List, len(defaults))
	copy(out, defaults)
	return out
}

// IsReserved reports whether listID names one of the seeded smart lists
func IsReserved(listID string) bool {
	switch listID {
	case All, Today, Scheduled, Flagged, Done:
		return true
	}
	return false
}

// Filter returns the reminders visible in listID, evaluated against the current time
func Filter(reminders []models.Reminder, listID string) []models.Reminder {
	return FilterAt(reminders, listID, time.Now())
}

// FilterAt is Filter with an explicit "now".
//
// Today compares the stored date string with now rendered as dd/mm/yyyy; two
// spellings of the same calendar day do not match. Any id that is not a smart
// list selects reminders by exact ListID.
func FilterAt(reminders []models.Reminder, listID string, now time.Time) []models.Reminder {
	if listID == All {
		return reminders
	}

	match := predicate(listID, now)
	out := make([]models.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Count returns how many reminders FilterAt would yield
func Count(reminders []models.Reminder, listID string, now time.Time) int {
	if listID == All {
		return len(reminders)
	}

	match := predicate(listID, now)
	n := 0
	for _, r := range reminders {
		if match(r) {
			n++
		}
	}
	return n
}

func predicate(listID string, now time.Time) func(models.Reminder) bool {
	switch listID {
	case Today:
		today := now.Format(TodayLayout)
		return func(r models.Reminder) bool { return r.Details.Date == today }
	case Scheduled:
		return func(r models.Reminder) bool { return r.Details.HasSchedule() }
	case Flagged:
		return func(r models.Reminder) bool { return r.Details.Flagged }
	case Done:
		return func(r models.Reminder) bool { return r.Status == models.StatusCompleted }
	default:
		return func(r models.Reminder) bool { return r.ListID == listID }
	}
}
