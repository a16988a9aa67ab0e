package cli

import (
	"sort"
	"strings"
	"time"

	"github.com/dola-guide/dola-events/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone       SortOrder = "none"
	SortByDate     SortOrder = "date"
	SortByCategory SortOrder = "category"
	SortByTitle    SortOrder = "title"
)

// sortEvents sorts a slice of events based on the specified sort order.
// SortNone keeps archive order. Sorting is stable so ties keep that order too.
func sortEvents(events []*event.Event, sortOrder SortOrder, now time.Time) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByDate(events[i], events[j], now)
		})
	case SortByCategory:
		sort.SliceStable(events, func(i, j int) bool {
			if events[i].Category != events[j].Category {
				return events[i].Category < events[j].Category
			}
			// If categories are equal, sort by date
			return compareByDate(events[i], events[j], now)
		})
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			ti, tj := strings.ToLower(events[i].Title), strings.ToLower(events[j].Title)
			if ti != tj {
				return ti < tj
			}
			return compareByDate(events[i], events[j], now)
		})
	}
}

// compareByDate compares two events by their date
// Returns true if event i should come before event j
func compareByDate(i, j *event.Event, now time.Time) bool {
	dateI := event.ParseDate(i.Date, now)
	dateJ := event.ParseDate(j.Date, now)

	// If both dates are valid, compare them
	if !dateI.IsZero() && !dateJ.IsZero() {
		return dateI.Before(dateJ)
	}

	// Scheduled events come before "Coming Soon" ones
	return !dateI.IsZero()
}
