package cli

import (
	"testing"
	"time"

	"github.com/dola-guide/dola-events/internal/event"
)

var sortNow = time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)

func sampleEvents() []*event.Event {
	return []*event.Event{
		{Title: "Wine Tasting", Date: "November 20", Category: "bars"},
		{Title: "Jazz Night", Date: event.DateUnscheduled, Category: "concert"},
		{Title: "art walk", Date: "January 5", Category: "museum"},
		{Title: "Rock Show", Date: "October 30", Category: "concert"},
	}
}

func titles(events []*event.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Title
	}
	return out
}

func TestSortEvents(t *testing.T) {
	tests := []struct {
		name  string
		order SortOrder
		want  []string
	}{
		{"none keeps order", SortNone, []string{"Wine Tasting", "Jazz Night", "art walk", "Rock Show"}},
		{"date with next-year rollover", SortByDate, []string{"Rock Show", "Wine Tasting", "art walk", "Jazz Night"}},
		{"category then date", SortByCategory, []string{"Wine Tasting", "Rock Show", "Jazz Night", "art walk"}},
		{"title ignores case", SortByTitle, []string{"art walk", "Jazz Night", "Rock Show", "Wine Tasting"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := sampleEvents()
			sortEvents(events, tt.order, sortNow)

			got := titles(events)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("sortEvents(%s) = %v, want %v", tt.order, got, tt.want)
				}
			}
		})
	}
}
