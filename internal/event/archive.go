package event

import (
	"sort"
	"time"
)

// Archive is every event the scraper has collected, keyed by Event.ID
type Archive struct {
	Events      map[string]*Event `json:"events"`       // keyed by Event.ID
	StableIndex map[string]string `json:"stable_index"` // StableKey → ID mapping
	NextSeq     int64             `json:"next_seq"`
	UpdatedAt   string            `json:"updated_at"` // RFC3339 timestamp
}

// NewArchive creates an empty archive
func NewArchive() *Archive {
	return &Archive{
		Events:      make(map[string]*Event),
		StableIndex: make(map[string]string),
	}
}

// Contains reports whether the archive already holds evt, either under the
// same ID or under the same normalized title.
func (a *Archive) Contains(evt *Event) bool {
	if _, ok := a.Events[evt.ID]; ok {
		return true
	}
	if evt.StableKey == "" {
		return false
	}
	_, ok := a.StableIndex[evt.StableKey]
	return ok
}

// Add stores events. New events get the next sequence number; an event whose
// ID is already archived keeps its original Seq, FirstSeen and PublishedAt,
// so a re-found listing is not published twice.
// It returns how many events were new to the archive.
func (a *Archive) Add(events []*Event) int {
	added := 0
	for _, evt := range events {
		if prev, ok := a.Events[evt.ID]; ok {
			evt.Seq = prev.Seq
			evt.FirstSeen = prev.FirstSeen
			evt.PublishedAt = prev.PublishedAt
		} else {
			a.NextSeq++
			evt.Seq = a.NextSeq
			added++
		}
		a.Events[evt.ID] = evt
		if evt.StableKey != "" {
			a.StableIndex[evt.StableKey] = evt.ID
		}
	}
	return added
}

// Pending returns the unpublished events in the order they were first added.
func (a *Archive) Pending() []*Event {
	pending := make([]*Event, 0)
	for _, evt := range a.Events {
		if evt.PublishedAt.IsZero() {
			pending = append(pending, evt)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Seq < pending[j].Seq
	})

	return pending
}

// MarkPublished stamps the given events as written to the site.
func (a *Archive) MarkPublished(events []*Event, at time.Time) {
	for _, evt := range events {
		if stored, ok := a.Events[evt.ID]; ok {
			stored.PublishedAt = at.UTC()
		}
		evt.PublishedAt = at.UTC()
	}
}

// MarkPublishedByTitle stamps events and every pending event sharing one of
// their titles. Title duplicates left out of a batch by DedupeByTitle are
// settled along with the copy that was written.
func (a *Archive) MarkPublishedByTitle(events []*Event, at time.Time) {
	titles := make(map[string]bool, len(events))
	for _, evt := range events {
		titles[evt.Title] = true
	}
	a.MarkPublished(events, at)
	for _, evt := range a.Events {
		if evt.PublishedAt.IsZero() && titles[evt.Title] {
			evt.PublishedAt = at.UTC()
		}
	}
}

// FilterUnseen drops events the archive already contains.
func (a *Archive) FilterUnseen(events []*Event) []*Event {
	if a == nil {
		return events
	}
	fresh := make([]*Event, 0, len(events))
	for _, evt := range events {
		if !a.Contains(evt) {
			fresh = append(fresh, evt)
		}
	}
	return fresh
}

// DedupeByTitle keeps the first event for each exact title.
func DedupeByTitle(events []*Event) []*Event {
	seen := make(map[string]bool)
	unique := make([]*Event, 0, len(events))
	for _, evt := range events {
		if !seen[evt.Title] {
			seen[evt.Title] = true
			unique = append(unique, evt)
		}
	}
	return unique
}
