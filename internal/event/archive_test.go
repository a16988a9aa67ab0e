package event

import (
	"testing"
	"time"
)

func newEvt(title, url string) *Event {
	return &Event{
		ID:        GenerateID(title, url),
		StableKey: GenerateStableKey(title),
		Title:     title,
		URL:       url,
		FirstSeen: testNow,
	}
}

func TestDedupeByTitle(t *testing.T) {
	first := newEvt("Jazz Night", "https://a.example/1")
	second := newEvt("Jazz Night", "https://b.example/2")
	other := newEvt("Hike to Rugova", "https://a.example/3")

	got := DedupeByTitle([]*Event{first, other, second})

	if len(got) != 2 {
		t.Fatalf("DedupeByTitle() returned %d events, want 2", len(got))
	}
	if got[0] != first {
		t.Errorf("DedupeByTitle() kept %q from %q, want the first occurrence", got[0].Title, got[0].URL)
	}
	if got[1] != other {
		t.Errorf("DedupeByTitle() second = %q, want Hike to Rugova", got[1].Title)
	}
}

func TestDedupeByTitle_ExactMatchOnly(t *testing.T) {
	got := DedupeByTitle([]*Event{
		newEvt("Jazz Night", ""),
		newEvt("jazz night", ""),
	})
	if len(got) != 2 {
		t.Errorf("DedupeByTitle() returned %d events, want 2 (titles differ in case)", len(got))
	}
}

func TestArchive_AddAndPending(t *testing.T) {
	a := NewArchive()

	e1 := newEvt("Jazz Night", "https://a.example/1")
	e2 := newEvt("Hike to Rugova", "https://a.example/2")
	e3 := newEvt("Wine tasting", "https://a.example/3")

	if added := a.Add([]*Event{e1, e2, e3}); added != 3 {
		t.Fatalf("Add() = %d, want 3", added)
	}

	pending := a.Pending()
	if len(pending) != 3 {
		t.Fatalf("Pending() returned %d events, want 3", len(pending))
	}
	for i, want := range []*Event{e1, e2, e3} {
		if pending[i].ID != want.ID {
			t.Errorf("Pending()[%d] = %q, want %q", i, pending[i].Title, want.Title)
		}
	}

	published := time.Date(2026, time.October, 17, 13, 0, 0, 0, time.UTC)
	a.MarkPublished([]*Event{e1, e3}, published)

	pending = a.Pending()
	if len(pending) != 1 || pending[0].ID != e2.ID {
		t.Fatalf("Pending() after publish = %v, want only %q", pending, e2.Title)
	}
	if !a.Events[e1.ID].PublishedAt.Equal(published) {
		t.Errorf("PublishedAt = %v, want %v", a.Events[e1.ID].PublishedAt, published)
	}
}

func TestArchive_MarkPublishedByTitle(t *testing.T) {
	a := NewArchive()
	first := newEvt("Jazz Night", "https://a.example/1")
	moved := newEvt("Jazz Night", "https://b.example/2")
	other := newEvt("Hike to Rugova", "https://a.example/3")
	a.Add([]*Event{first})
	a.Add([]*Event{moved, other})

	batch := DedupeByTitle(a.Pending())
	if len(batch) != 2 {
		t.Fatalf("batch has %d events, want 2", len(batch))
	}
	a.MarkPublishedByTitle(batch[:1], testNow)

	pending := a.Pending()
	if len(pending) != 1 || pending[0].ID != other.ID {
		t.Fatalf("Pending() = %v, want only %q", pending, other.Title)
	}
	if !a.Events[moved.ID].PublishedAt.Equal(testNow.UTC()) {
		t.Errorf("duplicate PublishedAt = %v, want %v", a.Events[moved.ID].PublishedAt, testNow)
	}
}

func TestArchive_AddKeepsPublishedState(t *testing.T) {
	a := NewArchive()
	e1 := newEvt("Jazz Night", "https://a.example/1")
	a.Add([]*Event{e1})
	a.MarkPublished([]*Event{e1}, testNow)

	again := newEvt("Jazz Night", "https://a.example/1")
	again.FirstSeen = testNow.Add(24 * time.Hour)

	if added := a.Add([]*Event{again}); added != 0 {
		t.Errorf("Add() = %d for a known event, want 0", added)
	}
	if again.PublishedAt.IsZero() {
		t.Error("re-found event lost its PublishedAt")
	}
	if !again.FirstSeen.Equal(testNow) {
		t.Errorf("FirstSeen = %v, want original %v", again.FirstSeen, testNow)
	}
	if len(a.Pending()) != 0 {
		t.Errorf("Pending() = %d events, want 0", len(a.Pending()))
	}
}

func TestArchive_FilterUnseen(t *testing.T) {
	a := NewArchive()
	a.Add([]*Event{newEvt("Jazz Night", "https://a.example/1")})

	sameID := newEvt("Jazz Night", "https://a.example/1")
	sameTitle := newEvt("JAZZ NIGHT", "https://b.example/other")
	fresh := newEvt("Hike to Rugova", "https://a.example/2")

	got := a.FilterUnseen([]*Event{sameID, sameTitle, fresh})
	if len(got) != 1 || got[0] != fresh {
		t.Errorf("FilterUnseen() = %d events, want only the fresh one", len(got))
	}

	var nilArchive *Archive
	if got := nilArchive.FilterUnseen([]*Event{fresh}); len(got) != 1 {
		t.Errorf("nil archive FilterUnseen() = %d events, want 1", len(got))
	}
}
