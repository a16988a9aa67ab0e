package event

import (
	"strings"
	"testing"
	"time"
)

type stubClassifier struct {
	category string
	lastText string
}

func (s *stubClassifier) Classify(text string) string {
	s.lastText = text
	return s.category
}

func (s *stubClassifier) Image(category string) string {
	return "https://images.example.com/" + category + ".jpg"
}

func newTestNormalizer(c Classifier) *Normalizer {
	n := NewNormalizer(c, "Kosovo")
	n.Now = func() time.Time { return testNow }
	return n
}

func TestNormalize_Defaults(t *testing.T) {
	cls := &stubClassifier{category: "concert"}
	n := newTestNormalizer(cls)

	evt, ok := n.Normalize(Raw{
		Title:  "  Jazz   Night ",
		URL:    "https://www.eventbrite.com/e/jazz-night",
		Source: "Eventbrite",
	})
	if !ok {
		t.Fatal("Normalize() rejected a listing with a title")
	}

	checks := map[string][2]string{
		"Title":         {evt.Title, "Jazz Night"},
		"TitleEn":       {evt.TitleEn, "Jazz Night"},
		"Description":   {evt.Description, "Event in Kosovo. Check Eventbrite for full details."},
		"DescriptionEn": {evt.DescriptionEn, evt.Description},
		"Date":          {evt.Date, DateUnscheduled},
		"Time":          {evt.Time, TimeUnspecified},
		"Location":      {evt.Location, "Kosovo"},
		"Image":         {evt.Image, "https://images.example.com/concert.jpg"},
		"Category":      {evt.Category, "concert"},
		"Source":        {evt.Source, "Eventbrite"},
	}
	for field, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %q, want %q", field, c[0], c[1])
		}
	}

	if !evt.IsLive {
		t.Error("IsLive = false, want true")
	}
	if cls.lastText != "Jazz Night" {
		t.Errorf("classified %q, want the title only when there is no scraped description", cls.lastText)
	}
	if evt.ID == "" || evt.StableKey == "" {
		t.Error("expected ID and StableKey to be generated")
	}
	if !evt.FirstSeen.Equal(testNow) {
		t.Errorf("FirstSeen = %v, want %v", evt.FirstSeen, testNow)
	}
}

func TestNormalize_UsesRawFields(t *testing.T) {
	cls := &stubClassifier{category: "bars"}
	n := newTestNormalizer(cls)

	evt, ok := n.Normalize(Raw{
		Title:       "Cocktail evening",
		Description: "Happy hour\nat the rooftop bar",
		URL:         "https://t.co/abc",
		Source:      "Twitter",
		Location:    "Prishtina, Kosovo",
		Image:       "https://pbs.twimg.com/media/x.jpg",
		DateText:    "Mon, 02 Nov 2026 20:00:00 +0000",
		Time:        "20:00",
	})
	if !ok {
		t.Fatal("Normalize() rejected a valid listing")
	}

	if evt.Description != "Happy hour at the rooftop bar" {
		t.Errorf("Description = %q, want whitespace collapsed", evt.Description)
	}
	if evt.Location != "Prishtina, Kosovo" {
		t.Errorf("Location = %q", evt.Location)
	}
	if evt.Image != "https://pbs.twimg.com/media/x.jpg" {
		t.Errorf("Image = %q, want the raw cover image", evt.Image)
	}
	if evt.Time != "20:00" {
		t.Errorf("Time = %q, want 20:00", evt.Time)
	}
	if evt.Date != "November 2" {
		t.Errorf("Date = %q, want November 2 from DateText", evt.Date)
	}
	if !strings.Contains(cls.lastText, "Cocktail evening") || !strings.Contains(cls.lastText, "rooftop bar") {
		t.Errorf("classifier saw %q, want title and description", cls.lastText)
	}
}

func TestNormalize_TruncatesDescription(t *testing.T) {
	n := newTestNormalizer(&stubClassifier{category: "museum"})

	evt, ok := n.Normalize(Raw{Title: "Exhibition", Description: strings.Repeat("word ", 100)})
	if !ok {
		t.Fatal("Normalize() rejected a valid listing")
	}
	if !strings.HasSuffix(evt.Description, "...") {
		t.Errorf("Description = %q, want truncation marker", evt.Description)
	}
	if len([]rune(evt.Description)) > DescriptionLimit+3 {
		t.Errorf("Description has %d runes, want at most %d", len([]rune(evt.Description)), DescriptionLimit+3)
	}
}

func TestNormalize_RejectsEmptyTitle(t *testing.T) {
	n := newTestNormalizer(&stubClassifier{category: "outdoor"})

	for _, title := range []string{"", "   ", "\n\t"} {
		if _, ok := n.Normalize(Raw{Title: title, Description: "something"}); ok {
			t.Errorf("Normalize() accepted title %q", title)
		}
	}
}

func TestNormalizeAll(t *testing.T) {
	n := newTestNormalizer(&stubClassifier{category: "outdoor"})

	events := n.NormalizeAll([]Raw{
		{Title: "Hike to Rugova"},
		{Title: ""},
		{Title: "Jazz Night"},
	})

	if len(events) != 2 {
		t.Fatalf("NormalizeAll() returned %d events, want 2", len(events))
	}
	if events[0].Title != "Hike to Rugova" || events[1].Title != "Jazz Night" {
		t.Errorf("NormalizeAll() order = [%q %q]", events[0].Title, events[1].Title)
	}
}
