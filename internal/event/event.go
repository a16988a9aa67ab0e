package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DateUnscheduled is rendered when no upcoming date could be extracted.
	DateUnscheduled = "Coming Soon"
	// TimeUnspecified is rendered when a source does not give a start time.
	TimeUnspecified = "TBA"
	// DescriptionLimit is the maximum description length in runes before truncation.
	DescriptionLimit = 200
	ellipsis         = "..."
)

// Event is a normalized listing as it appears in the site's MANUAL_EVENTS array.
// The id, stable_key, first_seen and published_at fields only live in the archive.
type Event struct {
	ID            string    `json:"id"`
	StableKey     string    `json:"stable_key"` // Stable identifier based on normalized title
	Title         string    `json:"title"`
	TitleEn       string    `json:"titleEn"`
	Description   string    `json:"description"`
	DescriptionEn string    `json:"descriptionEn"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Location      string    `json:"location"`
	Image         string    `json:"image"`
	Category      string    `json:"category"`
	URL           string    `json:"url"`
	Source        string    `json:"source"`
	IsLive        bool      `json:"isLive"`
	Seq           int64     `json:"seq"`
	FirstSeen     time.Time `json:"first_seen"`
	PublishedAt   time.Time `json:"published_at,omitempty"` // When the event was spliced into the site
}

// Raw is a candidate listing as a collector found it, before classification.
// Only Title is required; everything else falls back to a default.
type Raw struct {
	Title       string
	Description string
	URL         string
	Source      string
	Location    string
	Image       string
	DateText    string // extra text to search for a date, e.g. an RSS pubDate
	Time        string
}

// GenerateID creates a deterministic ID from the normalized title and URL
func GenerateID(title, url string) string {
	h := sha1.New()
	h.Write([]byte(NormalizeTitle(title) + "|" + strings.TrimSpace(url)))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// GenerateStableKey creates an identifier from the normalized title alone.
// It stays the same when the same listing is found under a different URL.
func GenerateStableKey(title string) string {
	h := sha1.New()
	h.Write([]byte(NormalizeTitle(title)))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// NormalizeTitle lowercases a title and collapses internal whitespace.
func NormalizeTitle(title string) string {
	return strings.ToLower(CollapseSpace(title))
}

// CollapseSpace trims s and replaces every run of whitespace with one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to limit runes, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit])) + ellipsis
}
