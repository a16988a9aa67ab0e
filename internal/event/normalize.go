package event

import (
	"fmt"
	"strings"
	"time"
)

// Classifier picks a category for a listing and an image for a category.
// catalog.Catalog is the production implementation.
type Classifier interface {
	Classify(text string) string
	Image(category string) string
}

// Normalizer turns raw collector output into Event records.
type Normalizer struct {
	Classifier Classifier
	Country    string           // location fallback, e.g. "Kosovo"
	Now        func() time.Time // defaults to time.Now
}

// NewNormalizer creates a Normalizer with the given classifier and location fallback
func NewNormalizer(c Classifier, country string) *Normalizer {
	return &Normalizer{
		Classifier: c,
		Country:    country,
		Now:        time.Now,
	}
}

// Normalize builds an Event from a raw listing. It returns false when the
// listing has no usable title.
func (n *Normalizer) Normalize(raw Raw) (*Event, bool) {
	title := CollapseSpace(raw.Title)
	if title == "" {
		return nil, false
	}

	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}

	source := CollapseSpace(raw.Source)
	description := CollapseSpace(raw.Description)
	// Classify on scraped text only; the filler description would match keywords
	// like "details" or the source name.
	category := n.Classifier.Classify(strings.TrimSpace(title + " " + description))

	if description == "" {
		description = defaultDescription(n.Country, source)
	}
	description = Truncate(description, DescriptionLimit)

	date, _ := ExtractDate(strings.Join([]string{raw.DateText, title, raw.Description}, "\n"), now)

	timeText := CollapseSpace(raw.Time)
	if timeText == "" {
		timeText = TimeUnspecified
	}

	location := CollapseSpace(raw.Location)
	if location == "" {
		location = n.Country
	}

	image := strings.TrimSpace(raw.Image)
	if image == "" {
		image = n.Classifier.Image(category)
	}

	url := strings.TrimSpace(raw.URL)

	return &Event{
		ID:            GenerateID(title, url),
		StableKey:     GenerateStableKey(title),
		Title:         title,
		TitleEn:       title,
		Description:   description,
		DescriptionEn: description,
		Date:          date,
		Time:          timeText,
		Location:      location,
		Image:         image,
		Category:      category,
		URL:           url,
		Source:        source,
		IsLive:        true,
		FirstSeen:     now.UTC(),
	}, true
}

// NormalizeAll normalizes a batch, dropping listings without a title.
func (n *Normalizer) NormalizeAll(raws []Raw) []*Event {
	events := make([]*Event, 0, len(raws))
	for _, raw := range raws {
		if evt, ok := n.Normalize(raw); ok {
			events = append(events, evt)
		}
	}
	return events
}

func defaultDescription(country, source string) string {
	where := country
	if where == "" {
		where = "town"
	}
	if source == "" {
		return fmt.Sprintf("Event in %s.", where)
	}
	return fmt.Sprintf("Event in %s. Check %s for full details.", where, source)
}
