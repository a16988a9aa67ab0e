package collector

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dola-guide/dola-events/internal/event"
	"github.com/dola-guide/dola-events/internal/logger"
	"golang.org/x/net/html/charset"
)

// feedItemLimit is how many entries are taken from each feed.
const feedItemLimit = 5

// FeedCollector reads venue RSS 2.0 and Atom feeds.
type FeedCollector struct {
	base
	feeds []string
}

// NewFeedCollector creates a collector for the given feed URLs
func NewFeedCollector(feeds []string, deps Deps) *FeedCollector {
	return &FeedCollector{
		base:  newBase("feeds", deps),
		feeds: feeds,
	}
}

// feedDoc decodes both <rss><channel><item> and <feed><entry> documents.
type feedDoc struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
	Entries []atomEntry `xml:"entry"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Enclosure   struct {
		URL  string `xml:"url,attr"`
		Type string `xml:"type,attr"`
	} `xml:"enclosure"`
}

type atomEntry struct {
	Title string `xml:"title"`
	Links []struct {
		Href string `xml:"href,attr"`
		Rel  string `xml:"rel,attr"`
	} `xml:"link"`
	Summary string `xml:"summary"`
	Content string `xml:"content"`
}

// Collect fetches each feed in order. Feeds usually live on different hosts,
// but the polite delay is applied between all of them anyway.
func (f *FeedCollector) Collect(ctx context.Context) []event.Raw {
	if len(f.feeds) == 0 {
		f.log.Warn("No RSS feeds configured, skipping", logger.Fields{"env": "DOLA_RSS_FEEDS"}, nil)
		return nil
	}

	seen := make(titleSet)
	raws := make([]event.Raw, 0)

	for i, feedURL := range f.feeds {
		if i > 0 && !f.pause(ctx) {
			return raws
		}

		body, err := f.get(ctx, feedURL, nil)
		if err != nil {
			f.log.Warn("Feed request failed", logger.Fields{"url": feedURL}, err)
			continue
		}

		items, err := parseFeed(body, feedURL)
		if err != nil {
			f.metrics.Failure(f.name)
			f.log.Warn("Feed could not be parsed", logger.Fields{"url": feedURL}, err)
			continue
		}

		for _, raw := range items {
			if !seen.add(raw.Title) {
				continue
			}
			raws = append(raws, raw)
		}
	}

	f.metrics.Items(f.name, len(raws))
	return raws
}

// parseFeed maps the first feedItemLimit entries of an RSS or Atom document.
func parseFeed(body []byte, feedURL string) ([]event.Raw, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel
	dec.Strict = false

	var doc feedDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding feed: %w", err)
	}

	source := feedSource(feedURL)
	raws := make([]event.Raw, 0)

	for _, item := range doc.Channel.Items {
		if len(raws) >= feedItemLimit {
			break
		}
		title := event.CollapseSpace(item.Title)
		if title == "" {
			continue
		}
		link := strings.TrimSpace(item.Link)
		if link == "" {
			link = feedURL
		}
		var image string
		if strings.HasPrefix(item.Enclosure.Type, "image/") {
			image = item.Enclosure.URL
		}
		raws = append(raws, event.Raw{
			Title:       title,
			Description: htmlText(item.Description),
			URL:         link,
			Source:      source,
			Image:       image,
		})
	}

	for _, entry := range doc.Entries {
		if len(raws) >= feedItemLimit {
			break
		}
		title := event.CollapseSpace(entry.Title)
		if title == "" {
			continue
		}
		summary := entry.Summary
		if summary == "" {
			summary = entry.Content
		}
		raws = append(raws, event.Raw{
			Title:       title,
			Description: htmlText(summary),
			URL:         atomLink(entry, feedURL),
			Source:      source,
		})
	}

	return raws, nil
}

func atomLink(entry atomEntry, fallback string) string {
	for _, l := range entry.Links {
		if l.Href != "" && (l.Rel == "" || l.Rel == "alternate") {
			return l.Href
		}
	}
	return fallback
}

// htmlText strips markup from a feed description.
func htmlText(s string) string {
	if !strings.Contains(s, "<") {
		return event.CollapseSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return event.CollapseSpace(s)
	}
	return event.CollapseSpace(doc.Text())
}

func feedSource(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return "RSS Feed"
	}
	return fmt.Sprintf("RSS (%s)", strings.TrimPrefix(u.Hostname(), "www."))
}
