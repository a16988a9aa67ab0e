package collector

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dola-guide/dola-events/internal/event"
	"github.com/dola-guide/dola-events/internal/logger"
)

const (
	// ListingsSource is the provenance label for listing-site events.
	ListingsSource = "Eventbrite"
	// cardSelector matches event cards across the listing layouts seen so far.
	cardSelector = "div.discover-search-desktop-card, section.discover-vertical-event-card, article.event-card"
	// DefaultListingsPerPage mirrors how many cards the site shows above the fold.
	DefaultListingsPerPage = 5
)

// ListingsCollector scrapes the public city listing pages of the events site.
type ListingsCollector struct {
	base
	urlTemplate string // fmt template: city slug, page number
	cities      []string
	country     string
	pages       int
	perPage     int
}

// NewListingsCollector creates a collector for the listing site
func NewListingsCollector(urlTemplate string, cities []string, country string, pages int, deps Deps) *ListingsCollector {
	if pages < 1 {
		pages = 1
	}
	return &ListingsCollector{
		base:        newBase("listings", deps),
		urlTemplate: urlTemplate,
		cities:      cities,
		country:     country,
		pages:       pages,
		perPage:     DefaultListingsPerPage,
	}
}

// Collect fetches every configured city page in turn.
func (l *ListingsCollector) Collect(ctx context.Context) []event.Raw {
	seen := make(titleSet)
	raws := make([]event.Raw, 0)
	first := true

	for _, city := range l.cities {
		for page := 1; page <= l.pages; page++ {
			if !first && !l.pause(ctx) {
				return raws
			}
			first = false

			pageURL := fmt.Sprintf(l.urlTemplate, citySlug(city), page)
			body, err := l.get(ctx, pageURL, nil)
			if err != nil {
				l.log.Warn("Listings request failed", logger.Fields{"url": pageURL}, err)
				break
			}

			found, err := parseListings(bytes.NewReader(body), pageURL, l.perPage)
			if err != nil {
				l.log.Warn("Listings page could not be parsed", logger.Fields{"url": pageURL}, err)
				break
			}

			l.log.Debug("Parsed listings page", logger.Fields{"url": pageURL, "cards": len(found)})

			for _, raw := range found {
				if !seen.add(raw.Title) {
					continue
				}
				raw.Location = l.location(city)
				raws = append(raws, raw)
			}

			if len(found) == 0 {
				break
			}
		}
	}

	l.metrics.Items(l.name, len(raws))
	return raws
}

func (l *ListingsCollector) location(city string) string {
	if l.country == "" {
		return city
	}
	return fmt.Sprintf("%s, %s", city, l.country)
}

// parseListings extracts up to limit event cards from a listing page
func parseListings(r io.Reader, pageURL string, limit int) ([]event.Raw, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	base, _ := url.Parse(pageURL)
	raws := make([]event.Raw, 0)

	doc.Find(cardSelector).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if limit > 0 && len(raws) >= limit {
			return false
		}

		title := event.CollapseSpace(card.Find("h2, h3").First().Text())
		if title == "" {
			return true
		}

		link := pageURL
		if href, ok := card.Find("a[href]").First().Attr("href"); ok {
			link = resolveURL(base, href)
		}

		image, _ := card.Find("img[src]").First().Attr("src")

		// Card paragraphs hold the date line and the venue.
		details := make([]string, 0)
		card.Find("p").Each(func(_ int, p *goquery.Selection) {
			text := event.CollapseSpace(p.Text())
			if text != "" && text != title {
				details = append(details, text)
			}
		})

		raws = append(raws, event.Raw{
			Title:       title,
			Description: strings.Join(details, " · "),
			URL:         link,
			Source:      ListingsSource,
			Image:       resolveURL(base, image),
			DateText:    strings.Join(details, "\n"),
		})
		return true
	})

	return raws, nil
}

// resolveURL makes href absolute against base; empty stays empty.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
