package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dola-guide/dola-events/internal/config"
	"github.com/dola-guide/dola-events/internal/event"
	"github.com/dola-guide/dola-events/internal/logger"
)

// searchPageSize is the most results the search API returns per request.
const searchPageSize = 10

// SearchCollector queries a Custom Search JSON API endpoint once per city and page.
type SearchCollector struct {
	base
	cfg     config.Search
	cities  []string
	country string
}

// NewSearchCollector creates a collector for the web search API
func NewSearchCollector(cfg config.Search, cities []string, country string, deps Deps) *SearchCollector {
	return &SearchCollector{
		base:    newBase("search", deps),
		cfg:     cfg,
		cities:  cities,
		country: country,
	}
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
	Pagemap struct {
		CSEImage []struct {
			Src string `json:"src"`
		} `json:"cse_image"`
		Metatags []map[string]string `json:"metatags"`
	} `json:"pagemap"`
}

// Collect runs one query per city, paging until a page comes back short.
func (s *SearchCollector) Collect(ctx context.Context) []event.Raw {
	if s.cfg.APIKey == "" || s.cfg.EngineID == "" {
		s.log.Warn("Search API credentials not set, skipping", logger.Fields{
			"env": "SEARCH_API_KEY, SEARCH_ENGINE_ID",
		}, nil)
		return nil
	}

	pages := s.cfg.Pages
	if pages < 1 {
		pages = 1
	}

	seen := make(titleSet)
	raws := make([]event.Raw, 0)
	first := true

	for _, city := range s.cities {
		query := strings.TrimSpace(fmt.Sprintf("events in %s %s", city, s.country))

		for page := 0; page < pages; page++ {
			if !first && !s.pause(ctx) {
				return raws
			}
			first = false

			start := page*searchPageSize + 1
			items, err := s.fetchPage(ctx, query, start)
			if err != nil {
				s.log.Warn("Search request failed", logger.Fields{"query": query, "start": start}, err)
				break
			}

			for _, item := range items {
				raw, ok := s.toRaw(item, city)
				if !ok || !seen.add(raw.Title) {
					continue
				}
				raws = append(raws, raw)
			}

			if len(items) < searchPageSize {
				break
			}
		}
	}

	s.metrics.Items(s.name, len(raws))
	return raws
}

func (s *SearchCollector) fetchPage(ctx context.Context, query string, start int) ([]searchItem, error) {
	params := url.Values{}
	params.Set("key", s.cfg.APIKey)
	params.Set("cx", s.cfg.EngineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(searchPageSize))
	params.Set("start", strconv.Itoa(start))

	body, err := s.get(ctx, s.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		s.metrics.Failure(s.name)
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	return result.Items, nil
}

func (s *SearchCollector) toRaw(item searchItem, city string) (event.Raw, bool) {
	title := event.CollapseSpace(item.Title)
	if title == "" {
		return event.Raw{}, false
	}

	description := item.Snippet
	for _, tags := range item.Pagemap.Metatags {
		if og := strings.TrimSpace(tags["og:description"]); len(og) > len(description) {
			description = og
		}
	}

	var image string
	if len(item.Pagemap.CSEImage) > 0 {
		image = item.Pagemap.CSEImage[0].Src
	}

	location := city
	if s.country != "" {
		location = fmt.Sprintf("%s, %s", city, s.country)
	}

	return event.Raw{
		Title:       title,
		Description: description,
		URL:         item.Link,
		Source:      fmt.Sprintf("Web Search (%s)", city),
		Location:    location,
		Image:       image,
	}, true
}
