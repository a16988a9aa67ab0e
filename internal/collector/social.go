package collector

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/dola-guide/dola-events/internal/config"
	"github.com/dola-guide/dola-events/internal/event"
	"github.com/dola-guide/dola-events/internal/logger"
)

const (
	// SocialSource is the provenance label for social-network events.
	SocialSource    = "Twitter"
	tweetsPerQuery  = 20
	tweetTitleLimit = 100
)

// TweetSearcher runs one search query against the social network.
type TweetSearcher interface {
	Search(query string, count int) ([]twitter.Tweet, error)
}

type twitterSearcher struct {
	client *twitter.Client
}

// Search returns recent tweets matching query, with full text and entities.
func (s *twitterSearcher) Search(query string, count int) ([]twitter.Tweet, error) {
	result, resp, err := s.client.Search.Tweets(&twitter.SearchTweetParams{
		Query:           query,
		Count:           count,
		ResultType:      "recent",
		TweetMode:       "extended",
		IncludeEntities: twitter.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("searching tweets: %w", err)
	}
	if resp != nil && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if result == nil {
		return nil, nil
	}
	return result.Statuses, nil
}

// SocialCollector turns tweets about local events into listings.
type SocialCollector struct {
	base
	searcher TweetSearcher
	queries  []string
}

// NewSocialCollector creates a collector using OAuth1 user-context credentials.
// Without credentials the collector is still created and Collect is a no-op.
func NewSocialCollector(cfg config.Twitter, deps Deps) *SocialCollector {
	var searcher TweetSearcher
	if cfg.Configured() {
		oauthConfig := oauth1.NewConfig(cfg.APIKey, cfg.APISecret)
		token := oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret)
		httpClient := oauthConfig.Client(oauth1.NoContext, token)
		if deps.Client != nil {
			httpClient.Timeout = deps.Client.Timeout
		}
		searcher = &twitterSearcher{client: twitter.NewClient(httpClient)}
	}
	return NewSocialCollectorWithSearcher(searcher, cfg.Queries, deps)
}

// NewSocialCollectorWithSearcher creates a collector around an existing searcher
func NewSocialCollectorWithSearcher(searcher TweetSearcher, queries []string, deps Deps) *SocialCollector {
	return &SocialCollector{
		base:     newBase("social", deps),
		searcher: searcher,
		queries:  queries,
	}
}

// Collect runs each configured query in turn.
func (s *SocialCollector) Collect(ctx context.Context) []event.Raw {
	if s.searcher == nil {
		s.log.Warn("Twitter credentials not set, skipping", logger.Fields{
			"env": "TWITTER_API_KEY, TWITTER_API_SECRET, TWITTER_ACCESS_TOKEN, TWITTER_ACCESS_SECRET",
		}, nil)
		return nil
	}

	seen := make(titleSet)
	raws := make([]event.Raw, 0)

	for i, query := range s.queries {
		if i > 0 && !s.pause(ctx) {
			return raws
		}

		s.metrics.Request(s.name)
		tweets, err := s.searcher.Search(query, tweetsPerQuery)
		if err != nil {
			s.metrics.Failure(s.name)
			s.log.Warn("Tweet search failed", logger.Fields{"query": query}, err)
			continue
		}

		for _, tw := range tweets {
			raw, ok := tweetToRaw(tw)
			if !ok || !seen.add(raw.Title) {
				continue
			}
			raws = append(raws, raw)
		}
	}

	s.metrics.Items(s.name, len(raws))
	return raws
}

// tweetToRaw maps a tweet: first line is the title, the rest the description.
// Retweets are skipped so the original post is the one listed.
func tweetToRaw(tw twitter.Tweet) (event.Raw, bool) {
	if tw.RetweetedStatus != nil {
		return event.Raw{}, false
	}

	text := tw.FullText
	if text == "" {
		text = tw.Text
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return event.Raw{}, false
	}

	title, rest, _ := strings.Cut(text, "\n")
	title = event.Truncate(event.CollapseSpace(title), tweetTitleLimit)
	if title == "" {
		return event.Raw{}, false
	}
	description := event.CollapseSpace(rest)
	if description == "" {
		description = event.CollapseSpace(text)
	}

	raw := event.Raw{
		Title:       title,
		Description: description,
		URL:         tweetURL(tw),
		Source:      SocialSource,
	}

	if tw.Place != nil {
		raw.Location = tw.Place.FullName
	}

	if tw.Entities != nil {
		for _, m := range tw.Entities.Media {
			if m.MediaURLHttps != "" {
				raw.Image = m.MediaURLHttps
				break
			}
		}
	}

	return raw, true
}

func tweetURL(tw twitter.Tweet) string {
	screenName := "i/web"
	if tw.User != nil && tw.User.ScreenName != "" {
		screenName = tw.User.ScreenName
	}
	return fmt.Sprintf("https://twitter.com/%s/status/%s", screenName, tw.IDStr)
}
