// Package config loads run settings and source credentials from the environment.
//
// Values come from the process environment, optionally seeded from a .env
// file. Credentials are absent by default; a collector whose credentials are
// missing is skipped with a warning rather than failing the run.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// UserAgent is sent with every outbound request. Listing sites block obvious bots.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Search holds the web search API credentials and paging.
type Search struct {
	APIKey   string
	EngineID string
	BaseURL  string
	Pages    int
}

// Twitter holds OAuth1 user-context credentials for the v1.1 search API.
type Twitter struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
	Queries      []string
}

// Configured reports whether all four credentials are present.
func (t Twitter) Configured() bool {
	return t.APIKey != "" && t.APISecret != "" && t.AccessToken != "" && t.AccessSecret != ""
}

// Config is everything a run needs besides command-line flags.
type Config struct {
	Country      string
	Cities       []string
	RSSFeeds     []string
	ListingsURL  string // fmt template taking the city slug and page number
	ListingPages int
	Timeout      time.Duration
	PoliteDelay  time.Duration
	UserAgent    string
	LogLevel     string
	Search       Search
	Twitter      Twitter
}

// Load reads envFile (if it exists) into the environment and builds a Config.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	timeout, err := getDuration("DOLA_HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	delay, err := getDuration("DOLA_POLITE_DELAY", time.Second)
	if err != nil {
		return nil, err
	}
	searchPages, err := getInt("DOLA_SEARCH_PAGES", 2)
	if err != nil {
		return nil, err
	}
	listingPages, err := getInt("DOLA_LISTINGS_PAGES", 1)
	if err != nil {
		return nil, err
	}

	return &Config{
		Country:      getEnv("DOLA_COUNTRY", "Kosovo"),
		Cities:       getList("DOLA_CITIES", "Prishtina,Prizren,Peja,Gjakova,Ferizaj"),
		RSSFeeds:     getList("DOLA_RSS_FEEDS", ""),
		ListingsURL:  getEnv("DOLA_LISTINGS_URL", "https://www.eventbrite.com/d/kosovo--%s/events/?page=%d"),
		ListingPages: listingPages,
		Timeout:      timeout,
		PoliteDelay:  delay,
		UserAgent:    getEnv("DOLA_USER_AGENT", UserAgent),
		LogLevel:     getEnv("DOLA_LOG_LEVEL", "info"),
		Search: Search{
			APIKey:   os.Getenv("SEARCH_API_KEY"),
			EngineID: os.Getenv("SEARCH_ENGINE_ID"),
			BaseURL:  getEnv("SEARCH_API_URL", "https://www.googleapis.com/customsearch/v1"),
			Pages:    searchPages,
		},
		Twitter: Twitter{
			APIKey:       os.Getenv("TWITTER_API_KEY"),
			APISecret:    os.Getenv("TWITTER_API_SECRET"),
			AccessToken:  os.Getenv("TWITTER_ACCESS_TOKEN"),
			AccessSecret: os.Getenv("TWITTER_ACCESS_SECRET"),
			Queries:      getList("DOLA_SOCIAL_QUERIES", "#Prishtina events,#Kosovo concert"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	items := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative duration like 10s", key, raw)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, raw)
	}
	return n, nil
}
