package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dola-guide/dola-events/internal/catalog"
	"github.com/dola-guide/dola-events/internal/collector"
	"github.com/dola-guide/dola-events/internal/config"
	"github.com/dola-guide/dola-events/internal/event"
	"github.com/dola-guide/dola-events/internal/logger"
	"github.com/dola-guide/dola-events/internal/metrics"
	"github.com/dola-guide/dola-events/internal/publisher"
	"github.com/dola-guide/dola-events/internal/storage"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// allSources lists collector names in the order they run.
var allSources = []string{"search", "listings", "feeds", "social"}

// options holds the parsed command-line flags
type options struct {
	target           string
	arrayName        string
	catalogPath      string
	dataDir          string
	envFile          string
	sources          []string
	dryRun           bool
	dedupeAcrossRuns bool
	format           string
	sort             string
	metricsFile      string
	verbose          bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "dola-events",
		Short: "Collect upcoming Kosovo events and add them to the Dola site",
		Long: `A CLI tool that collects upcoming events from web search, listing sites,
venue feeds and social posts, then appends the new ones to the MANUAL_EVENTS
array of the site's index.html. Every collected event is kept in a JSON archive
so events that could not be published are retried on the next run.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.target, "target", "index.html", "HTML file containing the events array")
	cmd.Flags().StringVar(&opts.arrayName, "array", publisher.DefaultArrayName, "Name of the JavaScript array to append to")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "YAML category catalog (built-in catalog if empty)")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "~/.local/share/dola-events", "Data directory for the event archive")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "Optional .env file with credentials")
	cmd.Flags().StringSliceVar(&opts.sources, "sources", append([]string(nil), allSources...), "Collectors to run: search, listings, feeds, social")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the events that would be added without writing anything")
	cmd.Flags().BoolVar(&opts.dedupeAcrossRuns, "dedupe-across-runs", false, "Skip events already in the archive under the same title")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&opts.sort, "sort", "none", "Order of added events: none, date, category or title")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// validate checks flag values before anything touches the network or disk
func (o *options) validate() error {
	format := OutputFormat(strings.ToLower(o.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", o.format)
	}
	o.format = string(format)

	switch SortOrder(strings.ToLower(o.sort)) {
	case SortNone, SortByDate, SortByCategory, SortByTitle:
		o.sort = strings.ToLower(o.sort)
	default:
		return fmt.Errorf("invalid sort: %s (must be 'none', 'date', 'category' or 'title')", o.sort)
	}

	if len(o.sources) == 0 {
		return fmt.Errorf("--sources must name at least one collector")
	}
	for i, name := range o.sources {
		name = strings.ToLower(strings.TrimSpace(name))
		if !isKnownSource(name) {
			return fmt.Errorf("unknown source: %s (must be one of %s)", name, strings.Join(allSources, ", "))
		}
		o.sources[i] = name
	}

	if strings.TrimSpace(o.arrayName) == "" {
		return fmt.Errorf("--array must not be empty")
	}

	return nil
}

func isKnownSource(name string) bool {
	for _, s := range allSources {
		if s == name {
			return true
		}
	}
	return false
}

// runScrape is the main command logic
func runScrape(ctx context.Context, opts *options, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := opts.validate(); err != nil {
		return err
	}

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if opts.verbose {
		level = logger.LevelDebug
	}
	runID := uuid.NewString()
	log := logger.New(level, stderr).With(logger.Fields{"run_id": runID})
	logger.SetDefault(log)

	cat := catalog.Default()
	if opts.catalogPath != "" {
		cat, err = catalog.Load(opts.catalogPath)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
	}

	store, err := storage.New(opts.dataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	archive, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading archive: %w", err)
	}

	log.Debug("Starting run", logger.Fields{
		"target":  opts.target,
		"sources": strings.Join(opts.sources, ","),
		"archive": store.Path(),
		"known":   len(archive.Events),
		"dry_run": opts.dryRun,
	})

	rec := metrics.New()
	deps := collector.Deps{
		Client:    &http.Client{Timeout: cfg.Timeout},
		UserAgent: cfg.UserAgent,
		Delay:     cfg.PoliteDelay,
		Logger:    log,
		Metrics:   rec,
	}

	results := collector.CollectAll(ctx, buildCollectors(opts.sources, cfg, deps), log)

	now := time.Now()
	normalizer := event.NewNormalizer(cat, cfg.Country)
	normalizer.Now = func() time.Time { return now }

	result := &RunResult{
		RunID:     runID,
		CheckedAt: now.UTC(),
		Target:    opts.target,
		DryRun:    opts.dryRun,
	}

	collected := make([]*event.Event, 0)
	for _, r := range results {
		result.Sources = append(result.Sources, SourceCount{Name: r.Collector, Items: len(r.Raws)})
		collected = append(collected, normalizer.NormalizeAll(r.Raws)...)
	}
	result.Collected = len(collected)

	unique := event.DedupeByTitle(collected)
	if opts.dedupeAcrossRuns {
		unique = archive.FilterUnseen(unique)
	}
	result.Unique = len(unique)
	result.Added = archive.Add(unique)

	if !opts.dryRun {
		if err := store.Save(archive); err != nil {
			return fmt.Errorf("saving archive: %w", err)
		}
	}

	pending := event.DedupeByTitle(archive.Pending())
	sortEvents(pending, SortOrder(opts.sort), now)

	log.Info("Run collected events", logger.Fields{
		"collected": result.Collected,
		"unique":    result.Unique,
		"added":     result.Added,
		"pending":   len(pending),
	})

	var pub publisher.Publisher = publisher.NewHTMLPublisher(opts.target, opts.arrayName)
	if opts.dryRun {
		pub = publisher.NewDryRunPublisher(stderr)
	}

	if err := pub.Publish(pending); err != nil {
		rec.Finish(0, len(pending), time.Now())
		writeMetrics(rec, opts.metricsFile, log)
		if errors.Is(err, publisher.ErrBoundaryNotFound) {
			log.Error("Events array not found, target left unchanged", logger.Fields{
				"target": opts.target,
				"array":  opts.arrayName,
			}, err)
		}
		return fmt.Errorf("publishing events: %w", err)
	}

	if len(pending) > 0 && !opts.dryRun {
		archive.MarkPublishedByTitle(pending, time.Now())
		if err := store.Save(archive); err != nil {
			return fmt.Errorf("saving archive: %w", err)
		}
		log.Info("Events added", logger.Fields{"count": len(pending), "target": opts.target})
	}

	result.Events = pending
	if opts.dryRun {
		result.Pending = len(pending)
	} else {
		result.Published = len(pending)
	}

	rec.Finish(result.Published, result.Pending, time.Now())
	writeMetrics(rec, opts.metricsFile, log)

	if err := WriteOutput(stdout, result, OutputFormat(opts.format), opts.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// buildCollectors creates the named collectors in run order
func buildCollectors(sources []string, cfg *config.Config, deps collector.Deps) []collector.Collector {
	want := make(map[string]bool, len(sources))
	for _, s := range sources {
		want[s] = true
	}

	collectors := make([]collector.Collector, 0, len(allSources))
	for _, name := range allSources {
		if !want[name] {
			continue
		}
		switch name {
		case "search":
			collectors = append(collectors, collector.NewSearchCollector(cfg.Search, cfg.Cities, cfg.Country, deps))
		case "listings":
			collectors = append(collectors, collector.NewListingsCollector(cfg.ListingsURL, cfg.Cities, cfg.Country, cfg.ListingPages, deps))
		case "feeds":
			collectors = append(collectors, collector.NewFeedCollector(cfg.RSSFeeds, deps))
		case "social":
			collectors = append(collectors, collector.NewSocialCollector(cfg.Twitter, deps))
		}
	}
	return collectors
}

func writeMetrics(rec *metrics.Recorder, path string, log *logger.Logger) {
	if path == "" {
		return
	}
	if err := rec.WriteTextfile(path); err != nil {
		log.Warn("Could not write metrics file", logger.Fields{"path": path}, err)
	}
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
