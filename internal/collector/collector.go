package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dola-guide/dola-events/internal/event"
	"github.com/dola-guide/dola-events/internal/logger"
	"github.com/dola-guide/dola-events/internal/metrics"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 5 << 20

// Collector queries one external source. Collect never fails: request and
// parse errors are logged and count as zero results for that request.
type Collector interface {
	Name() string
	Collect(ctx context.Context) []event.Raw
}

// Deps are the shared pieces every collector needs.
type Deps struct {
	Client    *http.Client
	UserAgent string
	Delay     time.Duration // pause between consecutive requests to the same host
	Logger    *logger.Logger
	Metrics   *metrics.Recorder
}

// base implements the request plumbing shared by the HTTP collectors.
type base struct {
	name      string
	client    *http.Client
	userAgent string
	delay     time.Duration
	log       *logger.Logger
	metrics   *metrics.Recorder
}

func newBase(name string, deps Deps) base {
	client := deps.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	log := deps.Logger
	if log == nil {
		log = logger.Default()
	}
	return base{
		name:      name,
		client:    client,
		userAgent: deps.UserAgent,
		delay:     deps.Delay,
		log:       log.With(logger.Fields{"collector": name}),
		metrics:   deps.Metrics,
	}
}

// Name returns the collector's short name, as used in --sources.
func (b *base) Name() string {
	return b.name
}

// get fetches url and returns the body. Non-2xx responses are errors.
func (b *base) get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if b.userAgent != "" {
		req.Header.Set("User-Agent", b.userAgent)
	}

	b.metrics.Request(b.name)

	resp, err := b.client.Do(req)
	if err != nil {
		b.metrics.Failure(b.name)
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b.metrics.Failure(b.name)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		b.metrics.Failure(b.name)
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return body, nil
}

// pause waits the polite delay. It returns false if ctx ends first.
func (b *base) pause(ctx context.Context) bool {
	if b.delay <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(b.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// titleSet tracks titles already accumulated by one collector.
type titleSet map[string]bool

// add reports whether title is new, recording it if so.
func (s titleSet) add(title string) bool {
	key := event.CollapseSpace(title)
	if key == "" || s[key] {
		return false
	}
	s[key] = true
	return true
}

// Result is what one collector produced during a run.
type Result struct {
	Collector string
	Raws      []event.Raw
}

// CollectAll runs collectors one after another. A collector that panics is
// logged and contributes nothing; the remaining collectors still run.
func CollectAll(ctx context.Context, collectors []Collector, log *logger.Logger) []Result {
	if log == nil {
		log = logger.Default()
	}

	results := make([]Result, 0, len(collectors))
	for _, c := range collectors {
		if ctx.Err() != nil {
			log.Warn("Run cancelled, skipping remaining collectors", logger.Fields{"collector": c.Name()}, ctx.Err())
			break
		}

		start := time.Now()
		raws := safeCollect(ctx, c, log)
		log.Info("Collector finished", logger.Fields{
			"collector": c.Name(),
			"items":     len(raws),
			"duration":  time.Since(start).Round(time.Millisecond).String(),
		})
		results = append(results, Result{Collector: c.Name(), Raws: raws})
	}

	return results
}

func safeCollect(ctx context.Context, c Collector, log *logger.Logger) (raws []event.Raw) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Collector panicked", logger.Fields{"collector": c.Name()}, fmt.Errorf("%v", r))
			raws = nil
		}
	}()
	return c.Collect(ctx)
}

// citySlug turns a display name like "Prishtina" into "prishtina".
func citySlug(city string) string {
	return strings.ToLower(strings.Join(strings.Fields(city), "-"))
}
