// Package cdn downloads the flat Project Gorgon data tables from the public
// CDN, with a disk cache and mirror failover in front of the network.
//
// Fetch policy per table: a cached copy younger than the configured max age is
// used without touching the network. Otherwise each configured mirror is tried
// in order until one answers. When every mirror fails, a stale cached copy is
// served with a warning. A table that can be neither fetched nor found in the
// cache fails the whole fetch, since the downstream indexes need all nine
// tables to be coherent.
package cdn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/veyrane/stashwise/internal/observe"
	"github.com/veyrane/stashwise/internal/resilience"
	"github.com/veyrane/stashwise/pkg/catalog"
)

const (
	// DefaultBaseURL is the official Project Gorgon CDN.
	DefaultBaseURL = "https://cdn.projectgorgon.com"

	// DefaultVersion is the data snapshot version fetched when none is
	// configured.
	DefaultVersion = "v457"

	// DefaultMaxAge is how long a cached table stays fresh.
	DefaultMaxAge = 7 * 24 * time.Hour

	// defaultTimeout bounds a single table download.
	defaultTimeout = 30 * time.Second
)

// ErrTableUnavailable is returned when a table could not be fetched from any
// mirror and no cached copy exists.
var ErrTableUnavailable = errors.New("cdn: table unavailable")

// Client fetches catalog tables. Safe for concurrent use.
type Client struct {
	http    *http.Client
	mirrors *resilience.FallbackGroup[string]
	cache   *Cache
	maxAge  time.Duration
	version string
	metrics *observe.Metrics
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for downloads.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCache attaches a disk cache. Without one every fetch hits the network.
func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithMaxAge overrides how long cached tables stay fresh.
func WithMaxAge(d time.Duration) Option {
	return func(c *Client) { c.maxAge = d }
}

// WithMetrics attaches metric instruments. Without it no metrics are recorded.
func WithMetrics(m *observe.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithMirrors appends additional base URLs tried after the primary when a
// download fails.
func WithMirrors(urls ...string) Option {
	return func(c *Client) {
		for _, u := range urls {
			c.mirrors.AddFallback(u, u)
		}
	}
}

// New creates a Client for the given primary base URL and data version.
// Empty strings select [DefaultBaseURL] and [DefaultVersion].
func New(baseURL, version string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if version == "" {
		version = DefaultVersion
	}
	c := &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		maxAge:  DefaultMaxAge,
		version: version,
		mirrors: resilience.NewFallbackGroup(baseURL, baseURL, resilience.FallbackConfig{
			CircuitBreaker: resilience.CircuitBreakerConfig{
				MaxFailures:  3,
				ResetTimeout: time.Minute,
			},
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Version returns the data snapshot version this client fetches.
func (c *Client) Version() string {
	return c.version
}

// URL returns the download URL for table on the given base.
func (c *Client) URL(base string, table catalog.TableName) string {
	return fmt.Sprintf("%s/%s/data/%s.json", base, c.version, table)
}

// FetchAll downloads every table in [catalog.TableNames] concurrently and
// returns the raw payloads keyed by table. It fails if any single table is
// unavailable from all sources.
func (c *Client) FetchAll(ctx context.Context) (map[catalog.TableName][]byte, error) {
	ctx, span := observe.StartSpan(ctx, "cdn.FetchAll")
	defer span.End()

	var (
		mu      sync.Mutex
		results = make(map[catalog.TableName][]byte, len(catalog.TableNames))
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, table := range catalog.TableNames {
		g.Go(func() error {
			data, err := c.fetchTable(ctx, table)
			if err != nil {
				return err
			}
			mu.Lock()
			results[table] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// fetchTable resolves one table: fresh cache, then network with mirror
// failover, then stale cache.
func (c *Client) fetchTable(ctx context.Context, table catalog.TableName) ([]byte, error) {
	log := observe.Logger(ctx).With("table", string(table))

	if c.cache != nil {
		data, err := c.cache.Get(table, c.maxAge)
		if err == nil {
			c.recordCacheHit(ctx, table, false)
			return data, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Warn("cache read failed, falling back to network", "error", err)
		}
	}

	start := time.Now()
	data, err := resilience.ExecuteWithResult(c.mirrors, func(base string) ([]byte, error) {
		return c.download(ctx, base, table)
	})
	if err == nil {
		if c.metrics != nil {
			c.metrics.CatalogFetchDuration.Record(ctx, time.Since(start).Seconds(),
				metric.WithAttributes(observe.Attr("table", string(table))))
			c.metrics.RecordCacheMiss(ctx, string(table))
		}
		if c.cache != nil {
			if cerr := c.cache.Put(table, data); cerr != nil {
				log.Warn("cache write failed", "error", cerr)
			}
		}
		return data, nil
	}

	if c.cache != nil {
		stale, serr := c.cache.GetStale(table)
		if serr == nil {
			age, _ := c.cache.Age(table)
			log.Warn("all mirrors failed, serving stale cache",
				"age", age.Round(time.Hour), "error", err)
			c.recordCacheHit(ctx, table, true)
			return stale, nil
		}
	}
	return nil, fmt.Errorf("%w: %s: %v", ErrTableUnavailable, table, err)
}

// download performs one HTTP GET against a specific base URL.
func (c *Client) download(ctx context.Context, base string, table catalog.TableName) ([]byte, error) {
	url := c.URL(base, table)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("cdn: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cdn: get %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cdn: get %s: unexpected status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cdn: read body: %w", err)
	}
	return data, nil
}

func (c *Client) recordCacheHit(ctx context.Context, table catalog.TableName, stale bool) {
	if c.metrics != nil {
		c.metrics.RecordCacheHit(ctx, string(table), stale)
	}
}
