// Package observe provides application-wide observability primitives for
// Stashwise: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Stashwise metrics.
const meterName = "github.com/veyrane/stashwise"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// CatalogFetchDuration tracks how long one catalog table takes to
	// download. Use with attribute.String("table", ...).
	CatalogFetchDuration metric.Float64Histogram

	// IndexBuildDuration tracks catalog parse + index build time.
	IndexBuildDuration metric.Float64Histogram

	// AnalysisDuration tracks one full inventory analysis pass.
	AnalysisDuration metric.Float64Histogram

	// --- Counters ---

	// Recommendations counts engine verdicts. Use with attributes:
	//   attribute.String("action", ...), attribute.Bool("uncertain", ...)
	Recommendations metric.Int64Counter

	// CatalogCacheHits counts catalog tables served from the disk cache.
	// Use with attribute.String("table", ...) and
	// attribute.Bool("stale", ...).
	CatalogCacheHits metric.Int64Counter

	// CatalogCacheMisses counts catalog tables fetched from the CDN.
	CatalogCacheMisses metric.Int64Counter

	// Imports counts processed export files. Use with attributes:
	//   attribute.String("kind", ...), attribute.String("status", ...)
	Imports metric.Int64Counter

	// --- Gauges ---

	// CatalogRecords tracks the number of records currently loaded across
	// all catalog tables.
	CatalogRecords metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// catalog downloads and analysis passes.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.CatalogFetchDuration, err = m.Float64Histogram("stashwise.catalog.fetch.duration",
		metric.WithDescription("Latency of one catalog table download."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.IndexBuildDuration, err = m.Float64Histogram("stashwise.catalog.index_build.duration",
		metric.WithDescription("Time to parse the catalog and build all indexes."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.AnalysisDuration, err = m.Float64Histogram("stashwise.analysis.duration",
		metric.WithDescription("Time of one full inventory analysis pass."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Recommendations, err = m.Int64Counter("stashwise.recommendations",
		metric.WithDescription("Total recommendations by action and uncertainty."),
	); err != nil {
		return nil, err
	}
	if met.CatalogCacheHits, err = m.Int64Counter("stashwise.catalog.cache.hits",
		metric.WithDescription("Catalog tables served from the disk cache by table and staleness."),
	); err != nil {
		return nil, err
	}
	if met.CatalogCacheMisses, err = m.Int64Counter("stashwise.catalog.cache.misses",
		metric.WithDescription("Catalog tables fetched from the CDN by table."),
	); err != nil {
		return nil, err
	}
	if met.Imports, err = m.Int64Counter("stashwise.imports",
		metric.WithDescription("Processed export files by kind and status."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.CatalogRecords, err = m.Int64UpDownCounter("stashwise.catalog.records",
		metric.WithDescription("Number of records currently loaded across all catalog tables."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("stashwise.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordRecommendation records one engine verdict.
func (m *Metrics) RecordRecommendation(ctx context.Context, action string, uncertain bool) {
	m.Recommendations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("action", action),
			attribute.Bool("uncertain", uncertain),
		),
	)
}

// RecordImport records one processed export file.
func (m *Metrics) RecordImport(ctx context.Context, kind, status string) {
	m.Imports.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("status", status),
		),
	)
}

// RecordCacheHit records a catalog table served from the disk cache.
func (m *Metrics) RecordCacheHit(ctx context.Context, table string, stale bool) {
	m.CatalogCacheHits.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("table", table),
			attribute.Bool("stale", stale),
		),
	)
}

// RecordCacheMiss records a catalog table fetched from the CDN.
func (m *Metrics) RecordCacheMiss(ctx context.Context, table string) {
	m.CatalogCacheMisses.Add(ctx, 1,
		metric.WithAttributes(attribute.String("table", table)),
	)
}
