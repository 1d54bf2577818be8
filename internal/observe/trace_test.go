package observe

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// withTestTracer swaps in a TracerProvider with an in-memory exporter so
// spans started through the package helpers can be inspected.
func withTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	orig := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(orig)
		_ = tp.Shutdown(context.Background())
	})
	return exp
}

// captureLogs redirects the default slog logger into a buffer.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(orig) })
	return &buf
}

func TestCorrelationID_NoSpan(t *testing.T) {
	if got := CorrelationID(context.Background()); got != "" {
		t.Errorf("CorrelationID with no span = %q, want empty", got)
	}
}

func TestStartSpan_RecordsNamedSpan(t *testing.T) {
	exp := withTestTracer(t)

	ctx, span := StartSpan(context.Background(), "catalog.fetch")
	cid := CorrelationID(ctx)
	span.End()

	if len(cid) != 32 {
		t.Errorf("correlation ID = %q, want a 32-char trace ID", cid)
	}
	for _, c := range cid {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			t.Errorf("correlation ID contains non-hex character %q", c)
			break
		}
	}

	spans := exp.GetSpans()
	if len(spans) != 1 || spans[0].Name != "catalog.fetch" {
		t.Fatalf("recorded spans = %+v, want one named catalog.fetch", spans.Snapshots())
	}
}

func TestCorrelationID_UniquePerAnalysisPass(t *testing.T) {
	withTestTracer(t)

	seen := make(map[string]struct{}, 100)
	for range 100 {
		ctx, span := StartSpan(context.Background(), "analysis.pass")
		cid := CorrelationID(ctx)
		span.End()
		if _, dup := seen[cid]; dup {
			t.Fatalf("duplicate correlation ID across passes: %s", cid)
		}
		seen[cid] = struct{}{}
	}
}

func TestLogger_EnrichedInsideSpan(t *testing.T) {
	withTestTracer(t)
	buf := captureLogs(t)

	ctx, span := StartSpan(context.Background(), "plan.export")
	defer span.End()

	Logger(ctx).Info("plan written", "format", "csv")

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("trace_id=")) {
		t.Errorf("log line missing trace_id: %s", out)
	}
	if !bytes.Contains([]byte(out), []byte("span_id=")) {
		t.Errorf("log line missing span_id: %s", out)
	}
}

func TestLogger_PlainOutsideSpan(t *testing.T) {
	buf := captureLogs(t)

	Logger(context.Background()).Info("catalog cache warm")

	if bytes.Contains(buf.Bytes(), []byte("trace_id")) {
		t.Errorf("log line should carry no trace_id outside a span: %s", buf.String())
	}
}

func TestTracer_NotNil(t *testing.T) {
	if Tracer() == nil {
		t.Fatal("Tracer() returned nil")
	}
}
