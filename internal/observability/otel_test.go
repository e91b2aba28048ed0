package observability

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-kudos-backend/internal/config"
)

func keepGlobalTracing(t *testing.T) {
	t.Helper()
	tp, prop := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(prop)
	})
}

func TestSetupOTel_DisabledReturnsNoopShutdown(t *testing.T) {
	keepGlobalTracing(t)
	before := otel.GetTracerProvider()

	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: false, Endpoint: "ignored:4317"}, "dev")
	if err != nil || shutdown == nil {
		t.Fatalf("shutdown nil=%v err=%v", shutdown == nil, err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if otel.GetTracerProvider() != before {
		t.Fatalf("disabled setup replaced the tracer provider")
	}
}

func TestSetupOTel_BuildFailureLeavesGlobals(t *testing.T) {
	cases := []struct {
		name string
		stub func()
	}{
		{"exporter", func() {
			newOTLPExporterFn = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) {
				return nil, errors.New("exporter down")
			}
		}},
		{"resource", func() {
			newServiceResourceFn = func(context.Context, string, string) (*resource.Resource, error) {
				return nil, errors.New("bad resource")
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			keepGlobalTracing(t)
			exp, res := newOTLPExporterFn, newServiceResourceFn
			t.Cleanup(func() { newOTLPExporterFn, newServiceResourceFn = exp, res })
			tc.stub()

			before := otel.GetTracerProvider()
			_, err := SetupOTel(context.Background(), config.OTELConfig{
				Enabled:     true,
				Insecure:    true,
				Endpoint:    "localhost:4317",
				ServiceName: "nkudos",
				SampleRatio: 1,
			}, "dev")
			if err == nil {
				t.Fatalf("want error")
			}
			if otel.GetTracerProvider() != before {
				t.Fatalf("tracer provider changed on failure")
			}
		})
	}
}

func TestTracer_UsesScopePrefix(t *testing.T) {
	keepGlobalTracing(t)
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	otel.SetTracerProvider(tp)

	_, span := Tracer("services/kudos").Start(context.Background(), "Submit", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	ro, ok := span.(sdktrace.ReadOnlySpan)
	if !ok {
		t.Fatalf("expected sdk span, got %T", span)
	}
	if got := ro.InstrumentationScope().Name; got != ScopePrefix+"services/kudos" {
		t.Fatalf("scope = %q", got)
	}
}

func TestSamplerFor(t *testing.T) {
	cases := []struct {
		ratio float64
		want  string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.5, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}
	for _, tc := range cases {
		if got := samplerFor(tc.ratio).Description(); !strings.Contains(got, tc.want) {
			t.Fatalf("ratio %v: description %q does not mention %q", tc.ratio, got, tc.want)
		}
	}
}
