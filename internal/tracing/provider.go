// Package tracing exports completion request spans over OTLP and propagates
// W3C trace context to the completion endpoint.
package tracing

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"

	"github.com/torosent/burstbench/internal/config"
)

const (
	instrumentationName = "github.com/torosent/burstbench"
	defaultServiceName  = "burstbench"
)

// Provider owns the tracer used for one benchmark run. The zero value and a
// nil *Provider behave as disabled tracing.
type Provider struct {
	tp        *sdktrace.TracerProvider
	tracer    trace.Tracer
	propagate bool
}

// Init builds a Provider from cfg. Without an endpoint it returns a disabled
// provider that neither exports spans nor injects headers. attrs are added to
// the exported resource, typically the run id and model.
func Init(ctx context.Context, cfg config.TracingConfig, attrs ...attribute.KeyValue) (*Provider, error) {
	if !cfg.Enabled() {
		return &Provider{}, nil
	}

	sampler, err := newSampler(cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		append([]attribute.KeyValue{
			semconv.ServiceName(serviceName(cfg)),
			semconv.ServiceVersion(buildVersion()),
		}, attrs...)...,
	))
	if err != nil {
		return nil, fmt.Errorf("tracing resource: %w", err)
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("tracing exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{
		tp:        tp,
		tracer:    tp.Tracer(instrumentationName, trace.WithInstrumentationVersion(buildVersion())),
		propagate: cfg.ShouldPropagate(),
	}, nil
}

// Tracer returns the run tracer, or a no-op tracer when tracing is disabled.
func (p *Provider) Tracer() trace.Tracer {
	if p == nil || p.tracer == nil {
		return noop.NewTracerProvider().Tracer(instrumentationName)
	}
	return p.tracer
}

// ShouldPropagate reports whether traceparent headers go on completion requests.
func (p *Provider) ShouldPropagate() bool {
	return p != nil && p.propagate
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p != nil && p.tp != nil
}

// Shutdown flushes the spans of the run and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	if err := p.tp.ForceFlush(ctx); err != nil {
		_ = p.tp.Shutdown(ctx)
		return fmt.Errorf("flush spans: %w", err)
	}
	return p.tp.Shutdown(ctx)
}

func serviceName(cfg config.TracingConfig) string {
	if name := strings.TrimSpace(cfg.ServiceName); name != "" {
		return name
	}
	if name := strings.TrimSpace(os.Getenv("OTEL_SERVICE_NAME")); name != "" {
		return name
	}
	return defaultServiceName
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

func newSampler(rate float64) (sdktrace.Sampler, error) {
	switch {
	case rate < 0 || rate > 1:
		return nil, fmt.Errorf("tracing sample rate must be between 0.0 and 1.0, got %g", rate)
	case rate == 0:
		return sdktrace.NeverSample(), nil
	case rate == 1:
		return sdktrace.AlwaysSample(), nil
	default:
		return sdktrace.TraceIDRatioBased(rate), nil
	}
}

// newExporter accepts either host:port or a full collector URL. A URL carries
// its own scheme, so Insecure only applies to bare host:port endpoints.
func newExporter(ctx context.Context, cfg config.TracingConfig) (sdktrace.SpanExporter, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	isURL := strings.Contains(endpoint, "://")

	switch protocol := strings.ToLower(strings.TrimSpace(cfg.Protocol)); protocol {
	case "", "grpc":
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithDialOption(grpc.WithUserAgent(defaultServiceName + "/" + buildVersion())),
		}
		if isURL {
			opts = append(opts, otlptracegrpc.WithEndpointURL(endpoint))
		} else {
			opts = append(opts, otlptracegrpc.WithEndpoint(endpoint))
			if cfg.Insecure {
				opts = append(opts, otlptracegrpc.WithInsecure())
			}
		}
		return otlptracegrpc.New(ctx, opts...)

	case "http":
		var opts []otlptracehttp.Option
		if isURL {
			opts = append(opts, otlptracehttp.WithEndpointURL(endpoint))
		} else {
			opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
			if cfg.Insecure {
				opts = append(opts, otlptracehttp.WithInsecure())
			}
		}
		return otlptracehttp.New(ctx, opts...)

	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q: use \"grpc\" or \"http\"", protocol)
	}
}
