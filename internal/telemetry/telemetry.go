// Package telemetry installs the OpenTelemetry trace and metric providers.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"gitlab.com/yelinaung/expense-report/internal/config"
	"gitlab.com/yelinaung/expense-report/internal/logger"
)

// ShutdownFunc flushes and stops the providers installed by Setup.
type ShutdownFunc func(context.Context) error

const metricInterval = 30 * time.Second

// stdoutWriter is where the stdout exporters write.
var stdoutWriter io.Writer = os.Stdout

// Setup installs global tracer and meter providers for the configured
// exporter. With the "none" exporter it installs nothing and the global
// no-op providers stay in place.
func Setup(ctx context.Context, cfg *config.Config) (ShutdownFunc, error) {
	if cfg.OTelExporter == "" || cfg.OTelExporter == config.ExporterNone {
		return func(context.Context) error { return nil }, nil
	}

	spanExporter, metricExporter, err := newExporters(ctx, cfg)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(metricInterval))),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Log.Info().
		Str("exporter", cfg.OTelExporter).
		Str("service", cfg.ServiceName).
		Msg("Telemetry enabled")

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}

func newExporters(ctx context.Context, cfg *config.Config) (sdktrace.SpanExporter, sdkmetric.Exporter, error) {
	switch cfg.OTelExporter {
	case config.ExporterStdout:
		se, err := stdouttrace.New(stdouttrace.WithWriter(stdoutWriter))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		me, err := stdoutmetric.New(stdoutmetric.WithWriter(stdoutWriter))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
		}
		return se, me, nil

	case config.ExporterOTLPGRPC:
		traceOpts := []otlptracegrpc.Option{}
		metricOpts := []otlpmetricgrpc.Option{}
		if hasScheme(cfg.OTelEndpoint) {
			traceOpts = append(traceOpts, otlptracegrpc.WithEndpointURL(cfg.OTelEndpoint))
			metricOpts = append(metricOpts, otlpmetricgrpc.WithEndpointURL(cfg.OTelEndpoint))
		} else {
			traceOpts = append(traceOpts, otlptracegrpc.WithEndpoint(cfg.OTelEndpoint), otlptracegrpc.WithInsecure())
			metricOpts = append(metricOpts, otlpmetricgrpc.WithEndpoint(cfg.OTelEndpoint), otlpmetricgrpc.WithInsecure())
		}
		se, err := otlptracegrpc.New(ctx, traceOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP gRPC trace exporter: %w", err)
		}
		me, err := otlpmetricgrpc.New(ctx, metricOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP gRPC metric exporter: %w", err)
		}
		return se, me, nil

	case config.ExporterOTLPHTTP:
		traceOpts := []otlptracehttp.Option{}
		metricOpts := []otlpmetrichttp.Option{}
		if hasScheme(cfg.OTelEndpoint) {
			traceOpts = append(traceOpts, otlptracehttp.WithEndpointURL(cfg.OTelEndpoint))
			metricOpts = append(metricOpts, otlpmetrichttp.WithEndpointURL(cfg.OTelEndpoint))
		} else {
			traceOpts = append(traceOpts, otlptracehttp.WithEndpoint(cfg.OTelEndpoint), otlptracehttp.WithInsecure())
			metricOpts = append(metricOpts, otlpmetrichttp.WithEndpoint(cfg.OTelEndpoint), otlpmetrichttp.WithInsecure())
		}
		se, err := otlptracehttp.New(ctx, traceOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP HTTP trace exporter: %w", err)
		}
		me, err := otlpmetrichttp.New(ctx, metricOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP HTTP metric exporter: %w", err)
		}
		return se, me, nil

	default:
		return nil, nil, fmt.Errorf("unsupported telemetry exporter %q", cfg.OTelExporter)
	}
}

func hasScheme(endpoint string) bool {
	return strings.Contains(endpoint, "://")
}
