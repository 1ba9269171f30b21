// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tracing configures OpenTelemetry and offers small span helpers
// used around orchestrator dispatches and provider HTTP calls.
package tracing

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/pdiddy/knowmap/pkg/types"
)

const tracerName = "knowmap"

// Setup installs the global TracerProvider and returns its shutdown
// function. When tracing is disabled a noop provider is installed.
func Setup(ctx context.Context, cfg types.TraceConfig) (func(context.Context) error, error) {
	noopShutdown := func(context.Context) error { return nil }

	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return noopShutdown, nil
	}

	switch strings.ToLower(cfg.Exporter) {
	case "noop", "":
		otel.SetTracerProvider(noop.NewTracerProvider())
		return noopShutdown, nil
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("creating stdout exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)
		otel.SetTracerProvider(tp)
		return tp.Shutdown, nil
	default:
		return nil, fmt.Errorf("unsupported trace exporter %q: use stdout or noop", cfg.Exporter)
	}
}

// StartSpan starts a span on the knowmap tracer.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordError marks the span as failed with err.
func RecordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// RecordFailure marks the span as failed with a message that did not come
// from a Go error, such as a provider-reported failure.
func RecordFailure(span trace.Span, message string) {
	span.SetStatus(codes.Error, message)
}

// SetOK marks the span as successful.
func SetOK(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// String is shorthand for attribute.String.
func String(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// Int is shorthand for attribute.Int.
func Int(key string, value int) attribute.KeyValue {
	return attribute.Int(key, value)
}
