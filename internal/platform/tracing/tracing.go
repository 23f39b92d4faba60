// Package tracing inicializa el TracerProvider global de OpenTelemetry.
// Sin Init, otel.Tracer(...) devuelve un tracer no-op y los spans no cuestan nada.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type Options struct {
	ServiceName string

	// Stdout exporta spans como JSON por stdout (útil en dev). Si es false no se instala nada.
	Stdout bool
	Writer io.Writer
}

// Init configura el provider y devuelve la función de shutdown (siempre no-nil).
func Init(ctx context.Context, opts Options) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !opts.Stdout {
		return noop, nil
	}

	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return noop, fmt.Errorf("create stdout exporter: %w", err)
	}

	name := opts.ServiceName
	if name == "" {
		name = "pet-tag-lookup"
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", name))),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
