package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracer delegates to whatever provider is installed globally, so spans
// started before InitTracing become live once it runs.
var Tracer trace.Tracer = otel.Tracer("smartlib")

// InitTracing installs an SDK tracer provider that reports finished spans to
// logger at debug level. The returned func flushes and stops the provider.
func InitTracing(logger *slog.Logger) func(context.Context) error {
	if logger == nil {
		logger = slog.Default()
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(&logProcessor{logger: logger}),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}

// logProcessor is a synchronous span processor that writes one log record
// per finished span.
type logProcessor struct {
	logger *slog.Logger
}

func (p *logProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p *logProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	attrs := []any{
		"span", s.Name(),
		"trace_id", s.SpanContext().TraceID().String(),
		"duration", s.EndTime().Sub(s.StartTime()),
		"status", s.Status().Code.String(),
	}
	for _, kv := range s.Attributes() {
		attrs = append(attrs, string(kv.Key), kv.Value.Emit())
	}
	if desc := s.Status().Description; desc != "" {
		attrs = append(attrs, "status_description", desc)
	}
	p.logger.Debug("span finished", attrs...)
}

func (p *logProcessor) Shutdown(context.Context) error   { return nil }
func (p *logProcessor) ForceFlush(context.Context) error { return nil }
