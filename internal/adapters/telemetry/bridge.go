package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/modpack/internal/core/ports"
)

// Bridge is a span processor that reports stage spans to a Renderer.
// A span ends in one of three ways: failed, skipped as up to date, or completed.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a Bridge reporting to renderer. A nil renderer discards everything.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart reports the span with its parent, if the parent is a valid span.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	id, ok := b.spanID(s.SpanContext())
	if !ok {
		return
	}
	parentID, _ := b.spanID(trace.SpanContextFromContext(parent))
	b.renderer.OnTaskStart(id, parentID, s.Name(), s.StartTime())
}

// OnEnd reports how the span finished.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	id, ok := b.spanID(s.SpanContext())
	if !ok {
		return
	}

	if err := spanError(s); err != nil {
		b.renderer.OnTaskComplete(id, s.EndTime(), err)
		return
	}
	if skipped(s.Attributes()) {
		b.renderer.OnTaskSkipped(id, s.EndTime())
		return
	}
	b.renderer.OnTaskComplete(id, s.EndTime(), nil)
}

// ForceFlush does nothing; every span is reported as it ends.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

func (b *Bridge) spanID(sc trace.SpanContext) (string, bool) {
	if b.renderer == nil || !sc.IsValid() {
		return "", false
	}
	return sc.SpanID().String(), true
}

func spanError(s sdktrace.ReadOnlySpan) error {
	status := s.Status()
	if status.Code != codes.Error {
		return nil
	}
	if status.Description == "" {
		return errors.New("stage failed")
	}
	return errors.New(status.Description)
}

// skipped reports whether the stage declared itself up to date.
// Spans without the attribute, like the root build span, count as executed.
func skipped(attrs []attribute.KeyValue) bool {
	for _, kv := range attrs {
		if kv.Key == ports.SpanAttrExecuted && kv.Value.Type() == attribute.BOOL {
			return !kv.Value.AsBool()
		}
	}
	return false
}
