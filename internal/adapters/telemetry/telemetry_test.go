package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/modpack/internal/adapters/telemetry"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/modpack/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = (*telemetry.NoOpSpan)(nil)
	var _ sdktrace.SpanProcessor = (*telemetry.Bridge)(nil)
}

func TestOTelTracer_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := telemetry.NewOTelTracer(tp)

	ctx, span := tracer.Start(context.Background(), "repackage", ports.WithAttribute(ports.SpanAttrStage, "repackage"))
	span.SetAttribute(ports.SpanAttrExecuted, true)
	span.SetAttribute("modpack.units", 3)
	span.SetAttribute(ports.SpanAttrReason, []string{"stale"})
	span.SetAttribute("modpack.ratio", struct{ N int }{1})
	span.RecordError(errors.New("boom"))
	span.End()
	require.NotNil(t, ctx)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	s := ended[0]
	assert.Equal(t, "repackage", s.Name())
	assert.Equal(t, codes.Error, s.Status().Code)
	assert.Equal(t, "boom", s.Status().Description)
	assert.ElementsMatch(t, []attribute.KeyValue{
		attribute.String("modpack.stage", "repackage"),
		attribute.Bool("modpack.executed", true),
		attribute.Int("modpack.units", 3),
		attribute.StringSlice("modpack.reason", []string{"stale"}),
		attribute.String("modpack.ratio", "{1}"),
	}, s.Attributes())
	require.Len(t, s.Events(), 1)
	assert.Equal(t, "exception", s.Events()[0].Name)
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().OnPlanEmit([]string{"resolve", "classify"}).Times(1)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := telemetry.NewOTelTracer(tp).WithRenderer(renderer)

	ctx, span := tracer.Start(context.Background(), "build")
	tracer.EmitPlan(ctx, []string{"resolve", "classify"})
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "plan_emitted", ended[0].Events()[0].Name)
}

func TestProvider_ForwardsToRenderer(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	var rootID string
	gomock.InOrder(
		renderer.EXPECT().OnTaskStart(gomock.Any(), "", "build", gomock.Any()).
			Do(func(id, _, _ string, _ time.Time) { rootID = id }),
		renderer.EXPECT().OnTaskStart(gomock.Any(), gomock.Any(), "classify", gomock.Any()).
			Do(func(_, parent, _ string, _ time.Time) { assert.Equal(t, rootID, parent) }),
		renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(_ string, _ time.Time, err error) { assert.EqualError(t, err, "bad unit") }),
		renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil),
	)

	tp := telemetry.NewProvider(renderer)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	tracer := telemetry.NewOTelTracer(tp)

	ctx, root := tracer.Start(context.Background(), "build")
	_, child := tracer.Start(ctx, "classify")
	child.RecordError(errors.New("bad unit"))
	child.End()
	root.End()
}

func TestBridge_ReportsStageOutcome(t *testing.T) {
	tests := []struct {
		name   string
		span   func(ports.Span)
		expect func(t *testing.T, r *mocks.MockRenderer)
	}{
		{
			name: "up to date",
			span: func(s ports.Span) { s.SetAttribute(ports.SpanAttrExecuted, false) },
			expect: func(_ *testing.T, r *mocks.MockRenderer) {
				r.EXPECT().OnTaskSkipped(gomock.Any(), gomock.Any())
			},
		},
		{
			name: "executed",
			span: func(s ports.Span) {
				s.SetAttribute(ports.SpanAttrExecuted, true)
				s.SetAttribute(ports.SpanAttrReason, "output missing")
			},
			expect: func(_ *testing.T, r *mocks.MockRenderer) {
				r.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil)
			},
		},
		{
			name: "failed before the staleness check",
			span: func(s ports.Span) { s.RecordError(errors.New("prepare failed")) },
			expect: func(t *testing.T, r *mocks.MockRenderer) {
				r.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), gomock.Any()).
					Do(func(_ string, _ time.Time, err error) { assert.EqualError(t, err, "prepare failed") })
			},
		},
		{
			name: "failure wins over skip",
			span: func(s ports.Span) {
				s.SetAttribute(ports.SpanAttrExecuted, false)
				s.RecordError(errors.New("report write failed"))
			},
			expect: func(t *testing.T, r *mocks.MockRenderer) {
				r.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), gomock.Any()).
					Do(func(_ string, _ time.Time, err error) { assert.EqualError(t, err, "report write failed") })
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			renderer := mocks.NewMockRenderer(ctrl)
			renderer.EXPECT().OnTaskStart(gomock.Any(), "", "classify", gomock.Any())
			tt.expect(t, renderer)

			tp := telemetry.NewProvider(renderer)
			t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

			_, span := telemetry.NewOTelTracer(tp).Start(context.Background(), "classify",
				ports.WithAttribute(ports.SpanAttrStage, "classify"))
			tt.span(span)
			span.End()
		})
	}
}

func TestBridge_NilRenderer(_ *testing.T) {
	tp := telemetry.NewProvider(nil)
	_, span := telemetry.NewOTelTracer(tp).Start(context.Background(), "noop")
	span.End()
}

func TestNoOpTracer_Start(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()
	got, span := tracer.Start(ctx, "test-span")
	assert.Equal(t, ctx, got)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	tracer.EmitPlan(ctx, []string{"a"})
	span.End()
}
