package ports

import "time"

// Renderer presents build progress.
// It decouples telemetry collection from presentation.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	ProgressSink

	// OnPlanEmit is called once with the stage names in execution order.
	OnPlanEmit(stages []string)

	// OnTaskStart is called when a stage span begins.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskComplete is called when a stage span ends after running, or failing.
	OnTaskComplete(spanID string, endTime time.Time, err error)

	// OnTaskSkipped is called instead of OnTaskComplete when a stage was up to date.
	OnTaskSkipped(spanID string, endTime time.Time)

	// Stop flushes buffered output.
	Stop() error
}
