package ports

// ProgressSink receives progress events. Implementations must be safe for concurrent use.
//
//go:generate go run go.uber.org/mock/mockgen -source=progress.go -destination=mocks/mock_progress.go -package=mocks
type ProgressSink interface {
	// OnStepStart is called when a step is created. parent is -1 for the root.
	OnStepStart(id, parent int, label string)
	// OnStepLabel is called when a step's label changes.
	OnStepLabel(id int, label string)
	// OnStepDone is called once per step with the overall completion ratio in [0, 1].
	OnStepDone(id int, overall float64)
}
