// Package linear provides a synchronous, line-oriented renderer for build progress.
package linear

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/modpack/internal/ui/term"
)

// Renderer implements ports.Renderer. It prints one line per stage boundary
// and per completed progress step, in chronological order.
type Renderer struct {
	out    io.Writer
	output *termenv.Output

	mu     sync.Mutex
	stages map[string]*stageState // spanID -> stage state
	steps  map[int]string         // step id -> label
	last   int                    // last printed percentage
}

type stageState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new Renderer writing to w. A nil w means stderr.
func NewRenderer(w io.Writer) *Renderer {
	output := term.NewOutput(w)
	return &Renderer{
		out:    output,
		output: output,
		stages: make(map[string]*stageState),
		steps:  make(map[int]string),
		last:   -1,
	}
}

// Stop is a no-op; every line is written as it happens.
func (r *Renderer) Stop() error {
	return nil
}

// OnPlanEmit prints the planned stages.
func (r *Renderer) OnPlanEmit(stages []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.out, "Planning %d stage(s): %s\n", len(stages), strings.Join(stages, " → "))
}

// OnTaskStart prints a stage start message.
func (r *Renderer) OnTaskStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stages[spanID] = &stageState{name: name, startTime: startTime}
	_, _ = fmt.Fprintf(r.out, "%s Starting...\n", r.prefix(name))
}

// OnTaskComplete prints the completion status of a stage.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stage, ok := r.stages[spanID]
	if !ok {
		return
	}
	delete(r.stages, spanID)

	duration := endTime.Sub(stage.startTime).Round(time.Millisecond)
	if err != nil {
		symbol := term.Paint(r.output, term.Cross, term.Red)
		_, _ = fmt.Fprintf(r.out, "%s %s Failed after %v: %v\n", r.prefix(stage.name), symbol, duration, err)
		return
	}
	symbol := term.Paint(r.output, term.Check, term.Green)
	_, _ = fmt.Fprintf(r.out, "%s %s Completed in %v\n", r.prefix(stage.name), symbol, duration)
}

// OnTaskSkipped prints that a stage was up to date.
func (r *Renderer) OnTaskSkipped(spanID string, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stage, ok := r.stages[spanID]
	if !ok {
		return
	}
	delete(r.stages, spanID)

	symbol := term.Paint(r.output, term.Tilde, term.Yellow)
	_, _ = fmt.Fprintf(r.out, "%s %s Up to date\n", r.prefix(stage.name), symbol)
}

// OnStepStart records the step label. The root step resets the percentage.
func (r *Renderer) OnStepStart(id, parent int, label string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if parent < 0 {
		r.last = -1
	}
	r.steps[id] = label
}

// OnStepLabel updates the step label.
func (r *Renderer) OnStepLabel(id int, label string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps[id] = label
}

// OnStepDone prints the overall completion when it advanced by at least one percent.
func (r *Renderer) OnStepDone(id int, overall float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	label := r.steps[id]
	delete(r.steps, id)

	percent := int(overall * 100)
	if label == "" || percent <= r.last {
		return
	}
	r.last = percent
	line := fmt.Sprintf("%s %3d%% %s", term.Dot, percent, label)
	_, _ = fmt.Fprintln(r.out, term.Paint(r.output, line, term.Slate))
}

func (r *Renderer) prefix(name string) string {
	return r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
}
