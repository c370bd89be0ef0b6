// Package progress tracks weighted, hierarchical build progress.
//
// Steps live in a flat arena and refer to their parent by index. Completing a
// step adds its remaining share to the parent, scaled by the step's weight, and
// the same scaling repeats up to the root.
package progress

import (
	"sync"

	"go.trai.ch/modpack/internal/core/ports"
)

const noParent = -1

type node struct {
	parent int
	weight float64
	label  string
	ratio  float64
	done   bool
}

// Progress is the arena of steps. It is safe for concurrent use.
type Progress struct {
	mu    sync.Mutex
	nodes []node
	sink  ports.ProgressSink
}

// Step is a handle to one node of the arena.
type Step struct {
	p  *Progress
	id int
}

// New creates an arena with a root step. sink may be nil.
func New(label string, sink ports.ProgressSink) *Progress {
	p := &Progress{sink: sink}
	p.nodes = append(p.nodes, node{parent: noParent, weight: 1, label: label})
	if sink != nil {
		sink.OnStepStart(0, noParent, label)
	}
	return p
}

// Root returns the root step.
func (p *Progress) Root() Step {
	return Step{p: p, id: 0}
}

// Ratio returns the overall completion ratio.
func (p *Progress) Ratio() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nodes[0].ratio
}

// Label returns the current label of a step.
func (p *Progress) Label(id int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nodes[id].label
}

// ID returns the arena index of the step.
func (s Step) ID() int { return s.id }

// Child creates a sub-step worth weight of this step. Weight is clamped to [0, 1].
// A zero-weight child only emits boundary events.
func (s Step) Child(weight float64, label string) Step {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	return s.p.addLocked(s.id, clamp(weight), label)
}

// Split creates one child per weight. Weights are relative and normalized to sum to one;
// when they sum to zero every child gets zero weight.
func (s Step) Split(weights []float64, labels []string) []Step {
	var sum float64
	for _, w := range weights {
		if w > 0 {
			sum += w
		}
	}

	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	steps := make([]Step, len(weights))
	for i, w := range weights {
		var norm float64
		if sum > 0 && w > 0 {
			norm = w / sum
		}
		var label string
		if i < len(labels) {
			label = labels[i]
		}
		steps[i] = s.p.addLocked(s.id, norm, label)
	}
	return steps
}

// SetLabel updates the step label.
func (s Step) SetLabel(label string) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.nodes[s.id].label = label
	if s.p.sink != nil {
		s.p.sink.OnStepLabel(s.id, label)
	}
}

// Done marks the step complete. Repeated calls are ignored.
func (s Step) Done() {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	n := &s.p.nodes[s.id]
	if n.done {
		return
	}
	delta := 1 - n.ratio
	n.ratio = 1
	n.done = true

	d := delta * n.weight
	for cur := n.parent; cur != noParent && d > 0; {
		parent := &s.p.nodes[cur]
		if parent.done {
			break
		}
		add := min(d, 1-parent.ratio)
		parent.ratio += add
		d = add * parent.weight
		cur = parent.parent
	}

	if s.p.sink != nil {
		s.p.sink.OnStepDone(s.id, s.p.nodes[0].ratio)
	}
}

// Ratio returns the completion ratio of this step.
func (s Step) Ratio() float64 {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	return s.p.nodes[s.id].ratio
}

func (p *Progress) addLocked(parent int, weight float64, label string) Step {
	id := len(p.nodes)
	p.nodes = append(p.nodes, node{parent: parent, weight: weight, label: label})
	if p.sink != nil {
		p.sink.OnStepStart(id, parent, label)
	}
	return Step{p: p, id: id}
}

func clamp(w float64) float64 {
	switch {
	case w < 0:
		return 0
	case w > 1:
		return 1
	default:
		return w
	}
}
