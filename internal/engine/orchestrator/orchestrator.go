// Package orchestrator runs pipeline stages in dependency order and skips the
// ones whose inputs did not change.
package orchestrator

import (
	"context"
	"os"
	"time"

	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/modpack/internal/engine/progress"
	"go.trai.ch/zerr"
)

// Node is one pipeline stage.
type Node struct {
	Name      string
	Label     string
	Weight    float64
	DependsOn []string

	// Prepare always runs, before the staleness check. It must not invoke external tools.
	Prepare func(ctx context.Context) error

	// Units returns the units the stage consumes. Evaluated after Prepare.
	Units func() []*domain.Unit

	// Outputs returns the paths the stage produces. A missing output makes the stage stale.
	Outputs func() []string

	// Execute does the work of a stale stage. A nil Execute makes the stage prepare-only.
	Execute func(ctx context.Context, step progress.Step) error
}

// Result summarizes one run.
type Result struct {
	Order     []string
	Statuses  map[string]domain.StageStatus
	Executed  map[string]bool
	Durations map[string]time.Duration
}

// ExecutedCount returns the number of stages that were not skipped.
func (r *Result) ExecutedCount() int {
	n := 0
	for _, ok := range r.Executed {
		if ok {
			n++
		}
	}
	return n
}

// Orchestrator executes stage graphs sequentially.
type Orchestrator struct {
	tracer ports.Tracer
	logger ports.Logger

	progress *progress.Progress

	store      ports.ReportStore
	hasher     ports.Hasher
	reportPath string
}

// New creates an Orchestrator.
func New(tracer ports.Tracer, logger ports.Logger) *Orchestrator {
	return &Orchestrator{tracer: tracer, logger: logger}
}

// WithProgress reports stage progress into p. Each stage gets a child of the root step.
func (o *Orchestrator) WithProgress(p *progress.Progress) *Orchestrator {
	o.progress = p
	return o
}

// WithReport writes a build report to path after every run.
func (o *Orchestrator) WithReport(store ports.ReportStore, hasher ports.Hasher, path string) *Orchestrator {
	o.store = store
	o.hasher = hasher
	o.reportPath = path
	return o
}

type runState struct {
	o      *Orchestrator
	nodes  map[string]*Node
	steps  map[string]progress.Step
	result *Result
}

// Run executes nodes in topological order. The first failing stage aborts the run;
// the returned error wraps its cause and names the stage. The result is returned in both cases.
func (o *Orchestrator) Run(ctx context.Context, nodes []Node) (*Result, error) {
	graph := domain.NewGraph()
	byName := make(map[string]*Node, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		if err := graph.AddTask(&domain.Task{
			Name:         domain.NewInternedString(n.Name),
			Dependencies: domain.NewInternedStrings(n.DependsOn),
		}); err != nil {
			return nil, err
		}
		byName[n.Name] = n
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}

	state := &runState{
		o:     o,
		nodes: byName,
		steps: make(map[string]progress.Step, len(nodes)),
		result: &Result{
			Order:     make([]string, 0, len(nodes)),
			Statuses:  make(map[string]domain.StageStatus, len(nodes)),
			Executed:  make(map[string]bool, len(nodes)),
			Durations: make(map[string]time.Duration, len(nodes)),
		},
	}

	var tasks []domain.Task
	for t := range graph.Walk() {
		name := t.Name.String()
		tasks = append(tasks, t)
		state.result.Order = append(state.result.Order, name)
		state.result.Statuses[name] = domain.StageStatusPending
	}

	o.tracer.EmitPlan(ctx, state.result.Order)
	state.planSteps()

	var runErr error
	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if err := state.runNode(ctx, t); err != nil {
			runErr = zerr.With(zerr.Wrap(err, domain.ErrStageFailed.Error()), "stage", t.Name.String())
			break
		}
	}

	state.writeReport()
	return state.result, runErr
}

func (state *runState) planSteps() {
	p := state.o.progress
	if p == nil {
		p = progress.New("build", nil)
	}
	weights := make([]float64, len(state.result.Order))
	labels := make([]string, len(state.result.Order))
	for i, name := range state.result.Order {
		n := state.nodes[name]
		weights[i] = n.Weight
		labels[i] = n.Label
		if labels[i] == "" {
			labels[i] = name
		}
	}
	for i, step := range p.Root().Split(weights, labels) {
		state.steps[state.result.Order[i]] = step
	}
}

func (state *runState) runNode(ctx context.Context, t domain.Task) error {
	name := t.Name.String()
	n := state.nodes[name]
	step := state.steps[name]
	start := time.Now()

	ctx, span := state.o.tracer.Start(ctx, name, ports.WithAttribute(ports.SpanAttrStage, name))
	defer span.End()

	state.result.Statuses[name] = domain.StageStatusRunning

	fail := func(err error) error {
		span.RecordError(err)
		state.result.Statuses[name] = domain.StageStatusFailed
		state.result.Durations[name] = time.Since(start)
		return err
	}

	if n.Prepare != nil {
		if err := n.Prepare(ctx); err != nil {
			return fail(err)
		}
	}

	reason, stale := state.staleReason(t)
	span.SetAttribute(ports.SpanAttrExecuted, stale)

	if !stale {
		state.o.logger.Debug("skipping " + name + ": up to date")
		state.result.Statuses[name] = domain.StageStatusUpToDate
		state.result.Durations[name] = time.Since(start)
		step.Done()
		return nil
	}

	span.SetAttribute(ports.SpanAttrReason, reason)
	state.o.logger.Debug("running " + name + ": " + reason)
	state.result.Executed[name] = true

	if n.Execute != nil {
		if err := n.Execute(ctx, step); err != nil {
			return fail(err)
		}
	}

	state.result.Statuses[name] = domain.StageStatusCompleted
	state.result.Durations[name] = time.Since(start)
	step.Done()
	return nil
}

// staleReason decides whether a stage must execute. Unit staleness is read as
// computed at classification; it is not recomputed mid-run.
func (state *runState) staleReason(t domain.Task) (string, bool) {
	n := state.nodes[t.Name.String()]

	if n.Units != nil {
		for _, u := range n.Units() {
			if u.Stale() {
				return "unit " + u.Name() + " is stale", true
			}
		}
	}

	for _, dep := range t.Dependencies {
		if state.result.Executed[dep.String()] {
			return "upstream stage " + dep.String() + " executed", true
		}
	}

	if n.Outputs != nil {
		for _, out := range n.Outputs() {
			if _, err := os.Stat(out); err != nil {
				return "output " + out + " is missing", true
			}
		}
	}

	return "", false
}

func (state *runState) writeReport() {
	o := state.o
	if o.store == nil || o.reportPath == "" {
		return
	}

	now := time.Now()
	records := make([]domain.StageRecord, 0, len(state.result.Order))
	for _, name := range state.result.Order {
		rec := domain.StageRecord{
			Stage:    name,
			Status:   state.result.Statuses[name],
			Executed: state.result.Executed[name],
			Duration: state.result.Durations[name],
		}
		// Stages behind a failure never ran.
		if rec.Status.IsTerminal() {
			rec.Timestamp = now
		}
		if n := state.nodes[name]; rec.Status == domain.StageStatusCompleted && n.Outputs != nil && o.hasher != nil {
			if outputs := n.Outputs(); len(outputs) > 0 {
				if hash, err := o.hasher.ComputeOutputHash(outputs); err == nil {
					rec.OutputHash = hash
				}
			}
		}
		records = append(records, rec)
	}

	if err := o.store.Put(o.reportPath, records); err != nil {
		o.logger.Warn("failed to write build report: " + err.Error())
	}
}
