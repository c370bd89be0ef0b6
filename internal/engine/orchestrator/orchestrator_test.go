package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/modpack/internal/core/ports/mocks"
	"go.trai.ch/modpack/internal/engine/orchestrator"
	"go.trai.ch/modpack/internal/engine/progress"
	"go.uber.org/mock/gomock"
)

type orchestratorMocks struct {
	tracer *mocks.MockTracer
	span   *mocks.MockSpan
	logger *mocks.MockLogger
}

func setupOrchestratorTest(t *testing.T) (*orchestrator.Orchestrator, orchestratorMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := orchestratorMocks{
		tracer: mocks.NewMockTracer(ctrl),
		span:   mocks.NewMockSpan(ctrl),
		logger: mocks.NewMockLogger(ctrl),
	}

	m.span.EXPECT().End().AnyTimes()
	m.span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	m.span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	m.tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, m.span
		},
	).AnyTimes()
	m.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any()).AnyTimes()

	m.logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	return orchestrator.New(m.tracer, m.logger), m
}

func unit(name string, stale bool) *domain.Unit {
	return domain.NewUnit(domain.UnitSpec{Name: name, Version: "1", Stale: stale})
}

func recorder(calls *[]string, name string) func(context.Context, progress.Step) error {
	return func(context.Context, progress.Step) error {
		*calls = append(*calls, name)
		return nil
	}
}

func TestRun_TopologicalOrder(t *testing.T) {
	o, _ := setupOrchestratorTest(t)
	var calls []string

	nodes := []orchestrator.Node{
		{Name: "package", DependsOn: []string{"link"}, Execute: recorder(&calls, "package")},
		{Name: "link", DependsOn: []string{"repackage"}, Execute: recorder(&calls, "link")},
		{
			Name:    "repackage",
			Units:   func() []*domain.Unit { return []*domain.Unit{unit("a", true)} },
			Execute: recorder(&calls, "repackage"),
		},
	}

	res, err := o.Run(t.Context(), nodes)
	require.NoError(t, err)

	assert.Equal(t, []string{"repackage", "link", "package"}, res.Order)
	assert.Equal(t, []string{"repackage", "link", "package"}, calls)
	for _, name := range res.Order {
		assert.Equal(t, domain.StageStatusCompleted, res.Statuses[name], name)
		assert.True(t, res.Executed[name], name)
	}
}

func TestRun_StalenessPropagatesDownstream(t *testing.T) {
	o, _ := setupOrchestratorTest(t)
	out := filepath.Join(t.TempDir(), "image")
	require.NoError(t, os.MkdirAll(out, 0o750))

	var calls []string
	nodes := []orchestrator.Node{
		{Name: "classify", Units: func() []*domain.Unit { return []*domain.Unit{unit("a", false)} }},
		{
			Name:      "repackage",
			DependsOn: []string{"classify"},
			Units:     func() []*domain.Unit { return []*domain.Unit{unit("a", false), unit("b", true)} },
			Execute:   recorder(&calls, "repackage"),
		},
		{
			Name:      "link",
			DependsOn: []string{"repackage"},
			Outputs:   func() []string { return []string{out} },
			Execute:   recorder(&calls, "link"),
		},
	}

	res, err := o.Run(t.Context(), nodes)
	require.NoError(t, err)

	assert.Equal(t, domain.StageStatusUpToDate, res.Statuses["classify"])
	assert.False(t, res.Executed["classify"])
	assert.Equal(t, []string{"repackage", "link"}, calls)
	assert.Equal(t, 2, res.ExecutedCount())
}

func TestRun_NothingStaleSkipsEverything(t *testing.T) {
	o, _ := setupOrchestratorTest(t)
	out := filepath.Join(t.TempDir(), "out.jar")
	require.NoError(t, os.WriteFile(out, []byte("x"), 0o600))

	executed := false
	exec := func(context.Context, progress.Step) error {
		executed = true
		return nil
	}
	prepared := 0
	prepare := func(context.Context) error {
		prepared++
		return nil
	}

	nodes := []orchestrator.Node{
		{Name: "a", Prepare: prepare, Units: func() []*domain.Unit { return []*domain.Unit{unit("a", false)} }, Execute: exec},
		{Name: "b", Prepare: prepare, DependsOn: []string{"a"}, Outputs: func() []string { return []string{out} }, Execute: exec},
	}

	res, err := o.Run(t.Context(), nodes)
	require.NoError(t, err)

	assert.False(t, executed)
	assert.Equal(t, 2, prepared)
	assert.Zero(t, res.ExecutedCount())
	assert.Equal(t, domain.StageStatusUpToDate, res.Statuses["a"])
	assert.Equal(t, domain.StageStatusUpToDate, res.Statuses["b"])
}

func TestRun_MissingOutputMakesStale(t *testing.T) {
	o, _ := setupOrchestratorTest(t)
	var calls []string

	nodes := []orchestrator.Node{{
		Name:    "archive",
		Outputs: func() []string { return []string{filepath.Join(t.TempDir(), "missing.zip")} },
		Execute: recorder(&calls, "archive"),
	}}

	res, err := o.Run(t.Context(), nodes)
	require.NoError(t, err)
	assert.Equal(t, []string{"archive"}, calls)
	assert.True(t, res.Executed["archive"])
}

func TestRun_FailureAbortsRemaining(t *testing.T) {
	o, _ := setupOrchestratorTest(t)
	cause := errors.New("jlink exited 1")
	var calls []string

	nodes := []orchestrator.Node{
		{Name: "a", Units: func() []*domain.Unit { return []*domain.Unit{unit("a", true)} }, Execute: recorder(&calls, "a")},
		{Name: "b", DependsOn: []string{"a"}, Execute: func(context.Context, progress.Step) error { return cause }},
		{Name: "c", DependsOn: []string{"b"}, Execute: recorder(&calls, "c")},
	}

	res, err := o.Run(t.Context(), nodes)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.ErrorContains(t, err, domain.ErrStageFailed.Error())

	assert.Equal(t, []string{"a"}, calls)
	assert.Equal(t, domain.StageStatusCompleted, res.Statuses["a"])
	assert.Equal(t, domain.StageStatusFailed, res.Statuses["b"])
	assert.Equal(t, domain.StageStatusPending, res.Statuses["c"])
}

func TestRun_PrepareFailure(t *testing.T) {
	o, _ := setupOrchestratorTest(t)
	cause := errors.New("corrupt")

	res, err := o.Run(t.Context(), []orchestrator.Node{{
		Name:    "classify",
		Prepare: func(context.Context) error { return cause },
	}})

	require.ErrorIs(t, err, cause)
	assert.Equal(t, domain.StageStatusFailed, res.Statuses["classify"])
}

func TestRun_GraphErrors(t *testing.T) {
	o, _ := setupOrchestratorTest(t)

	_, err := o.Run(t.Context(), []orchestrator.Node{
		{Name: "a", DependsOn: []string{"b"}},
		{Name: "b", DependsOn: []string{"a"}},
	})
	require.ErrorContains(t, err, domain.ErrCycleDetected.Error())

	_, err = o.Run(t.Context(), []orchestrator.Node{{Name: "a"}, {Name: "a"}})
	require.ErrorContains(t, err, domain.ErrTaskAlreadyExists.Error())

	_, err = o.Run(t.Context(), []orchestrator.Node{{Name: "a", DependsOn: []string{"ghost"}}})
	require.ErrorContains(t, err, domain.ErrMissingDependency.Error())
}

func TestRun_ProgressCompletes(t *testing.T) {
	o, _ := setupOrchestratorTest(t)
	p := progress.New("build", nil)
	o.WithProgress(p)

	nodes := []orchestrator.Node{
		{Name: "a", Weight: 1, Execute: func(_ context.Context, step progress.Step) error {
			for _, s := range step.Split([]float64{1, 1}, []string{"x", "y"}) {
				s.Done()
			}
			return nil
		}, Units: func() []*domain.Unit { return []*domain.Unit{unit("a", true)} }},
		{Name: "b", Weight: 3, DependsOn: []string{"a"}},
	}

	_, err := o.Run(t.Context(), nodes)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p.Ratio(), 1e-9)
}

func TestRun_WritesReport(t *testing.T) {
	o, m := setupOrchestratorTest(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockReportStore(ctrl)
	hasher := mocks.NewMockHasher(ctrl)
	reportPath := filepath.Join(t.TempDir(), "report.json")
	out := filepath.Join(t.TempDir(), "missing")

	o.WithReport(store, hasher, reportPath)

	hasher.EXPECT().ComputeOutputHash([]string{out}).Return("abc", nil)
	store.EXPECT().Put(reportPath, gomock.Any()).DoAndReturn(func(_ string, records []domain.StageRecord) error {
		require.Len(t, records, 2)
		assert.Equal(t, "a", records[0].Stage)
		assert.Equal(t, domain.StageStatusUpToDate, records[0].Status)
		assert.False(t, records[0].Executed)
		assert.Equal(t, "b", records[1].Stage)
		assert.True(t, records[1].Executed)
		assert.Equal(t, "abc", records[1].OutputHash)
		assert.False(t, records[1].Timestamp.IsZero())
		return errors.New("disk full")
	})
	m.logger.EXPECT().Warn(gomock.Any())

	_, err := o.Run(t.Context(), []orchestrator.Node{
		{Name: "a"},
		{Name: "b", DependsOn: []string{"a"}, Outputs: func() []string { return []string{out} }},
	})
	require.NoError(t, err)
}
