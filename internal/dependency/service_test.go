package dependency

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/eureka/internal/domain"
	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
	"github.com/mrz1836/eureka/internal/store"
	eurekatest "github.com/mrz1836/eureka/internal/testutil"
)

const project = "app"

// seed saves tasks with the given depends-on edges.
func seed(t *testing.T, s store.TaskStore, edges map[string][]string) {
	t.Helper()
	for id, deps := range edges {
		require.NoError(t, s.SaveTask(context.Background(), &domain.Task{
			TaskID:           id,
			ProjectID:        project,
			DependingOnTasks: deps,
		}))
	}
}

func newTestService(t *testing.T, opts ...ServiceOption) (*Service, *store.MemoryStore, *Metrics) {
	t.Helper()
	mem := store.NewMemoryStore()
	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	return NewService(mem, append([]ServiceOption{WithMetrics(metrics)}, opts...)...), mem, metrics
}

func TestService_AddDependencies(t *testing.T) {
	svc, mem, metrics := newTestService(t)
	seed(t, mem, map[string][]string{"t1": nil, "t2": {"t3"}, "t3": nil})
	ctx := context.Background()

	task, err := svc.AddDependencies(ctx, project, "t1", "t2", "t3", "t2")
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "t3"}, task.DependingOnTasks)

	stored, err := mem.GetTaskByID(ctx, project, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "t3"}, stored.DependingOnTasks)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.checks.WithLabelValues(resultOK)), 0)
	assert.Positive(t, testutil.ToFloat64(metrics.lookups))

	t.Run("already present is a no-op", func(t *testing.T) {
		task, err := svc.AddDependencies(ctx, project, "t1", "t3")
		require.NoError(t, err)
		assert.Equal(t, []string{"t2", "t3"}, task.DependingOnTasks)
	})
}

func TestService_AddDependencies_RejectsCycle(t *testing.T) {
	svc, mem, metrics := newTestService(t)
	seed(t, mem, map[string][]string{"t1": nil, "t2": {"t3"}, "t3": {"t1"}})
	ctx := context.Background()

	_, err := svc.AddDependencies(ctx, project, "t1", "t2")
	require.ErrorIs(t, err, eurekaerrors.ErrDependencyCycle)
	assert.Contains(t, err.Error(), "'t2'")

	stored, err := mem.GetTaskByID(ctx, project, "t1")
	require.NoError(t, err)
	assert.Empty(t, stored.DependingOnTasks, "nothing is written on a cycle")

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.checks.WithLabelValues(resultCycle)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.rejections), 0)
}

func TestService_AddDependencies_SelfDependency(t *testing.T) {
	svc, mem, _ := newTestService(t)
	seed(t, mem, map[string][]string{"t1": nil})

	_, err := svc.AddDependencies(context.Background(), project, "t1", "t1")
	require.ErrorIs(t, err, eurekaerrors.ErrDependencyCycle)
}

func TestService_AddDependencies_UnknownTasks(t *testing.T) {
	svc, mem, _ := newTestService(t)
	seed(t, mem, map[string][]string{"t1": nil})
	ctx := context.Background()

	_, err := svc.AddDependencies(ctx, project, "missing", "t1")
	require.ErrorIs(t, err, eurekaerrors.ErrTaskNotFound)

	_, err = svc.AddDependencies(ctx, project, "t1", "ghost")
	require.ErrorIs(t, err, eurekaerrors.ErrTaskNotFound)
	assert.Contains(t, err.Error(), "dependency 'ghost'")
}

func TestService_RemoveDependency(t *testing.T) {
	svc, mem, _ := newTestService(t)
	seed(t, mem, map[string][]string{"t1": {"t2", "t3"}, "t2": nil, "t3": nil})
	ctx := context.Background()

	task, err := svc.RemoveDependency(ctx, project, "t1", "t2")
	require.NoError(t, err)
	assert.Equal(t, []string{"t3"}, task.DependingOnTasks)

	task, err = svc.RemoveDependency(ctx, project, "t1", "t9")
	require.NoError(t, err)
	assert.Equal(t, []string{"t3"}, task.DependingOnTasks)

	_, err = svc.RemoveDependency(ctx, project, "missing", "t1")
	require.ErrorIs(t, err, eurekaerrors.ErrTaskNotFound)
}

func TestService_SaveTask(t *testing.T) {
	svc, mem, metrics := newTestService(t)
	seed(t, mem, map[string][]string{"t2": {"t1"}})
	ctx := context.Background()

	t.Run("new task without cycle", func(t *testing.T) {
		task := &domain.Task{TaskID: "t3", ProjectID: project, DependingOnTasks: []string{"t2", "t2"}}
		require.NoError(t, svc.SaveTask(ctx, task))
		assert.Equal(t, []string{"t2"}, task.DependingOnTasks)
	})

	t.Run("new edge closing a cycle", func(t *testing.T) {
		err := svc.SaveTask(ctx, &domain.Task{TaskID: "t1", ProjectID: project, DependingOnTasks: []string{"t3"}})
		require.ErrorIs(t, err, eurekaerrors.ErrDependencyCycle)

		_, err = mem.GetTaskByID(ctx, project, "t1")
		require.ErrorIs(t, err, eurekaerrors.ErrTaskNotFound)
		assert.InDelta(t, 1, testutil.ToFloat64(metrics.rejections), 0)
	})

	t.Run("existing edges are not rechecked", func(t *testing.T) {
		stored, err := mem.GetTaskByID(ctx, project, "t2")
		require.NoError(t, err)

		before := testutil.ToFloat64(metrics.checks.WithLabelValues(resultOK))
		stored.Title = "renamed"
		require.NoError(t, svc.SaveTask(ctx, stored))
		assert.InDelta(t, before, testutil.ToFloat64(metrics.checks.WithLabelValues(resultOK)), 0)
	})

	t.Run("nil task", func(t *testing.T) {
		require.ErrorIs(t, svc.SaveTask(ctx, nil), eurekaerrors.ErrEmptyValue)
	})
}

func TestService_SnapshotMatchesStore(t *testing.T) {
	edges := map[string][]string{
		"t1": nil,
		"t2": {"t3"},
		"t3": {"t4", "t5"},
		"t4": nil,
		"t5": {"t1"},
		"t6": {"t6"},
	}

	direct, mem, _ := newTestService(t)
	seed(t, mem, edges)
	snapshot := NewService(mem, WithSnapshot(true))
	ctx := context.Background()

	for from := range edges {
		for to := range edges {
			a, errA := direct.CyclePath(ctx, project, from, to)
			b, errB := snapshot.CyclePath(ctx, project, from, to)
			require.NoError(t, errA)
			require.NoError(t, errB)
			assert.Equal(t, a != nil, b != nil, "%s -> %s", from, to)
		}
	}
}

type failingLister struct{ store.TaskStore }

func (failingLister) ListTasks(context.Context, string) ([]*domain.Task, error) {
	return nil, eurekatest.ErrMockDiskFailure
}

func TestService_SnapshotLoadFailure(t *testing.T) {
	metrics, err := NewMetrics(nil)
	require.NoError(t, err)
	svc := NewService(failingLister{store.NewMemoryStore()}, WithSnapshot(true), WithMetrics(metrics))

	err = svc.Check(context.Background(), project, "t1", "t2")
	require.Error(t, err)
	require.ErrorIs(t, err, eurekatest.ErrMockDiskFailure)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.checks.WithLabelValues(resultError)), 0)
}

func TestSnapshot(t *testing.T) {
	mem := store.NewMemoryStore()
	seed(t, mem, map[string][]string{"t1": {"t2"}, "t2": nil})

	snap, err := NewSnapshot(context.Background(), project, mem)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())

	task, err := snap.GetTaskByID(context.Background(), project, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, task.DependingOnTasks)

	task.DependingOnTasks[0] = "changed"
	again, err := snap.GetTaskByID(context.Background(), project, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, again.DependingOnTasks)

	_, err = snap.GetTaskByID(context.Background(), "other", "t1")
	require.ErrorIs(t, err, eurekaerrors.ErrTaskNotFound)
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	require.Error(t, err)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.observeCheck(nil, false)
	m.observeRejection()
	assert.NotNil(t, m.wrap(newFakeRepo(nil)))
}
