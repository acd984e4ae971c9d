package dependency

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/mrz1836/eureka/internal/domain"
	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// Store is the task persistence the Service writes through.
type Store interface {
	TaskReader
	TaskLister
	SaveTask(ctx context.Context, task *domain.Task) error
}

// Service applies dependency edits to stored tasks, refusing any edit that
// would introduce a cycle. Nothing is written when a check fails.
type Service struct {
	store       Store
	metrics     *Metrics
	useSnapshot bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMetrics records checks, lookups and rejections on m.
func WithMetrics(m *Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithSnapshot makes each check load the whole project once and walk it in
// memory instead of reading one task per visited node.
func WithSnapshot(enabled bool) ServiceOption {
	return func(s *Service) {
		s.useSnapshot = enabled
	}
}

// NewService creates a Service over store.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// reader returns the TaskReader checks for projectID should walk.
func (s *Service) reader(ctx context.Context, projectID string) (TaskReader, error) {
	var repo TaskReader = s.store
	if s.useSnapshot {
		snap, err := NewSnapshot(ctx, projectID, s.store)
		if err != nil {
			return nil, err
		}
		repo = snap
	}
	return s.metrics.wrap(repo), nil
}

// Check reports whether taskID may depend on every id in depIDs. It fails
// with a *CycleError naming the first dependency that would close a cycle.
func (s *Service) Check(ctx context.Context, projectID, taskID string, depIDs ...string) error {
	repo, err := s.reader(ctx, projectID)
	if err != nil {
		s.metrics.observeCheck(err, false)
		return err
	}

	err = ValidateNoCycles(ctx, taskID, depIDs, projectID, repo)
	s.metrics.observeCheck(err, errors.Is(err, eurekaerrors.ErrDependencyCycle))
	return err
}

// CyclePath returns the cycle adding depID to taskID would close, or nil.
func (s *Service) CyclePath(ctx context.Context, projectID, taskID, depID string) ([]string, error) {
	repo, err := s.reader(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return FindCyclePath(ctx, taskID, depID, projectID, repo)
}

// AddDependencies adds edges from taskID to each of depIDs and saves the
// task. The task and every dependency must exist; edges already present are
// skipped. The updated task is returned.
func (s *Service) AddDependencies(ctx context.Context, projectID, taskID string, depIDs ...string) (*domain.Task, error) {
	task, err := s.store.GetTaskByID(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	var added []string
	for _, dep := range depIDs {
		if task.DependsOn(dep) || slices.Contains(added, dep) {
			continue
		}
		if dep != taskID {
			if _, err := s.store.GetTaskByID(ctx, projectID, dep); err != nil {
				return nil, fmt.Errorf("dependency '%s': %w", dep, err)
			}
		}
		added = append(added, dep)
	}
	if len(added) == 0 {
		return task, nil
	}

	if err := s.Check(ctx, projectID, taskID, added...); err != nil {
		if errors.Is(err, eurekaerrors.ErrDependencyCycle) {
			s.metrics.observeRejection()
		}
		return nil, err
	}

	task.DependingOnTasks = append(task.DependingOnTasks, added...)
	if err := s.store.SaveTask(ctx, task); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("project_id", projectID).
		Str("task_id", taskID).
		Strs("added", added).
		Msg("dependencies added")
	return task, nil
}

// RemoveDependency drops the edge from taskID to depID and saves the task.
// Removing an edge that is not there changes nothing.
func (s *Service) RemoveDependency(ctx context.Context, projectID, taskID, depID string) (*domain.Task, error) {
	task, err := s.store.GetTaskByID(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if !task.DependsOn(depID) {
		return task, nil
	}

	task.DependingOnTasks = slices.DeleteFunc(task.DependingOnTasks, func(id string) bool { return id == depID })
	if err := s.store.SaveTask(ctx, task); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("project_id", projectID).
		Str("task_id", taskID).
		Str("removed", depID).
		Msg("dependency removed")
	return task, nil
}

// SaveTask creates or replaces task. Dependencies the stored version does
// not have yet are checked for cycles first; duplicates are dropped.
func (s *Service) SaveTask(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return fmt.Errorf("task %w", eurekaerrors.ErrEmptyValue)
	}
	task.DependingOnTasks = dedupe(task.DependingOnTasks)

	var existing []string
	stored, err := s.store.GetTaskByID(ctx, task.ProjectID, task.TaskID)
	switch {
	case err == nil:
		existing = stored.DependingOnTasks
		if task.CreatedAt.IsZero() {
			task.CreatedAt = stored.CreatedAt
		}
	case !errors.Is(err, eurekaerrors.ErrTaskNotFound):
		return err
	}

	var added []string
	for _, dep := range task.DependingOnTasks {
		if !slices.Contains(existing, dep) {
			added = append(added, dep)
		}
	}

	if len(added) > 0 {
		if err := s.Check(ctx, task.ProjectID, task.TaskID, added...); err != nil {
			if errors.Is(err, eurekaerrors.ErrDependencyCycle) {
				s.metrics.observeRejection()
			}
			return err
		}
	}

	return s.store.SaveTask(ctx, task)
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return ids
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
