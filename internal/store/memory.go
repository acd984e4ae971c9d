package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/mrz1836/eureka/internal/domain"
	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// MemoryStore keeps tasks in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]map[string]*domain.Task
	settings settings
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]map[string]*domain.Task),
		settings: newSettings(opts),
	}
}

// GetTaskByID returns a copy of the stored task.
func (s *MemoryStore) GetTaskByID(ctx context.Context, projectID, taskID string) (*domain.Task, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.projects[projectID][taskID]
	if !ok {
		return nil, fmt.Errorf("failed to get task '%s': %w", taskID, eurekaerrors.ErrTaskNotFound)
	}
	return task.Clone(), nil
}

// ListTasks returns copies of all tasks in the project, sorted by id.
func (s *MemoryStore) ListTasks(ctx context.Context, projectID string) ([]*domain.Task, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*domain.Task, 0, len(s.projects[projectID]))
	for _, task := range s.projects[projectID] {
		tasks = append(tasks, task.Clone())
	}
	sortTasks(tasks)
	return tasks, nil
}

// SaveTask stores a copy of task.
func (s *MemoryStore) SaveTask(ctx context.Context, task *domain.Task) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if err := validateTask(task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(task, s.settings.clock.Now())

	tasks, ok := s.projects[task.ProjectID]
	if !ok {
		tasks = make(map[string]*domain.Task)
		s.projects[task.ProjectID] = tasks
	}
	tasks[task.TaskID] = task.Clone()
	return nil
}

// DeleteTask removes a task.
func (s *MemoryStore) DeleteTask(ctx context.Context, projectID, taskID string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.projects[projectID]
	if _, ok := tasks[taskID]; !ok {
		return fmt.Errorf("failed to delete task '%s': %w", taskID, eurekaerrors.ErrTaskNotFound)
	}
	delete(tasks, taskID)
	if len(tasks) == 0 {
		delete(s.projects, projectID)
	}
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

var _ TaskStore = (*MemoryStore)(nil)
