package dependency

import (
	"context"
	"fmt"

	"github.com/mrz1836/eureka/internal/domain"
	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// TaskLister lists every task of a project.
type TaskLister interface {
	ListTasks(ctx context.Context, projectID string) ([]*domain.Task, error)
}

// Snapshot is an in-memory TaskReader over one project's tasks, loaded once.
// Checks against a Snapshot give the same answers as checks against the
// store it was loaded from, as long as the store does not change meanwhile.
type Snapshot struct {
	projectID string
	tasks     map[string]*domain.Task
}

// NewSnapshot loads all tasks of projectID.
func NewSnapshot(ctx context.Context, projectID string, lister TaskLister) (*Snapshot, error) {
	tasks, err := lister.ListTasks(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dependency snapshot for project '%s': %w", projectID, err)
	}

	s := &Snapshot{
		projectID: projectID,
		tasks:     make(map[string]*domain.Task, len(tasks)),
	}
	for _, task := range tasks {
		s.tasks[task.TaskID] = task.Clone()
	}
	return s, nil
}

// GetTaskByID returns a copy of a task in the snapshot.
func (s *Snapshot) GetTaskByID(_ context.Context, projectID, taskID string) (*domain.Task, error) {
	task, ok := s.tasks[taskID]
	if projectID != s.projectID || !ok {
		return nil, fmt.Errorf("failed to get task '%s': %w", taskID, eurekaerrors.ErrTaskNotFound)
	}
	return task.Clone(), nil
}

// Len returns the number of tasks in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.tasks)
}

var _ TaskReader = (*Snapshot)(nil)
