// Package store provides task persistence for eureka.
//
// Three backends implement TaskStore: MemoryStore (process memory),
// FileStore (one JSON file per task with atomic writes and file locking)
// and RedisStore (one Redis hash per project). All of them return copies,
// so callers may modify returned tasks freely.
package store

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/mrz1836/eureka/internal/clock"
	"github.com/mrz1836/eureka/internal/constants"
	"github.com/mrz1836/eureka/internal/domain"
	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// validIDRegex matches project and task ids. The leading character rule
// rules out ".", ".." and hidden files.
var validIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// TaskStore defines the interface for task persistence operations.
type TaskStore interface {
	// GetTaskByID retrieves a task.
	// Returns ErrTaskNotFound if the task doesn't exist.
	GetTaskByID(ctx context.Context, projectID, taskID string) (*domain.Task, error)

	// ListTasks returns all tasks of a project sorted by task id.
	// An unknown project has no tasks.
	ListTasks(ctx context.Context, projectID string) ([]*domain.Task, error)

	// SaveTask creates or replaces a task. It stamps SchemaVersion,
	// UpdatedAt and, when unset, CreatedAt on the given task.
	SaveTask(ctx context.Context, task *domain.Task) error

	// DeleteTask removes a task.
	// Returns ErrTaskNotFound if the task doesn't exist.
	DeleteTask(ctx context.Context, projectID, taskID string) error

	// Close releases backend resources.
	Close() error
}

// ValidateID checks a project or task id. kind names the id in the error.
func ValidateID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s %w", kind, eurekaerrors.ErrEmptyValue)
	}
	if !validIDRegex.MatchString(id) {
		return fmt.Errorf("%w: %s %q must start with a letter or digit and contain only letters, digits, '.', '_' or '-'",
			eurekaerrors.ErrInvalidID, kind, id)
	}
	return nil
}

// validateTask checks every id a task carries before it is written.
func validateTask(task *domain.Task) error {
	if task == nil {
		return fmt.Errorf("task %w", eurekaerrors.ErrEmptyValue)
	}
	if err := ValidateID("project id", task.ProjectID); err != nil {
		return err
	}
	if err := ValidateID("task id", task.TaskID); err != nil {
		return err
	}
	for _, dep := range task.DependingOnTasks {
		if err := ValidateID("dependency id", dep); err != nil {
			return err
		}
	}
	return nil
}

// stamp sets the bookkeeping fields of a task about to be saved.
func stamp(task *domain.Task, now time.Time) {
	task.SchemaVersion = constants.TaskSchemaVersion
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now
}

// sortTasks orders tasks by id.
func sortTasks(tasks []*domain.Task) {
	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		return strings.Compare(a.TaskID, b.TaskID)
	})
}

func checkCtx(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// Option configures a store.
type Option func(*settings)

type settings struct {
	clock       clock.Clock
	lockTimeout time.Duration
}

func newSettings(opts []Option) settings {
	s := settings{
		clock:       clock.RealClock{},
		lockTimeout: constants.DefaultLockTimeout,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithClock sets the clock used to stamp saved tasks.
func WithClock(c clock.Clock) Option {
	return func(s *settings) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLockTimeout sets how long FileStore waits for a task lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}
