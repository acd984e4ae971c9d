package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/eureka/internal/constants"
	"github.com/mrz1836/eureka/internal/domain"
	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
	"github.com/mrz1836/eureka/internal/flock"
)

// Directory and file permission constants.
const (
	dirPerm  = 0o750 // Secure directory permissions
	filePerm = 0o600 // Secure file permissions
)

// listConcurrency bounds the number of task files ListTasks reads at once.
const listConcurrency = 8

// FileStore implements TaskStore using the local filesystem.
//
// Layout:
//
//	<root>/projects/<project>/tasks/<task>.json
//	<root>/projects/<project>/tasks/<task>.lock
type FileStore struct {
	root     string // Usually ~/.eureka
	settings settings
}

// NewFileStore creates a new FileStore rooted at root.
// If root is empty, uses the default ~/.eureka directory.
func NewFileStore(root string, opts ...Option) (*FileStore, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, constants.EurekaHome)
	}
	return &FileStore{root: root, settings: newSettings(opts)}, nil
}

// Root returns the store root directory.
func (s *FileStore) Root() string {
	return s.root
}

// GetTaskByID reads a task file under its lock.
func (s *FileStore) GetTaskByID(ctx context.Context, projectID, taskID string) (*domain.Task, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	if err := ValidateID("project id", projectID); err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if err := ValidateID("task id", taskID); err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	taskFile := s.taskFilePath(projectID, taskID)
	if _, err := os.Stat(taskFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to get task '%s': %w", taskID, eurekaerrors.ErrTaskNotFound)
	}

	lock, err := flock.Acquire(ctx, s.lockFilePath(projectID, taskID), s.settings.lockTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to get task '%s': %w", taskID, err)
	}
	defer func() { _ = lock.Release() }()

	data, err := os.ReadFile(taskFile) //#nosec G304 -- path is validated and constructed from trusted base
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to get task '%s': %w", taskID, eurekaerrors.ErrTaskNotFound)
		}
		return nil, fmt.Errorf("failed to read task '%s': %w", taskID, err)
	}

	var task domain.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to parse task '%s': corrupted task file: %w", taskID, err)
	}
	return &task, nil
}

// ListTasks reads every task file of the project concurrently. Files that
// vanish or fail to parse are skipped with a warning.
func (s *FileStore) ListTasks(ctx context.Context, projectID string) ([]*domain.Task, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	if err := ValidateID("project id", projectID); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	entries, err := os.ReadDir(s.tasksDir(projectID))
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Task{}, nil
		}
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, constants.TaskFileExt) {
			continue
		}
		id := strings.TrimSuffix(name, constants.TaskFileExt)
		if ValidateID("task id", id) != nil {
			continue
		}
		ids = append(ids, id)
	}

	logger := zerolog.Ctx(ctx)
	results := make([]*domain.Task, len(ids))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			task, err := s.GetTaskByID(gCtx, projectID, id)
			switch {
			case err == nil:
				results[i] = task
				return nil
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			default:
				logger.Warn().Err(err).Str("project_id", projectID).Str("task_id", id).Msg("skipping unreadable task file")
				return nil
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(results))
	for _, task := range results {
		if task != nil {
			tasks = append(tasks, task)
		}
	}
	sortTasks(tasks)
	return tasks, nil
}

// SaveTask writes the task file atomically under its lock.
func (s *FileStore) SaveTask(ctx context.Context, task *domain.Task) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if err := validateTask(task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	if err := os.MkdirAll(s.tasksDir(task.ProjectID), dirPerm); err != nil {
		return fmt.Errorf("failed to create tasks directory: %w", err)
	}

	lock, err := flock.Acquire(ctx, s.lockFilePath(task.ProjectID, task.TaskID), s.settings.lockTimeout)
	if err != nil {
		return fmt.Errorf("failed to save task '%s': %w", task.TaskID, err)
	}
	defer func() { _ = lock.Release() }()

	stamp(task, s.settings.clock.Now())

	data, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to save task '%s': %w", task.TaskID, err)
	}

	if err := atomicWrite(s.taskFilePath(task.ProjectID, task.TaskID), data); err != nil {
		return fmt.Errorf("failed to save task '%s': %w", task.TaskID, err)
	}
	return nil
}

// DeleteTask removes the task file and its lock file.
func (s *FileStore) DeleteTask(ctx context.Context, projectID, taskID string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if err := ValidateID("project id", projectID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if err := ValidateID("task id", taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	taskFile := s.taskFilePath(projectID, taskID)
	if _, err := os.Stat(taskFile); os.IsNotExist(err) {
		return fmt.Errorf("failed to delete task '%s': %w", taskID, eurekaerrors.ErrTaskNotFound)
	}

	lockPath := s.lockFilePath(projectID, taskID)
	lock, err := flock.Acquire(ctx, lockPath, s.settings.lockTimeout)
	if err != nil {
		return fmt.Errorf("failed to delete task '%s': %w", taskID, err)
	}

	removeErr := os.Remove(taskFile)
	_ = lock.Release()
	_ = os.Remove(lockPath)

	if removeErr != nil {
		return fmt.Errorf("failed to delete task '%s': %w", taskID, removeErr)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) tasksDir(projectID string) string {
	return filepath.Join(s.root, constants.ProjectsDir, projectID, constants.TasksDir)
}

func (s *FileStore) taskFilePath(projectID, taskID string) string {
	return filepath.Join(s.tasksDir(projectID), taskID+constants.TaskFileExt)
}

func (s *FileStore) lockFilePath(projectID, taskID string) string {
	return filepath.Join(s.tasksDir(projectID), taskID+constants.LockFileExt)
}

// atomicWrite writes data to a file atomically using write-then-rename.
// Uses filePerm (0o600) for secure file permissions.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	// Sync to disk (ensure data is persisted before rename)
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}

var _ TaskStore = (*FileStore)(nil)
