// Package dependency guards the "depends-on" graph between tasks of a project
// against cycles.
//
// The graph is never materialized: the detector walks it on demand, reading
// one task per visited node through a TaskReader. Snapshot offers an
// in-memory TaskReader for a whole project when many checks run in a row.
package dependency

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/eureka/internal/domain"
	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// TaskReader looks up a single task. A task that does not exist is reported
// as an error wrapping ErrTaskNotFound.
type TaskReader interface {
	GetTaskByID(ctx context.Context, projectID, taskID string) (*domain.Task, error)
}

// CycleError reports that adding DependencyID to TaskID would close a cycle.
type CycleError struct {
	TaskID       string
	DependencyID string

	// Path is the cycle the new edge would close, starting and ending at TaskID.
	Path []string
}

// Error names the offending dependency.
func (e *CycleError) Error() string {
	msg := fmt.Sprintf("%s: task '%s' cannot depend on '%s'", eurekaerrors.ErrDependencyCycle, e.TaskID, e.DependencyID)
	if len(e.Path) > 0 {
		msg += " (" + strings.Join(e.Path, " -> ") + ")"
	}
	return msg
}

// Unwrap lets callers match ErrDependencyCycle with errors.Is.
func (e *CycleError) Unwrap() error {
	return eurekaerrors.ErrDependencyCycle
}

// WouldCreateCycle reports whether making taskID depend on dependencyTaskID
// would introduce a cycle. A task depending on itself is always a cycle.
//
// Tasks that cannot be read, including ones that do not exist, are treated
// as having no dependencies. The only error returned is the context's.
func WouldCreateCycle(ctx context.Context, taskID, dependencyTaskID, projectID string, repo TaskReader) (bool, error) {
	path, err := FindCyclePath(ctx, taskID, dependencyTaskID, projectID, repo)
	if err != nil {
		return false, err
	}
	return path != nil, nil
}

// FindCyclePath walks the graph like WouldCreateCycle and returns the cycle
// the new edge would close, as taskID, dependencyTaskID, ..., taskID. It
// returns nil when there is no cycle.
func FindCyclePath(ctx context.Context, taskID, dependencyTaskID, projectID string, repo TaskReader) ([]string, error) {
	if taskID == dependencyTaskID {
		return []string{taskID, taskID}, nil
	}

	logger := zerolog.Ctx(ctx)
	visited := make(map[string]struct{})
	parent := make(map[string]string)
	stack := []string{dependencyTaskID}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}

		task, err := repo.GetTaskByID(ctx, projectID, current)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Debug().Err(err).
				Str("project_id", projectID).
				Str("task_id", current).
				Msg("dependency lookup failed, treating task as having no dependencies")
			continue
		}
		if task == nil {
			continue
		}

		// Push in reverse so dependencies are explored in their listed order.
		deps := task.DependingOnTasks
		for i := len(deps) - 1; i >= 0; i-- {
			next := deps[i]
			if next == taskID {
				return buildPath(parent, taskID, dependencyTaskID, current), nil
			}
			if _, seen := visited[next]; seen {
				continue
			}
			if _, ok := parent[next]; !ok {
				parent[next] = current
			}
			stack = append(stack, next)
		}
	}

	return nil, nil
}

// buildPath follows parent links from last back to the dependency and
// frames the result with taskID on both ends.
func buildPath(parent map[string]string, taskID, dependencyTaskID, last string) []string {
	chain := []string{last}
	for node := last; node != dependencyTaskID; {
		node = parent[node]
		chain = append(chain, node)
	}
	slices.Reverse(chain)

	path := make([]string, 0, len(chain)+2)
	path = append(path, taskID)
	path = append(path, chain...)
	return append(path, taskID)
}

// ValidateNoCycles checks each candidate dependency in order and fails with
// a *CycleError for the first one that would create a cycle.
func ValidateNoCycles(ctx context.Context, taskID string, dependencyTaskIDs []string, projectID string, repo TaskReader) error {
	for _, dep := range dependencyTaskIDs {
		path, err := FindCyclePath(ctx, taskID, dep, projectID, repo)
		if err != nil {
			return err
		}
		if path != nil {
			return &CycleError{TaskID: taskID, DependencyID: dep, Path: path}
		}
	}
	return nil
}
