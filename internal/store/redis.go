package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/mrz1836/eureka/internal/constants"
	"github.com/mrz1836/eureka/internal/domain"
	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// RedisStore keeps each project's tasks in one Redis hash:
//
//	eureka:project:<project>:tasks  field=<task id>  value=<task JSON>
type RedisStore struct {
	pool     *redis.Pool
	settings settings
}

// NewRedisStore creates a store backed by a connection pool dialing url
// (redis://[user:password@]host:port[/db]). No connection is made until
// the first command.
func NewRedisStore(url string, maxIdle int, idleTimeout time.Duration, opts ...Option) *RedisStore {
	if maxIdle <= 0 {
		maxIdle = constants.DefaultRedisMaxIdle
	}
	if idleTimeout <= 0 {
		idleTimeout = constants.DefaultRedisIdleTimeout
	}

	pool := &redis.Pool{
		MaxIdle:     maxIdle,
		IdleTimeout: idleTimeout,
		Dial: func() (redis.Conn, error) {
			return redis.DialURL(url)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
	return &RedisStore{pool: pool, settings: newSettings(opts)}
}

func projectKey(projectID string) string {
	return fmt.Sprintf("%s:project:%s:tasks", constants.RedisKeyPrefix, projectID)
}

// do runs one command on a pooled connection.
func (s *RedisStore) do(ctx context.Context, cmd string, args ...any) (any, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", eurekaerrors.ErrStoreUnavailable, err)
	}
	defer func() { _ = conn.Close() }()

	reply, err := redis.DoContext(conn, ctx, cmd, args...)
	if err != nil && !errors.Is(err, redis.ErrNil) && ctx.Err() == nil {
		var redisErr redis.Error
		if !errors.As(err, &redisErr) {
			return nil, fmt.Errorf("%w: %w", eurekaerrors.ErrStoreUnavailable, err)
		}
	}
	return reply, err
}

// Ping checks the server is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	_, err := s.do(ctx, "PING")
	return err
}

// GetTaskByID reads one hash field.
func (s *RedisStore) GetTaskByID(ctx context.Context, projectID, taskID string) (*domain.Task, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	data, err := redis.Bytes(s.do(ctx, "HGET", projectKey(projectID), taskID))
	if errors.Is(err, redis.ErrNil) {
		return nil, fmt.Errorf("failed to get task '%s': %w", taskID, eurekaerrors.ErrTaskNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task '%s': %w", taskID, err)
	}

	var task domain.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to parse task '%s': %w", taskID, err)
	}
	return &task, nil
}

// ListTasks reads every value of the project hash.
func (s *RedisStore) ListTasks(ctx context.Context, projectID string) ([]*domain.Task, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	values, err := redis.ByteSlices(s.do(ctx, "HVALS", projectKey(projectID)))
	if err != nil && !errors.Is(err, redis.ErrNil) {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(values))
	for _, data := range values {
		var task domain.Task
		if err := json.Unmarshal(data, &task); err != nil {
			return nil, fmt.Errorf("failed to parse task in project '%s': %w", projectID, err)
		}
		tasks = append(tasks, &task)
	}
	sortTasks(tasks)
	return tasks, nil
}

// SaveTask sets the task's hash field.
func (s *RedisStore) SaveTask(ctx context.Context, task *domain.Task) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if err := validateTask(task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	stamp(task, s.settings.clock.Now())

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to save task '%s': %w", task.TaskID, err)
	}
	if _, err := s.do(ctx, "HSET", projectKey(task.ProjectID), task.TaskID, data); err != nil {
		return fmt.Errorf("failed to save task '%s': %w", task.TaskID, err)
	}
	return nil
}

// DeleteTask removes the task's hash field.
func (s *RedisStore) DeleteTask(ctx context.Context, projectID, taskID string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}

	removed, err := redis.Int(s.do(ctx, "HDEL", projectKey(projectID), taskID))
	if err != nil {
		return fmt.Errorf("failed to delete task '%s': %w", taskID, err)
	}
	if removed == 0 {
		return fmt.Errorf("failed to delete task '%s': %w", taskID, eurekaerrors.ErrTaskNotFound)
	}
	return nil
}

// Close closes the connection pool.
func (s *RedisStore) Close() error {
	return s.pool.Close()
}

var _ TaskStore = (*RedisStore)(nil)
