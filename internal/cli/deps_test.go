package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/eureka/internal/errors"
)

// seedChain stores a -> b -> c in project app.
func seedChain(env *testEnv) {
	env.mustRun("task", "put", "app", "c", "--title", "C")
	env.mustRun("task", "put", "app", "b", "--title", "B", "--depends-on", "c")
	env.mustRun("task", "put", "app", "a", "--title", "A", "--depends-on", "b")
}

func TestDepsCheck(t *testing.T) {
	env := newTestEnv(t)
	seedChain(env)

	out := env.mustRun("deps", "check", "app", "a", "c")
	assert.Contains(t, out, "'a' can depend on c without a cycle")

	out, err := env.run("deps", "check", "app", "c", "a")
	require.ErrorIs(t, err, errors.ErrDependencyCycle)
	assert.Equal(t, ExitError, ExitCodeForError(err))
	assert.Contains(t, out, "Cycle: c → a → b → c")
}

func TestDepsCheck_JSON(t *testing.T) {
	env := newTestEnv(t)
	seedChain(env)

	out, err := env.run("deps", "check", "app", "c", "x", "a", "-o", "json")
	require.ErrorIs(t, err, errors.ErrDependencyCycle)

	var result struct {
		Dependency string   `json:"dependency"`
		Cycle      bool     `json:"cycle"`
		Path       []string `json:"path"`
	}
	require.NoError(t, json.Unmarshal([]byte(firstJSONValue(t, out)), &result))
	assert.True(t, result.Cycle)
	assert.Equal(t, "a", result.Dependency)
	assert.Equal(t, []string{"c", "a", "b", "c"}, result.Path)
}

func TestDepsCheck_MissingTasksAreDeadEnds(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("deps", "check", "app", "ghost", "phantom")
	assert.Contains(t, out, "without a cycle")
}

func TestDepsAdd(t *testing.T) {
	env := newTestEnv(t)
	seedChain(env)

	out := env.mustRun("deps", "add", "app", "a", "c", "b")
	assert.Contains(t, out, "'a' now depends on b, c")
	assert.Equal(t, []string{"b", "c"}, getTask(t, env, "app", "a").DependingOnTasks)
}

func TestDepsAdd_RejectsCycleAndWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	seedChain(env)
	env.mustRun("task", "put", "app", "d", "--title", "D")

	_, err := env.run("deps", "add", "app", "c", "d", "a")
	require.ErrorIs(t, err, errors.ErrDependencyCycle)
	assert.Empty(t, getTask(t, env, "app", "c").DependingOnTasks)
}

func TestDepsAdd_UnknownTasks(t *testing.T) {
	env := newTestEnv(t)
	seedChain(env)

	_, err := env.run("deps", "add", "app", "a", "missing")
	require.ErrorIs(t, err, errors.ErrTaskNotFound)

	_, err = env.run("deps", "add", "app", "missing", "a")
	require.ErrorIs(t, err, errors.ErrTaskNotFound)
}

func TestDepsRemove(t *testing.T) {
	env := newTestEnv(t)
	seedChain(env)

	out := env.mustRun("deps", "remove", "app", "a", "b")
	assert.Contains(t, out, "'a' no longer depends on 'b'")
	assert.Empty(t, getTask(t, env, "app", "a").DependingOnTasks)

	// Removing an edge that is not there is a no-op.
	env.mustRun("deps", "rm", "app", "a", "b")

	// With the edge gone c may depend on a.
	env.mustRun("deps", "add", "app", "c", "a")
}

func TestDepsPath(t *testing.T) {
	env := newTestEnv(t)
	seedChain(env)

	out := env.mustRun("deps", "path", "app", "c", "a")
	assert.Contains(t, out, "Cycle: c → a → b → c")

	out = env.mustRun("deps", "path", "app", "a", "c")
	assert.Contains(t, out, "No cycle: 'a' can depend on 'c'")

	out = env.mustRun("deps", "path", "app", "a", "c", "-o", "json")
	assert.JSONEq(t, `{"task_id":"a","dependency":"c","cycle":false,"path":[]}`, out)
}

func TestDeps_WithSnapshot(t *testing.T) {
	env := newTestEnv(t, "dependencies:\n  snapshot: true\n")
	seedChain(env)

	_, err := env.run("deps", "check", "app", "c", "a", "--verbose")
	require.ErrorIs(t, err, errors.ErrDependencyCycle)

	env.mustRun("deps", "check", "app", "a", "c")
}

// firstJSONValue returns the leading JSON document of out, dropping the
// error line cobra appends.
func firstJSONValue(t *testing.T, out string) string {
	t.Helper()

	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(strings.NewReader(out)).Decode(&raw))
	return string(raw)
}
