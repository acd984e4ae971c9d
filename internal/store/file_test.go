package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/eureka/internal/domain"
)

func TestFileStore_Layout(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileStore(root)
	require.NoError(t, err)
	assert.Equal(t, root, s.Root())

	require.NoError(t, s.SaveTask(context.Background(), &domain.Task{TaskID: "t1", ProjectID: "app"}))

	path := filepath.Join(root, "projects", "app", "tasks", "t1.json")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must not survive a write")
}

func TestFileStore_ListSkipsCorruptFiles(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileStore(root)
	require.NoError(t, err)

	var logs bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())

	require.NoError(t, s.SaveTask(ctx, &domain.Task{TaskID: "good", ProjectID: "app"}))

	dir := filepath.Join(root, "projects", "app", "tasks")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.json"), 0o750))

	tasks, err := s.ListTasks(ctx, "app")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "good", tasks[0].TaskID)
	assert.Contains(t, logs.String(), "skipping unreadable task file")
	assert.Contains(t, logs.String(), `"task_id":"broken"`)
}

func TestFileStore_ListManyTasks(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	for _, id := range ids {
		require.NoError(t, s.SaveTask(ctx, &domain.Task{TaskID: id, ProjectID: "app"}))
	}

	tasks, err := s.ListTasks(ctx, "app")
	require.NoError(t, err)
	require.Len(t, tasks, len(ids))
	for i, task := range tasks {
		assert.Equal(t, ids[i], task.TaskID)
	}
}

func TestFileStore_DeleteRemovesLockFile(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileStore(root)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.SaveTask(ctx, &domain.Task{TaskID: "t1", ProjectID: "app"}))
	require.NoError(t, s.DeleteTask(ctx, "app", "t1"))

	entries, err := os.ReadDir(filepath.Join(root, "projects", "app", "tasks"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewFileStore_DefaultRoot(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := NewFileStore("", WithLockTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".eureka"), s.Root())
}

func TestAtomicWrite_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, atomicWrite(path, []byte("one")))
	require.NoError(t, atomicWrite(path, []byte("two")))

	data, err := os.ReadFile(path) //#nosec G304 -- test path
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}
