package watch

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/clad/errors"
	"github.com/teranos/clad/logger"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWatcherRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "robot.clad")
	shared := filepath.Join(dir, "shared.clad")
	writeFile(t, schema, "#include \"shared.clad\"\n")
	writeFile(t, shared, "enum uint_8 Color { Red }\n")

	var builds atomic.Int32
	w, err := New(func(ctx context.Context) ([]string, error) {
		builds.Add(1)
		return []string{schema, shared}, nil
	}, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return builds.Load() == 1 }, time.Second, 5*time.Millisecond)

	writeFile(t, shared, "enum uint_8 Color { Red, Green }\n")
	require.Eventually(t, func() bool { return builds.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "robot.clad")
	writeFile(t, schema, "")

	var builds atomic.Int32
	w, err := New(func(ctx context.Context) ([]string, error) {
		builds.Add(1)
		return []string{schema}, nil
	}, 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.Eventually(t, func() bool { return builds.Load() == 1 }, time.Second, 5*time.Millisecond)
	writeFile(t, filepath.Join(dir, "robot.h"), "// generated\n")
	time.Sleep(100 * time.Millisecond)
	assert.EqualValues(t, 1, builds.Load())
}

func TestWatcherTracksFilesFromFailedBuild(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "robot.clad")
	writeFile(t, schema, "message {")

	w, err := New(func(ctx context.Context) ([]string, error) {
		return []string{schema}, errors.New("syntax error")
	}, 10*time.Millisecond, filepath.Join(dir, "cladcpp.toml"))
	require.NoError(t, err)

	w.rebuild(context.Background())
	assert.Equal(t, []string{filepath.Join(dir, "cladcpp.toml"), schema}, w.Files())
	require.NoError(t, w.watcher.Close())
}

func TestWatcherLogsDiagnosticPosition(t *testing.T) {
	t.Cleanup(func() { _ = logger.InitializeWithWriter(io.Discard, false, logger.VerbosityUser) })
	var buf bytes.Buffer
	require.NoError(t, logger.InitializeWithWriter(&buf, true, logger.VerbosityUser))

	dir := t.TempDir()
	schema := filepath.Join(dir, "robot.clad")
	w, err := New(func(ctx context.Context) ([]string, error) {
		return []string{schema}, errors.NewDiagnostic(errors.ErrSyntax,
			errors.Coord{File: schema, Line: 1, Column: 9}, "expected a name")
	}, 10*time.Millisecond)
	require.NoError(t, err)
	defer w.watcher.Close()

	w.rebuild(context.Background())
	out := buf.String()
	assert.Contains(t, out, `"msg":"Build failed"`)
	assert.Contains(t, out, `"file":"robot.clad","line":1,"column":9`)
}
