package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsReloadable(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "configs/profiles.yaml", want: true},
		{path: "configs/profiles.YML", want: true},
		{path: "configs/scripts/guard.tengo", want: true},
		{path: "configs/physics.json", want: false},
		{path: "configs/stages/demo.tmx", want: false},
		{path: "configs/profiles.yaml~", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReloadable(tt.path))
		})
	}
}

func TestWatcher_ReportsChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	target := filepath.Join(dir, "profiles.yaml")
	require.NoError(t, os.WriteFile(target, []byte("characters: {}"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, target, name)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcher_ReportsSettledContent(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	target := filepath.Join(dir, "profiles.yaml")
	for _, content := range []string{"charac", "characters:", "characters: {}"} {
		require.NoError(t, os.WriteFile(target, []byte(content), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case name := <-w.Events:
		assert.Equal(t, target, name)
		data, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, "characters: {}", string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case name := <-w.Events:
		t.Fatalf("burst reported twice: %s", name)
	case <-time.After(3 * debounce):
	}
}

func TestSettled(t *testing.T) {
	now := time.Now()
	pending := map[string]time.Time{
		"b.yaml":  now.Add(-time.Millisecond),
		"a.tengo": now,
		"c.yaml":  now.Add(debounce),
	}

	assert.Equal(t, []string{"a.tengo", "b.yaml"}, settled(pending, now))
	assert.Equal(t, map[string]time.Time{"c.yaml": now.Add(debounce)}, pending)
	assert.Equal(t, now.Add(debounce), earliest(pending))
	assert.Empty(t, settled(pending, now))
}

func TestWatcher_CloseClosesChannels(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel left open")
	}
}

func TestNewWatcher_MissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
