package scheduler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewOptionsWatcher_FallsBackWhenNoFilePresent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "breathing_options.json")
	fallback := BreathingOptions{Mode: "hitl", IntervalEpochs: 50, StaleEpochWindow: 20}

	w, err := NewOptionsWatcher(path, fallback, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	require.Equal(t, fallback, w.Current())
}

func TestNewOptionsWatcher_PrefersValidOverrideFileOverFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "breathing_options.json")
	override := BreathingOptions{Mode: "autonomous", IntervalEpochs: 10, StaleEpochWindow: 5}
	writeOptionsFile(t, path, override)

	w, err := NewOptionsWatcher(path, BreathingOptions{Mode: "hitl", IntervalEpochs: 50, StaleEpochWindow: 20}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	require.Equal(t, override, w.Current())
}

func TestNewOptionsWatcher_IgnoresInvalidOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "breathing_options.json")
	writeOptionsFile(t, path, BreathingOptions{Mode: "not-a-mode", IntervalEpochs: 10, StaleEpochWindow: 5})
	fallback := BreathingOptions{Mode: "hitl", IntervalEpochs: 50, StaleEpochWindow: 20}

	w, err := NewOptionsWatcher(path, fallback, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	require.Equal(t, fallback, w.Current())
}

func TestOptionsWatcher_ReloadsOnFileWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "breathing_options.json")
	fallback := BreathingOptions{Mode: "hitl", IntervalEpochs: 50, StaleEpochWindow: 20}

	w, err := NewOptionsWatcher(path, fallback, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(w.Stop)
	w.Start()

	updated := BreathingOptions{Mode: "autonomous", IntervalEpochs: 5, StaleEpochWindow: 2}
	writeOptionsFile(t, path, updated)

	require.Eventually(t, func() bool {
		return w.Current() == updated
	}, 2*time.Second, 20*time.Millisecond)
}

func TestOptionsWatcher_SetFromDatabaseUpdatesCurrent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "breathing_options.json")
	w, err := NewOptionsWatcher(path, BreathingOptions{Mode: "hitl", IntervalEpochs: 50, StaleEpochWindow: 20}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	fromDB := BreathingOptions{Mode: "autonomous", IntervalEpochs: 30, StaleEpochWindow: 15}
	w.SetFromDatabase(fromDB)

	require.Equal(t, fromDB, w.Current())
}

func writeOptionsFile(t *testing.T, path string, o BreathingOptions) {
	t.Helper()
	data, err := json.Marshal(o)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}
