package scheduler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// BreathingOptions mirrors kg_api.breathing_options — mode and the two
// epoch windows the breathing launcher reads on every tick.
type BreathingOptions struct {
	Mode             string `json:"mode"`
	IntervalEpochs   int64  `json:"interval_epochs"`
	StaleEpochWindow int64  `json:"stale_epoch_window"`
}

func (o BreathingOptions) validate() error {
	if o.Mode != "autonomous" && o.Mode != "hitl" {
		return fmt.Errorf("breathing mode must be autonomous or hitl, got %q", o.Mode)
	}
	if o.IntervalEpochs <= 0 {
		return fmt.Errorf("interval_epochs must be positive")
	}
	if o.StaleEpochWindow <= 0 {
		return fmt.Errorf("stale_epoch_window must be positive")
	}
	return nil
}

// OptionsWatcher lets an operator override the database-seeded breathing
// options by dropping a JSON file at path, picked up without a restart.
// Absent a file, the watcher holds the fallback it was constructed with,
// or the last value passed to SetFromDatabase. Grounded on the teacher's
// infrastructure/config.ConfigWatcher (fsnotify + debounce + validate +
// OnChange callbacks), generalized from feature-flag/limit JSON to
// breathing options.
type OptionsWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	mu       sync.RWMutex
	current  BreathingOptions
	onChange []func(BreathingOptions)
	logger   *zap.Logger
	stopCh   chan struct{}
}

// NewOptionsWatcher starts with fallback as the current value; if path
// already exists and parses, it takes precedence immediately.
func NewOptionsWatcher(path string, fallback BreathingOptions, logger *zap.Logger) (*OptionsWatcher, error) {
	ow := &OptionsWatcher{path: path, current: fallback, logger: logger, stopCh: make(chan struct{})}

	if loaded, err := loadOptionsFile(path); err == nil {
		if verr := loaded.validate(); verr == nil {
			ow.current = loaded
		} else {
			logger.Warn("ignoring invalid breathing options override file", zap.Error(verr))
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating breathing options watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s for breathing options overrides: %w", dir, err)
	}
	ow.watcher = watcher
	return ow, nil
}

func (ow *OptionsWatcher) Start() {
	go ow.watchLoop()
}

func (ow *OptionsWatcher) Stop() {
	close(ow.stopCh)
	ow.watcher.Close()
}

func (ow *OptionsWatcher) watchLoop() {
	var debounce *time.Timer
	const debounceWindow = 200 * time.Millisecond

	for {
		select {
		case <-ow.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return
		case event, ok := <-ow.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(ow.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, ow.reload)
		case err, ok := <-ow.watcher.Errors:
			if !ok {
				return
			}
			ow.logger.Error("breathing options watcher error", zap.Error(err))
		}
	}
}

func (ow *OptionsWatcher) reload() {
	loaded, err := loadOptionsFile(ow.path)
	if err != nil {
		ow.logger.Error("failed to reload breathing options override", zap.Error(err))
		return
	}
	if err := loaded.validate(); err != nil {
		ow.logger.Error("invalid breathing options override, keeping current", zap.Error(err))
		return
	}

	ow.mu.Lock()
	ow.current = loaded
	ow.mu.Unlock()

	ow.logger.Info("breathing options reloaded from override file",
		zap.String("mode", loaded.Mode),
		zap.Int64("interval_epochs", loaded.IntervalEpochs),
		zap.Int64("stale_epoch_window", loaded.StaleEpochWindow))

	for _, handler := range ow.onChange {
		go handler(loaded)
	}
}

func (ow *OptionsWatcher) OnChange(handler func(BreathingOptions)) {
	ow.mu.Lock()
	defer ow.mu.Unlock()
	ow.onChange = append(ow.onChange, handler)
}

func (ow *OptionsWatcher) Current() BreathingOptions {
	ow.mu.RLock()
	defer ow.mu.RUnlock()
	return ow.current
}

// SetFromDatabase replaces the current value with options a caller read
// from the database, keeping Current() the single read path regardless
// of source. Nothing in this module reads that row or calls it.
func (ow *OptionsWatcher) SetFromDatabase(o BreathingOptions) {
	ow.mu.Lock()
	defer ow.mu.Unlock()
	ow.current = o
}

func loadOptionsFile(path string) (BreathingOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BreathingOptions{}, err
	}
	var o BreathingOptions
	if err := json.Unmarshal(data, &o); err != nil {
		return BreathingOptions{}, fmt.Errorf("parsing breathing options override: %w", err)
	}
	return o, nil
}
