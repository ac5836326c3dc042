package config

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/KrolPaul/call-center/internal/dispatcher"
	"github.com/KrolPaul/call-center/internal/logger"
)

// Watcher drives two independent reload triggers against a live
// Dispatcher: a periodic timer (spec.md §6's reloadIntervalSeconds)
// and an fsnotify watch on the config file itself, supplementing the
// source's poll-only reloader. Grounded on the teacher's fsnotify use
// in cmd/dittofs/commands/logs.go (watch a single file, react to
// Write events), repurposed here from log-tailing to config-reload.
type Watcher struct {
	configPath     string
	reloadInterval time.Duration
	d              *dispatcher.Dispatcher
}

// NewWatcher constructs a Watcher. reloadInterval of zero disables the
// timer trigger; configPath of "" disables the fsnotify trigger (there
// is no file to watch, only embedded defaults).
func NewWatcher(configPath string, reloadInterval time.Duration, d *dispatcher.Dispatcher) *Watcher {
	return &Watcher{configPath: configPath, reloadInterval: reloadInterval, d: d}
}

// Run blocks, reloading configuration on both triggers, until ctx is
// canceled. Errors from either trigger are logged, never fatal. A reload
// whose file cannot be read, parsed or validated applies Default(),
// since that is what Load returns in those cases.
func (w *Watcher) Run(ctx context.Context) {
	var ticker *time.Ticker
	var tickCh <-chan time.Time
	if w.reloadInterval > 0 {
		ticker = time.NewTicker(w.reloadInterval)
		defer ticker.Stop()
		tickCh = ticker.C
	}

	var events <-chan fsnotify.Event
	var errs <-chan error
	if w.configPath != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			logger.Warn("config watcher unavailable, relying on timer reload only", "error", err)
		} else {
			defer func() { _ = watcher.Close() }()
			if err := watcher.Add(w.configPath); err != nil {
				logger.Warn("failed to watch config file", "path", w.configPath, "error", err)
			} else {
				events = watcher.Events
				errs = watcher.Errors
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-tickCh:
			w.reload()

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				w.reload()
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.configPath)
	if err != nil {
		logger.Warn("config reload failed, keeping last good configuration", "error", err)
		return
	}
	Apply(w.d, cfg)
	logger.Info("configuration reloaded", "path", w.configPath)
}
