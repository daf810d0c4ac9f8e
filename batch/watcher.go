package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// defaultDebounce is the quiet period before a changed table is
	// handed to the pipeline. Prediction tables are written in chunks,
	// so reacting to the first write would read a partial file.
	defaultDebounce = 2 * time.Second

	// eventChannelBuffer is the size of the watch event channel.
	eventChannelBuffer = 256
)

// TableEvent announces a created or rewritten prediction table.
type TableEvent struct {
	// Base is the table file name without extension, which is also the
	// slide base name.
	Base string
	// Path is the table path as reported by the watcher.
	Path string
}

// ResultsWatcher watches a results directory for prediction tables
// and emits one debounced event per settled file.
type ResultsWatcher struct {
	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// Debouncing: collect changes before emitting
	pendingMu sync.Mutex
	pending   map[string]struct{}

	// Output channel
	events chan TableEvent

	// Metrics
	droppedEvents atomic.Int64
}

// NewResultsWatcher creates a watcher for dir. A non-positive debounce
// falls back to two seconds.
func NewResultsWatcher(dir string, debounce time.Duration, logger *slog.Logger) (*ResultsWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	return &ResultsWatcher{
		dir:      dir,
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		pending:  make(map[string]struct{}),
		events:   make(chan TableEvent, eventChannelBuffer),
	}, nil
}

// Events returns the channel of table events.
func (w *ResultsWatcher) Events() <-chan TableEvent {
	return w.events
}

// Start begins watching the results directory.
func (w *ResultsWatcher) Start(ctx context.Context) error {
	// Create the directory so the watch can be placed before the first
	// table arrives
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("Results watcher started",
		slog.String("dir", w.dir),
		slog.Duration("debounce", w.debounce))
	return nil
}

// Stop stops the watcher. The events channel is closed by
// processEvents when it exits.
func (w *ResultsWatcher) Stop() error {
	return w.watcher.Close()
}

// DroppedEvents returns the number of events dropped due to channel
// overflow.
func (w *ResultsWatcher) DroppedEvents() int64 {
	return w.droppedEvents.Load()
}

// processEvents handles fsnotify events with debouncing.
func (w *ResultsWatcher) processEvents(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", slog.String("error", err.Error()))
		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent accumulates table writes for the next flush.
func (w *ResultsWatcher) handleFSEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if strings.ToLower(filepath.Ext(event.Name)) != ".csv" {
		return
	}

	w.pendingMu.Lock()
	w.pending[event.Name] = struct{}{}
	w.pendingMu.Unlock()

	w.logger.Debug("Table change detected", slog.String("path", event.Name))
}

// flushPending emits events for tables that settled during the last
// debounce window.
func (w *ResultsWatcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := make([]string, 0, len(w.pending))
	for path := range w.pending {
		toProcess = append(toProcess, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	sort.Strings(toProcess)
	for _, path := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// The file may have been deleted since the event fired
		if _, err := os.Stat(path); err != nil {
			continue
		}

		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		w.sendEvent(TableEvent{Base: base, Path: path})
	}
}

// sendEvent sends an event without blocking the watch loop.
func (w *ResultsWatcher) sendEvent(event TableEvent) {
	select {
	case w.events <- event:
		w.logger.Debug("Sent table event", slog.String("base", event.Base))
	default:
		dropped := w.droppedEvents.Add(1)
		w.logger.Warn("Event channel full, dropping event",
			slog.String("base", event.Base),
			slog.Int64("total_dropped", dropped))
	}
}

// Watch mirrors Run for a live results directory: each table that
// settles is matched to its slide and sent through the same per-slide
// pipeline, until ctx is cancelled. Tables for slides already
// converted are skipped by the usual output check.
func (d *Driver) Watch(ctx context.Context) error {
	if err := os.MkdirAll(d.opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	watcher, err := NewResultsWatcher(d.opts.ResultsDir, d.opts.WatchDebounce, d.logger)
	if err != nil {
		return fmt.Errorf("create results watcher: %w", err)
	}

	pool := d.newPool(0)
	if err := pool.Start(ctx); err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start results watcher: %w", err)
	}
	defer watcher.Stop()

	d.logger.Info("Watching for prediction tables",
		slog.String("dir", d.opts.ResultsDir))

	for {
		select {
		case <-ctx.Done():
			// In-flight slides finish; the rest of the queue is
			// abandoned with the context.
			return pool.Drain(context.Background())
		case ev, ok := <-watcher.Events():
			if !ok {
				return pool.Drain(context.Background())
			}
			slidePath, err := d.findSlide(ev.Base)
			if err != nil {
				d.logger.Warn("No slide for table",
					slog.String("table", ev.Path),
					slog.String("error", err.Error()))
				continue
			}
			d.total.Add(1)
			if err := pool.Submit(slidePath); err != nil {
				d.logger.Warn("Failed to queue slide",
					slog.String("slide", slidePath),
					slog.String("error", err.Error()))
			}
		}
	}
}
