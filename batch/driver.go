// Package batch drives annotation-document generation across
// directories of slides. Each slide is one independent work unit: its
// prediction table is read, one graph is built and serialized, and
// failures never spread to sibling slides.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/slidegraph/announce"
	"github.com/c360studio/slidegraph/export"
	"github.com/c360studio/slidegraph/graph"
	"github.com/c360studio/slidegraph/results"
	"github.com/c360studio/slidegraph/slide"
	"github.com/c360studio/slidegraph/worker"
)

const (
	// DefaultSlidePattern matches the common whole-slide image extensions.
	DefaultSlidePattern = "*.{svs,tif,tiff,ndpi}"

	// DefaultNoFindingClass is the probability column never emitted as
	// an annotation.
	DefaultNoFindingClass = "notumor"

	// DefaultWorkers is the pool size when Options leaves it zero.
	DefaultWorkers = 8
)

// Options configures a Driver.
type Options struct {
	// SlideDir holds the slide files.
	SlideDir string
	// ResultsDir holds one prediction table per slide base name
	// (<base>.csv).
	ResultsDir string
	// OutputDir receives one document per slide.
	OutputDir string
	// SlidePattern is a doublestar glob matched inside SlideDir.
	// Empty means DefaultSlidePattern.
	SlidePattern string
	// Graph supplies the per-document header fields. SlidePath,
	// SlideDigest and Dimensions are owned by the driver and must be
	// left empty.
	Graph graph.Config
	// NoFindingClass is compared case-insensitively against table
	// class columns. Empty means DefaultNoFindingClass.
	NoFindingClass string
	// Workers is the number of slides in flight. Zero means
	// DefaultWorkers.
	Workers int
	// Compress switches output to gzip (.ttl.gz).
	Compress bool
	// WatchDebounce is the quiet period for Watch. Zero means the
	// watcher default.
	WatchDebounce time.Duration
	// Dimensioner optionally reads slide pixel dimensions for the
	// header.
	Dimensioner slide.Dimensioner
	// Announcer optionally publishes one event per written document.
	Announcer *announce.Announcer
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Metrics optionally receives worker pool metrics. Each Run or
	// Watch call registers its own collectors, so one registry serves
	// at most one call.
	Metrics prometheus.Registerer
}

// Summary counts per-slide outcomes of one run.
type Summary struct {
	Slides      int
	Processed   int
	Skipped     int
	Failed      int
	Annotations int
}

// Driver runs slides through discovery, table reading, graph building
// and serialization.
type Driver struct {
	opts   Options
	logger *slog.Logger

	total       atomic.Int64
	completed   atomic.Int64
	processed   atomic.Int64
	skipped     atomic.Int64
	failed      atomic.Int64
	annotations atomic.Int64
}

// NewDriver validates opts and fills in defaults. Violations wrap
// graph.ErrConfig.
func NewDriver(opts Options) (*Driver, error) {
	if opts.SlideDir == "" || opts.ResultsDir == "" || opts.OutputDir == "" {
		return nil, fmt.Errorf("%w: slide, results and output directories are required", graph.ErrConfig)
	}
	if opts.Graph.SlidePath != "" || opts.Graph.SlideDigest != "" || opts.Graph.Dimensions != nil {
		return nil, fmt.Errorf("%w: per-slide graph fields are owned by the driver", graph.ErrConfig)
	}
	for _, k := range opts.Graph.Keywords {
		if strings.Contains(k, ",") {
			return nil, fmt.Errorf("%w: keyword %q contains a comma", graph.ErrConfig, k)
		}
	}

	if opts.SlidePattern == "" {
		opts.SlidePattern = DefaultSlidePattern
	}
	if opts.NoFindingClass == "" {
		opts.NoFindingClass = DefaultNoFindingClass
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Driver{opts: opts, logger: logger}, nil
}

// Run processes every matching slide once and reports the outcome
// totals. Per-slide failures are contained and counted; Run itself
// fails only when discovery or setup fails.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	slides, err := d.discover()
	if err != nil {
		return Summary{}, err
	}
	d.total.Store(int64(len(slides)))

	if len(slides) == 0 {
		d.logger.Warn("No slides matched",
			slog.String("dir", d.opts.SlideDir),
			slog.String("pattern", d.opts.SlidePattern))
		return Summary{}, nil
	}

	if err := os.MkdirAll(d.opts.OutputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output directory: %w", err)
	}

	d.logger.Info("Batch starting",
		slog.Int("slides", len(slides)),
		slog.Int("workers", d.opts.Workers))

	// The queue holds the whole batch, so Submit never drops.
	pool := d.newPool(len(slides))
	if err := pool.Start(ctx); err != nil {
		return Summary{}, err
	}
	for _, slidePath := range slides {
		if err := pool.Submit(slidePath); err != nil {
			d.completed.Add(1)
			d.failed.Add(1)
			d.logger.Error("Failed to queue slide",
				slog.String("slide", slidePath),
				slog.String("error", err.Error()))
		}
	}
	if err := pool.Drain(ctx); err != nil {
		return d.summary(), err
	}

	sum := d.summary()
	d.logger.Info("Batch complete",
		slog.Int("slides", sum.Slides),
		slog.Int("processed", sum.Processed),
		slog.Int("skipped", sum.Skipped),
		slog.Int("failed", sum.Failed),
		slog.Int("annotations", sum.Annotations))
	return sum, nil
}

func (d *Driver) newPool(queueSize int) *worker.Pool[string] {
	var opts []worker.Option[string]
	if d.opts.Metrics != nil {
		opts = append(opts, worker.WithMetrics[string](d.opts.Metrics, "slidegraph_slides"))
	}
	return worker.NewPool(d.opts.Workers, queueSize, d.processSlide, opts...)
}

func (d *Driver) summary() Summary {
	return Summary{
		Slides:      int(d.total.Load()),
		Processed:   int(d.processed.Load()),
		Skipped:     int(d.skipped.Load()),
		Failed:      int(d.failed.Load()),
		Annotations: int(d.annotations.Load()),
	}
}

// discover lists the matching slide files in deterministic order.
func (d *Driver) discover() ([]string, error) {
	pattern := filepath.Join(d.opts.SlideDir, d.opts.SlidePattern)
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("discover slides: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// findSlide resolves a table base name back to its slide file.
func (d *Driver) findSlide(base string) (string, error) {
	matches, err := d.discover()
	if err != nil {
		return "", err
	}
	for _, m := range matches {
		if slideBase(m) == base {
			return m, nil
		}
	}
	return "", fmt.Errorf("no slide matching %s in %s", base, d.opts.SlideDir)
}

func (d *Driver) outputPath(base string) string {
	info, _ := export.GetFormatInfo(export.FormatTurtle)
	name := base + info.Extension
	if d.opts.Compress {
		name += ".gz"
	}
	return filepath.Join(d.opts.OutputDir, name)
}

func slideBase(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

type outcome int

const (
	outcomeProcessed outcome = iota
	outcomeSkipped
	outcomeFailed
)

// processSlide is the pool processor: one slide in, one document (or
// a logged skip or failure) out. The error return feeds pool failure
// stats; skips are not errors.
func (d *Driver) processSlide(ctx context.Context, slidePath string) error {
	base := slideBase(slidePath)

	out, added, err := d.buildOne(ctx, slidePath, base)
	completed := d.completed.Add(1)

	switch out {
	case outcomeProcessed:
		d.processed.Add(1)
		d.annotations.Add(int64(added))
	case outcomeSkipped:
		d.skipped.Add(1)
	case outcomeFailed:
		d.failed.Add(1)
		d.logger.Error("Slide failed",
			slog.String("slide", base),
			slog.String("error", err.Error()))
	}

	d.logger.Info("Slide done",
		slog.Int64("completed", completed),
		slog.Int64("total", d.total.Load()),
		slog.String("slide", base))

	if out == outcomeFailed {
		return err
	}
	return nil
}

// buildOne runs the per-slide pipeline. The skip checks are advisory
// presence checks, not locks: two concurrent runs can both pass and
// the later writer wins.
func (d *Driver) buildOne(ctx context.Context, slidePath, base string) (outcome, int, error) {
	tablePath := filepath.Join(d.opts.ResultsDir, base+".csv")
	outputPath := d.outputPath(base)

	if _, err := os.Stat(tablePath); errors.Is(err, fs.ErrNotExist) {
		d.logger.Info("No prediction table, skipping",
			slog.String("slide", base),
			slog.String("table", tablePath))
		return outcomeSkipped, 0, nil
	}
	if _, err := os.Stat(outputPath); err == nil {
		d.logger.Info("Output exists, skipping",
			slog.String("slide", base),
			slog.String("output", outputPath))
		return outcomeSkipped, 0, nil
	}

	table, err := results.ReadTable(tablePath)
	if err != nil {
		return outcomeFailed, 0, err
	}

	cfg := d.opts.Graph
	cfg.SlidePath = slidePath
	if d.opts.Dimensioner != nil {
		dims, err := d.opts.Dimensioner.Dimensions(slidePath)
		if err != nil {
			return outcomeFailed, 0, fmt.Errorf("read slide dimensions: %w", err)
		}
		cfg.Dimensions = &dims
	}

	builder, err := graph.NewBuilder(cfg)
	if err != nil {
		return outcomeFailed, 0, err
	}

	classes := table.Classes()
	for _, patch := range table.Patches() {
		for _, class := range classes {
			if strings.EqualFold(class, d.opts.NoFindingClass) {
				continue
			}
			prob, ok := patch.Probs[class]
			if !ok {
				continue
			}
			box := graph.Box{
				MinX: patch.MinX,
				MinY: patch.MinY,
				MaxX: patch.MinX + patch.Width,
				MaxY: patch.MinY + patch.Height,
			}
			if err := builder.AddAnnotation(class, prob, box); err != nil {
				return outcomeFailed, 0, err
			}
		}
	}

	if err := export.Write(builder.Graph(), outputPath, export.FormatTurtle); err != nil {
		return outcomeFailed, 0, err
	}

	if err := d.opts.Announcer.Published(ctx, announce.Document{
		Slide:       slidePath,
		Digest:      builder.Digest(),
		Path:        outputPath,
		Format:      string(export.FormatTurtle),
		Annotations: builder.Annotations(),
		CompletedAt: time.Now().UTC(),
	}); err != nil {
		// The document is on disk; a lost event is not a failure
		d.logger.Warn("Failed to announce document",
			slog.String("slide", base),
			slog.String("error", err.Error()))
	}

	return outcomeProcessed, builder.Annotations(), nil
}
