package main

import (
	"fmt"
	"log/slog"
	"os/user"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/c360studio/slidegraph/announce"
	"github.com/c360studio/slidegraph/batch"
	"github.com/c360studio/slidegraph/config"
	"github.com/c360studio/slidegraph/graph"
)

// pipelineFlags mirrors the config file settings the run and watch
// commands share. Flag values override file values; zero means the
// flag was not given.
type pipelineFlags struct {
	slideDir       string
	resultsDir     string
	outputDir      string
	name           string
	description    string
	githubURL      string
	orcidURL       string
	creator        string
	license        string
	keywords       []string
	publishers     []string
	workers        int
	gzipOutput     bool
	slidePattern   string
	noFindingClass string
	natsURL        string
	metricsAddr    string
}

func addPipelineFlags(cmd *cobra.Command, f *pipelineFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.slideDir, "slide-dir", "", "Directory containing whole-slide images")
	flags.StringVar(&f.resultsDir, "model-results-dir", "", "Directory containing per-slide prediction tables (<slide>.csv)")
	flags.StringVar(&f.outputDir, "output-dir", "", "Directory receiving one Turtle document per slide")
	flags.StringVar(&f.name, "name", "", "Dataset name recorded in the provenance header")
	flags.StringVar(&f.description, "description", "", "Dataset description recorded in the provenance header")
	flags.StringVar(&f.githubURL, "github-url", "", "URL of the model or pipeline that produced the predictions")
	flags.StringVar(&f.orcidURL, "orcid-url", "", "ORCID IRI recorded as a second creator")
	flags.StringVar(&f.creator, "creator", "", "Creator name (default: current OS user)")
	flags.StringVar(&f.license, "license", "", "License recorded in the provenance header")
	flags.StringArrayVar(&f.keywords, "keyword", nil, "Keyword recorded in the provenance header (repeatable)")
	flags.StringArrayVar(&f.publishers, "publisher", nil, "Publisher IRI recorded in the provenance header (repeatable)")
	flags.IntVar(&f.workers, "num-workers", 0, "Number of slides converted concurrently (default 8)")
	flags.BoolVar(&f.gzipOutput, "gzip", false, "Gzip-compress output documents (.ttl.gz)")
	flags.StringVar(&f.slidePattern, "slide-pattern", "", `Glob for slide files inside --slide-dir (default "*.{svs,tif,tiff,ndpi}")`)
	flags.StringVar(&f.noFindingClass, "no-finding-class", "", `Probability column never emitted as an annotation (default "notumor")`)
	flags.StringVar(&f.natsURL, "nats-url", "", "NATS server URL for publishing document events")
	flags.StringVar(&f.metricsAddr, "metrics-addr", "", "Listen address for Prometheus metrics and health probes")
}

// mergeFlags overlays explicitly-set flag values on the file config.
func mergeFlags(cfg *config.Config, f *pipelineFlags) {
	if f.slideDir != "" {
		cfg.Paths.SlideDir = f.slideDir
	}
	if f.resultsDir != "" {
		cfg.Paths.ResultsDir = f.resultsDir
	}
	if f.outputDir != "" {
		cfg.Paths.OutputDir = f.outputDir
	}
	if f.name != "" {
		cfg.Header.Name = f.name
	}
	if f.description != "" {
		cfg.Header.Description = f.description
	}
	if f.githubURL != "" {
		cfg.Header.Instrument = f.githubURL
	}
	if f.orcidURL != "" {
		cfg.Header.ORCID = f.orcidURL
	}
	if f.creator != "" {
		cfg.Header.Creator = f.creator
	}
	if f.license != "" {
		cfg.Header.License = f.license
	}
	if len(f.keywords) > 0 {
		cfg.Header.Keywords = f.keywords
	}
	if len(f.publishers) > 0 {
		cfg.Header.Publishers = f.publishers
	}
	if f.workers > 0 {
		cfg.Batch.Workers = f.workers
	}
	if f.gzipOutput {
		cfg.Batch.Compress = true
	}
	if f.slidePattern != "" {
		cfg.Batch.SlidePattern = f.slidePattern
	}
	if f.noFindingClass != "" {
		cfg.Batch.NoFindingClass = f.noFindingClass
	}
	if f.natsURL != "" {
		cfg.NATS.URL = f.natsURL
	}
	if f.metricsAddr != "" {
		cfg.Metrics.Addr = f.metricsAddr
	}
}

// requireSettings enforces the settings that have no usable default.
// Each may come from its flag or from the config file.
func requireSettings(cfg *config.Config) error {
	var missing []string
	if cfg.Paths.SlideDir == "" {
		missing = append(missing, "--slide-dir")
	}
	if cfg.Paths.ResultsDir == "" {
		missing = append(missing, "--model-results-dir")
	}
	if cfg.Paths.OutputDir == "" {
		missing = append(missing, "--output-dir")
	}
	if cfg.Header.Name == "" {
		missing = append(missing, "--name")
	}
	if cfg.Header.Description == "" {
		missing = append(missing, "--description")
	}
	if cfg.Header.Instrument == "" {
		missing = append(missing, "--github-url")
	}
	if cfg.Header.ORCID == "" {
		missing = append(missing, "--orcid-url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s (set the flag or the config file field)",
			strings.Join(missing, ", "))
	}
	return nil
}

func defaultCreator() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "unknown"
}

// loadSettings resolves the effective config (defaults, then config
// file, then flags) and builds the process logger from it.
func loadSettings(f *pipelineFlags) (*config.Config, *slog.Logger, error) {
	var cfg *config.Config
	if configPath != "" {
		fileCfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = config.DefaultConfig()
		cfg.Merge(fileCfg)
	} else {
		loaded, err := config.NewLoader(slog.Default()).Load()
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	mergeFlags(cfg, f)
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if cfg.Header.Creator == "" {
		cfg.Header.Creator = defaultCreator()
	}

	if err := requireSettings(cfg); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// buildOptions maps the effective config onto driver options.
func buildOptions(cfg *config.Config, logger *slog.Logger, metrics prometheus.Registerer, ann *announce.Announcer) batch.Options {
	return batch.Options{
		SlideDir:     cfg.Paths.SlideDir,
		ResultsDir:   cfg.Paths.ResultsDir,
		OutputDir:    cfg.Paths.OutputDir,
		SlidePattern: cfg.Batch.SlidePattern,
		Graph: graph.Config{
			Creator:       cfg.Header.Creator,
			Name:          cfg.Header.Name,
			Description:   cfg.Header.Description,
			InstrumentURL: cfg.Header.Instrument,
			CreatorORCID:  cfg.Header.ORCID,
			License:       cfg.Header.License,
			Keywords:      cfg.Header.Keywords,
			Publishers:    cfg.Header.Publishers,
		},
		NoFindingClass: cfg.Batch.NoFindingClass,
		Workers:        cfg.Batch.Workers,
		Compress:       cfg.Batch.Compress,
		WatchDebounce:  cfg.Watch.Debounce,
		Announcer:      ann,
		Logger:         logger,
		Metrics:        metrics,
	}
}
