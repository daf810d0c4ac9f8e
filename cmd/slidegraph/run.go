package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/c360studio/slidegraph/announce"
	"github.com/c360studio/slidegraph/batch"
	"github.com/c360studio/slidegraph/config"
)

func runCmd() *cobra.Command {
	var f pipelineFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Convert every slide's prediction table to a Turtle document",
		Long: `Run converts each slide in --slide-dir whose prediction table exists
in --model-results-dir into one annotation document in --output-dir.

Slides without a table and slides whose document already exists are
skipped. A failure on one slide is logged and counted without
stopping the rest of the batch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(&f)
			if err != nil {
				return err
			}
			return runPipeline(cmd.Context(), cfg, logger, false)
		},
	}

	addPipelineFlags(cmd, &f)
	return cmd
}

// runPipeline wires the optional collaborators (metrics endpoint,
// event broker) around the driver and executes one run or watch.
func runPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger, watch bool) error {
	var metrics prometheus.Registerer
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		metrics = reg
		srv := batch.NewMetricsServer(cfg.Metrics.Addr, reg, logger)
		srv.Start()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(sctx)
		}()
	}

	var ann *announce.Announcer
	if cfg.NATS.URL != "" {
		var err error
		ann, err = announce.New(cfg.NATS.URL, nats.Name(appName))
		if err != nil {
			return err
		}
		defer ann.Close()
		logger.Info("Publishing document events", slog.String("url", cfg.NATS.URL))
	}

	driver, err := batch.NewDriver(buildOptions(cfg, logger, metrics, ann))
	if err != nil {
		return err
	}

	if watch {
		return driver.Watch(ctx)
	}

	sum, err := driver.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d slides: %d processed, %d skipped, %d failed, %d annotations\n",
		sum.Slides, sum.Processed, sum.Skipped, sum.Failed, sum.Annotations)
	return nil
}
