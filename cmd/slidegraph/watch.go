package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	var f pipelineFlags
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the results directory and convert tables as they arrive",
		Long: `Watch runs the same per-slide pipeline as run, but stays in the
foreground and reacts to prediction tables written into
--model-results-dir. Each table is converted once it has been quiet
for the debounce period. Stop with SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(&f)
			if err != nil {
				return err
			}
			if debounce > 0 {
				cfg.Watch.Debounce = debounce
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runPipeline(ctx, cfg, logger, true)
		},
	}

	addPipelineFlags(cmd, &f)
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "Quiet period before a changed table is converted (default 2s)")
	return cmd
}
