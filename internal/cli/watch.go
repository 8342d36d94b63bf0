package cli

import (
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/srinivastejavt/podcast-clipper/internal/pipeline"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rescan the input directory on a schedule and process new transcripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p, err := pipeline.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer p.Close()

			scan := func() {
				// Processed-video state makes rescans idempotent.
				outcomes, err := runBatch(ctx, p, logger, []string{cfg.Watch.InputDir}, false)
				if err != nil {
					logger.Error().Err(err).Msg("scheduled run failed")
					return
				}
				printSummary(cmd, outcomes)
			}

			logger.Info().
				Str("schedule", cfg.Watch.Schedule).
				Str("input_dir", cfg.Watch.InputDir).
				Msg("watch started")
			scan()

			c := cron.New()
			if _, err := c.AddFunc(cfg.Watch.Schedule, scan); err != nil {
				return err
			}
			c.Start()
			<-ctx.Done()
			<-c.Stop().Done()
			logger.Info().Msg("watch stopped")
			return nil
		},
	}
}
