package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/srinivastejavt/podcast-clipper/internal/common"
	"github.com/srinivastejavt/podcast-clipper/internal/pipeline"
	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <transcripts...>",
		Short: "Process transcript files or directories into a clip batch",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p, err := pipeline.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer p.Close()

			outcomes, err := runBatch(ctx, p, logger, args, force)
			if err != nil {
				return err
			}
			printSummary(cmd, outcomes)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Reprocess videos even if already processed")
	return cmd
}

// runBatch loads the transcripts and runs the engine over them.
// Unreadable files become failed outcomes instead of killing the run.
func runBatch(ctx context.Context, p *pipeline.Pipeline, logger log.Logger, args []string, force bool) ([]types.VideoOutcome, error) {
	paths, err := pipeline.CollectTranscripts(args)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		logger.Info().Msg("no transcript files found")
		return nil, nil
	}

	var transcripts []types.Transcript
	var failed []types.VideoOutcome
	for _, path := range paths {
		tr, err := pipeline.LoadTranscript(path)
		if err != nil {
			logger.Error().Str("path", path).Err(err).Msg("transcript unreadable")
			failed = append(failed, types.VideoOutcome{VideoID: path, Status: types.OutcomeFailed, Reason: err.Error()})
			continue
		}
		transcripts = append(transcripts, tr)
	}

	batch, outcomes, err := p.Engine.Run(ctx, transcripts, force)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("batch_id", batch.ID).
		Int("videos", len(transcripts)).
		Int("total_clips", batch.Metadata.TotalClips).
		Msg("run complete")
	return append(outcomes, failed...), nil
}

func printSummary(cmd *cobra.Command, outcomes []types.VideoOutcome) {
	for _, o := range outcomes {
		line := fmt.Sprintf("%-14s %s  clips=%d", o.Status, o.VideoID, o.Clips)
		if o.Reason != "" {
			line += "  (" + o.Reason + ")"
		}
		cmd.Println(line)
	}
}

func setup(cmd *cobra.Command) (common.Config, log.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := common.LoadConfig(configPath)
	if err != nil {
		return common.Config{}, log.Logger{}, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, common.NewLogger(cfg.Logging), nil
}
