// Package schedule implements the schedule command that runs crawls
// periodically on a cron expression.
package schedule

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/opendatamd/regcrawl/cmd/common"
	"github.com/opendatamd/regcrawl/internal/config"
	"github.com/opendatamd/regcrawl/internal/logger"
)

// Command returns the schedule command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run crawls periodically on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := common.NewLogger(cfg)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer log.Sync()

			return run(cmd.Context(), cfg, log)
		},
	}
}

// run schedules crawls and blocks until interrupted. Runs never
// overlap: a trigger firing while a crawl is still running is skipped.
func run(ctx context.Context, cfg *config.Config, log logger.Interface) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	_, err := scheduler.AddFunc(cfg.Schedule.Cron, func() {
		if err := runOnce(ctx, cfg, log); err != nil {
			log.Error("Scheduled crawl failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cfg.Schedule.Cron, err)
	}

	log.Info("Scheduler started", "cron", cfg.Schedule.Cron)
	scheduler.Start()
	<-ctx.Done()

	log.Info("Shutdown signal received, waiting for running crawl")
	<-scheduler.Stop().Done()
	return nil
}

// runOnce builds a fresh crawler and runs a single crawl. Each run gets
// its own sink so the output file is rewritten per run.
func runOnce(ctx context.Context, cfg *config.Config, log logger.Interface) error {
	crawler, err := common.NewCrawler(cfg, log)
	if err != nil {
		return err
	}
	defer crawler.Close()

	summary, err := crawler.Run(ctx)
	if err != nil {
		return err
	}
	log.Info("Scheduled crawl finished",
		"run_id", summary.RunID,
		"entities", summary.Total,
	)
	return nil
}
