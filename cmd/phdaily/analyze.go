package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/ph-daily/internal/logging"
	"github.com/bryanwahyu/ph-daily/internal/wiring"
)

func newAnalyzeCmd(rf *rootFlags) *cobra.Command {
	var (
		date string
		opts wiring.Options
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyse yesterday's Product Hunt leaderboard and write a report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rf)
			if err != nil {
				return err
			}
			logger, closer, err := logging.New(logLevel(rf, cfg), logPath(cfg))
			if err != nil {
				return err
			}
			defer closer.Close()

			var day time.Time
			if date != "" {
				if day, err = time.ParseInLocation("2006-01-02", date, time.Local); err != nil {
					return fmt.Errorf("--date: want YYYY-MM-DD, got %q", date)
				}
			}
			if !filepath.IsAbs(cfg.Analyzer.ReportsDir) {
				cfg.Analyzer.ReportsDir = filepath.Join(cfg.Bootstrap.WorkDir, cfg.Analyzer.ReportsDir)
			}

			c := wiring.Build(cmd.Context(), cfg, logger, opts)
			defer c.Close()

			res, err := c.Analysis.Run(cmd.Context(), day)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "📊 Report: %s\n", res.Run.ReportPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "run date YYYY-MM-DD; the leaderboard of the day before is analysed (default today)")
	cmd.Flags().BoolVar(&opts.NoAI, "no-ai", false, "skip OpenAI enrichment even when a key is configured")
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "use the sample leaderboard instead of fetching")
	return cmd
}
