package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/ph-daily/internal/config"
	"github.com/bryanwahyu/ph-daily/internal/infra/reports"
)

func newReportsCmd(rf *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect generated reports",
	}
	cmd.AddCommand(newReportsLatestCmd(rf), newReportsListCmd(rf))
	return cmd
}

func reportsDir(cfg *config.Config) string {
	return filepath.Join(cfg.Bootstrap.WorkDir, cfg.Bootstrap.ReportsDir)
}

func newReportsLatestCmd(rf *rootFlags) *cobra.Command {
	var lines int
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Print the beginning of the newest report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rf)
			if err != nil {
				return err
			}
			if lines <= 0 {
				lines = cfg.Bootstrap.PreviewLines
			}
			info, ok, err := reports.Newest(reportsDir(cfg), cfg.Bootstrap.ReportPattern)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "No reports yet. Run `phdaily analyze` first.")
				return nil
			}
			preview, err := reports.Preview(info.Path, lines)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "📄 %s (%s)\n\n", info.Path, humanize.Time(info.ModTime))
			for _, l := range preview {
				fmt.Fprintln(out, l)
			}
			fmt.Fprintln(out, reports.EllipsisMarker)
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "lines to print (default bootstrap.previewLines)")
	return cmd
}

func newReportsListCmd(rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rf)
			if err != nil {
				return err
			}
			list, err := reports.List(reportsDir(cfg), cfg.Bootstrap.ReportPattern)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED")
			for _, r := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, humanize.Bytes(uint64(r.Size)), humanize.Time(r.ModTime))
			}
			return tw.Flush()
		},
	}
}
