package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ngxdduong/TrendRadar/internal/export"
)

var (
	exportStart     string
	exportEnd       string
	exportPlatforms []string
	exportOut       string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Archive day indexes as gzip-compressed JSON",
	Long: `Archive every day of a date range into an output directory, one
<day>.json.gz per day plus a manifest.json describing the run.

Examples:
  trendradar export --start=7天前 --end=today --out=archive/
  trendradar export --start=2025-10-01 --end=2025-10-07 --out=/tmp/trendradar`,
	Args: cobra.NoArgs,
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportStart, "start", "", "Range start")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "Range end (default: today)")
	exportCmd.Flags().StringSliceVar(&exportPlatforms, "platforms", nil, "Platform ids to include (default: all)")
	exportCmd.Flags().StringVar(&exportOut, "out", "export", "Output directory")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	started := time.Now()
	a := mustGetApp()
	defer a.close()

	start, end, err := a.resolveRange(exportStart, exportEnd)
	if err != nil {
		fail(err)
	}
	if start.IsZero() {
		start = a.resolver.Today()
		end = start
	}

	exporter := export.NewExporter(a.index, a.logger)
	manifest, err := exporter.ExportRange(newContext(), start, end, exportPlatforms, exportOut)
	if err != nil {
		a.record("export_range", 0, 0, started, err)
		fail(err)
	}

	a.record("export_range", manifest.TotalTitles, len(manifest.Files), started, nil)
	printJSON(manifest)
}
