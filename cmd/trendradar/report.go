package main

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	reportType  string
	reportStart string
	reportEnd   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a markdown digest of a date range",
	Long: `Render a markdown digest: volume overview, top keywords, platform
activity and a weight-ranked news sample. Daily covers today, weekly the
last seven days; explicit --start/--end override both.`,
	Args: cobra.NoArgs,
	Run:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportType, "type", "daily", "Report type (daily, weekly)")
	reportCmd.Flags().StringVar(&reportStart, "start", "", "Range start override")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "Range end override")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) {
	started := time.Now()
	a := mustGetApp()
	defer a.close()

	start, end, err := a.resolveRange(reportStart, reportEnd)
	if err != nil {
		fail(err)
	}

	result, err := a.analytics.SummaryReport(newContext(), reportType, start, end)
	if err != nil {
		a.record("generate_summary_report", 0, 0, started, err)
		fail(err)
	}

	a.record("generate_summary_report", result.TotalNews, 1, started, nil)
	printJSON(result)
}
