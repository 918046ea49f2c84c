package main

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	trendStart       string
	trendEnd         string
	trendPlatforms   []string
	trendGranularity string
)

var trendCmd = &cobra.Command{
	Use:   "trend <topic>",
	Short: "Per-day mention series and trend direction of a topic",
	Long: `Build the per-day mention series of a topic over a date range and derive
peak, average and change rate. Days without data count zero mentions.

Examples:
  trendradar trend AI
  trendradar trend 特斯拉 --start=7天前 --end=today`,
	Args: cobra.ExactArgs(1),
	Run:  runTrend,
}

func init() {
	trendCmd.Flags().StringVar(&trendStart, "start", "", "Range start (default: 7 days ending today)")
	trendCmd.Flags().StringVar(&trendEnd, "end", "", "Range end")
	trendCmd.Flags().StringSliceVar(&trendPlatforms, "platforms", nil, "Platform ids to scan (default: all)")
	trendCmd.Flags().StringVar(&trendGranularity, "granularity", "day", "Series granularity (only day is supported)")
	rootCmd.AddCommand(trendCmd)
}

func runTrend(cmd *cobra.Command, args []string) {
	started := time.Now()
	a := mustGetApp()
	defer a.close()

	start, end, err := a.resolveRange(trendStart, trendEnd)
	if err != nil {
		fail(err)
	}

	result, err := a.analytics.Trend(newContext(), args[0], start, end, trendPlatforms, trendGranularity)
	if err != nil {
		a.record("get_topic_trend", 0, 0, started, err)
		fail(err)
	}

	a.record("get_topic_trend", result.TotalMentions, len(result.Series), started, nil)
	printJSON(result)
}

var (
	lifecycleStart     string
	lifecycleEnd       string
	lifecyclePlatforms []string
)

var lifecycleCmd = &cobra.Command{
	Use:   "lifecycle <topic>",
	Short: "Lifecycle stage and type of a topic",
	Long: `Classify where a topic stands in its life span: stage (rising, declining,
bursting, stable) and type (flash, sustained, periodic).`,
	Args: cobra.ExactArgs(1),
	Run:  runLifecycle,
}

func init() {
	lifecycleCmd.Flags().StringVar(&lifecycleStart, "start", "", "Range start (default: 7 days ending today)")
	lifecycleCmd.Flags().StringVar(&lifecycleEnd, "end", "", "Range end")
	lifecycleCmd.Flags().StringSliceVar(&lifecyclePlatforms, "platforms", nil, "Platform ids to scan (default: all)")
	rootCmd.AddCommand(lifecycleCmd)
}

func runLifecycle(cmd *cobra.Command, args []string) {
	started := time.Now()
	a := mustGetApp()
	defer a.close()

	start, end, err := a.resolveRange(lifecycleStart, lifecycleEnd)
	if err != nil {
		fail(err)
	}

	result, err := a.analytics.Lifecycle(newContext(), args[0], start, end, lifecyclePlatforms)
	if err != nil {
		a.record("analyze_topic_lifecycle", 0, 0, started, err)
		fail(err)
	}

	a.record("analyze_topic_lifecycle", result.ActiveDays, len(result.Series), started, nil)
	printJSON(result)
}
