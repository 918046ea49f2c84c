package main

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	compareStart string
	compareEnd   string
)

var compareCmd = &cobra.Command{
	Use:   "compare <topic>",
	Short: "Compare platform attention to a topic",
	Long: `Rank platforms by how much attention they give a topic over a date range:
mention counts, coverage rate and each platform's top keywords.`,
	Args: cobra.ExactArgs(1),
	Run:  runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareStart, "start", "", "Range start (default: today)")
	compareCmd.Flags().StringVar(&compareEnd, "end", "", "Range end")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) {
	started := time.Now()
	a := mustGetApp()
	defer a.close()

	start, end, err := a.resolveRange(compareStart, compareEnd)
	if err != nil {
		fail(err)
	}

	result, err := a.analytics.ComparePlatforms(newContext(), args[0], start, end)
	if err != nil {
		a.record("compare_platforms", 0, 0, started, err)
		fail(err)
	}

	a.record("compare_platforms", result.TotalPlatforms, result.TotalPlatforms, started, nil)
	printJSON(result)
}

var (
	activityStart string
	activityEnd   string
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Per-platform publishing cadence",
	Long: `Report per-platform news volume, days active and busiest snapshot hours
over a date range.`,
	Args: cobra.NoArgs,
	Run:  runActivity,
}

func init() {
	activityCmd.Flags().StringVar(&activityStart, "start", "", "Range start (default: today)")
	activityCmd.Flags().StringVar(&activityEnd, "end", "", "Range end")
	rootCmd.AddCommand(activityCmd)
}

func runActivity(cmd *cobra.Command, args []string) {
	started := time.Now()
	a := mustGetApp()
	defer a.close()

	start, end, err := a.resolveRange(activityStart, activityEnd)
	if err != nil {
		fail(err)
	}

	result, err := a.analytics.PlatformActivity(newContext(), start, end)
	if err != nil {
		a.record("platform_activity", 0, 0, started, err)
		fail(err)
	}

	a.record("platform_activity", result.TotalPlatforms, result.TotalPlatforms, started, nil)
	printJSON(result)
}

var (
	cooccurDate      string
	cooccurMinFreq   int
	cooccurTop       int
	cooccurPlatforms []string
)

var cooccurCmd = &cobra.Command{
	Use:   "cooccur",
	Short: "Keyword pairs appearing together in titles",
	Args:  cobra.NoArgs,
	Run:   runCooccur,
}

func init() {
	cooccurCmd.Flags().StringVar(&cooccurDate, "date", "", "Day to analyse (default: today)")
	cooccurCmd.Flags().IntVar(&cooccurMinFreq, "min-frequency", 0, "Minimum pair count to report (default 3)")
	cooccurCmd.Flags().IntVar(&cooccurTop, "top", 0, "Maximum pairs to report (default 20)")
	cooccurCmd.Flags().StringSliceVar(&cooccurPlatforms, "platforms", nil, "Platform ids to scan (default: all)")
	rootCmd.AddCommand(cooccurCmd)
}

func runCooccur(cmd *cobra.Command, args []string) {
	started := time.Now()
	a := mustGetApp()
	defer a.close()

	date, err := a.resolveDate(cooccurDate)
	if err != nil {
		fail(err)
	}

	result, err := a.analytics.Cooccurrence(newContext(), date, cooccurMinFreq, cooccurTop, cooccurPlatforms)
	if err != nil {
		a.record("keyword_cooccurrence", 0, 0, started, err)
		fail(err)
	}

	a.record("keyword_cooccurrence", result.TotalPairs, len(result.Pairs), started, nil)
	printJSON(result)
}
