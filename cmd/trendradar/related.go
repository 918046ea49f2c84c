package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ngxdduong/TrendRadar/internal/search"
)

var (
	relatedPreset    string
	relatedStart     string
	relatedEnd       string
	relatedThreshold float64
	relatedLimit     int
	relatedPlatforms []string
	relatedURLs      bool
)

var relatedCmd = &cobra.Command{
	Use:   "related <reference>",
	Short: "Find historical news related to a reference text",
	Long: `Find historical news related to a reference text. Relevance combines
keyword overlap with the reference (70%) and raw text similarity (30%).

Time presets: yesterday, last_week, last_month, custom (with --start/--end).

Examples:
  trendradar related "特斯拉宣布降价"
  trendradar related "特斯拉宣布降价" --preset=last_week
  trendradar related "特斯拉宣布降价" --preset=custom --start=2025-10-01 --end=2025-10-07`,
	Args: cobra.ExactArgs(1),
	Run:  runRelated,
}

func init() {
	relatedCmd.Flags().StringVar(&relatedPreset, "preset", "yesterday", "Time preset (yesterday, last_week, last_month, custom)")
	relatedCmd.Flags().StringVar(&relatedStart, "start", "", "Custom range start")
	relatedCmd.Flags().StringVar(&relatedEnd, "end", "", "Custom range end")
	relatedCmd.Flags().Float64Var(&relatedThreshold, "threshold", 0, "Minimum combined score (0-1)")
	relatedCmd.Flags().IntVar(&relatedLimit, "limit", 0, "Maximum number of results")
	relatedCmd.Flags().StringSliceVar(&relatedPlatforms, "platforms", nil, "Platform ids to search (default: all)")
	relatedCmd.Flags().BoolVar(&relatedURLs, "urls", false, "Include article URLs in results")
	rootCmd.AddCommand(relatedCmd)
}

func runRelated(cmd *cobra.Command, args []string) {
	started := time.Now()
	a := mustGetApp()
	defer a.close()

	start, end, err := a.resolveRange(relatedStart, relatedEnd)
	if err != nil {
		fail(err)
	}

	result, err := a.search.Related(newContext(), search.RelatedRequest{
		Reference:  args[0],
		Preset:     search.Preset(relatedPreset),
		Start:      start,
		End:        end,
		Threshold:  relatedThreshold,
		Limit:      relatedLimit,
		Platforms:  relatedPlatforms,
		IncludeURL: relatedURLs,
	})
	if err != nil {
		a.record("get_related_news", 0, 0, started, err)
		fail(err)
	}

	a.record("get_related_news", result.TotalMatched, len(result.Matches), started, nil)
	printJSON(result)
}

var (
	similarDate      string
	similarThreshold float64
	similarLimit     int
	similarURLs      bool
)

var similarCmd = &cobra.Command{
	Use:   "similar <title>",
	Short: "Find titles similar to a reference title on one day",
	Args:  cobra.ExactArgs(1),
	Run:   runSimilar,
}

func init() {
	similarCmd.Flags().StringVar(&similarDate, "date", "", "Day to search (default: today)")
	similarCmd.Flags().Float64Var(&similarThreshold, "threshold", 0.5, "Minimum similarity ratio (0-1)")
	similarCmd.Flags().IntVar(&similarLimit, "limit", 0, "Maximum number of results")
	similarCmd.Flags().BoolVar(&similarURLs, "urls", false, "Include article URLs in results")
	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) {
	started := time.Now()
	a := mustGetApp()
	defer a.close()

	date, err := a.resolveDate(similarDate)
	if err != nil {
		fail(err)
	}
	if date.IsZero() {
		date = a.resolver.Today()
	}

	result, err := a.search.Similar(date, args[0], similarThreshold, similarLimit, similarURLs)
	if err != nil {
		a.record("find_similar_news", 0, 0, started, err)
		fail(err)
	}

	a.record("find_similar_news", result.TotalMatched, result.Returned, started, nil)
	printJSON(result)
}
