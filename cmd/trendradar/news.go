package main

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	latestPlatforms []string
	latestLimit     int
	latestURLs      bool
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Today's merged news sorted by rank",
	Args:  cobra.NoArgs,
	Run:   runLatest,
}

func init() {
	latestCmd.Flags().StringSliceVar(&latestPlatforms, "platforms", nil, "Platform ids to include (default: all)")
	latestCmd.Flags().IntVar(&latestLimit, "limit", 0, "Maximum rows (default 50)")
	latestCmd.Flags().BoolVar(&latestURLs, "urls", false, "Include article URLs")
	rootCmd.AddCommand(latestCmd)
}

func runLatest(cmd *cobra.Command, args []string) {
	started := time.Now()
	a := mustGetApp()
	defer a.close()

	result, err := a.analytics.LatestNews(latestPlatforms, latestLimit, latestURLs)
	if err != nil {
		a.record("get_latest_news", 0, 0, started, err)
		fail(err)
	}

	a.record("get_latest_news", result.Total, len(result.News), started, nil)
	printJSON(result)
}

var (
	bydatePlatforms []string
	bydateLimit     int
	bydateURLs      bool
)

var bydateCmd = &cobra.Command{
	Use:   "bydate <date>",
	Short: "One day's news, date given in natural language",
	Long: `Return one day's merged news. The date accepts natural language
expressions, Chinese or English, as well as absolute dates.

Examples:
  trendradar bydate 昨天
  trendradar bydate "3 days ago"
  trendradar bydate 2025-10-09`,
	Args: cobra.ExactArgs(1),
	Run:  runByDate,
}

func init() {
	bydateCmd.Flags().StringSliceVar(&bydatePlatforms, "platforms", nil, "Platform ids to include (default: all)")
	bydateCmd.Flags().IntVar(&bydateLimit, "limit", 0, "Maximum rows (default 50)")
	bydateCmd.Flags().BoolVar(&bydateURLs, "urls", false, "Include article URLs")
	rootCmd.AddCommand(bydateCmd)
}

func runByDate(cmd *cobra.Command, args []string) {
	started := time.Now()
	a := mustGetApp()
	defer a.close()

	result, err := a.analytics.NewsByDate(args[0], bydatePlatforms, bydateLimit, bydateURLs)
	if err != nil {
		a.record("get_news_by_date", 0, 0, started, err)
		fail(err)
	}

	a.record("get_news_by_date", result.Total, len(result.News), started, nil)
	printJSON(result)
}
