package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ngxdduong/TrendRadar/internal/search"
)

var (
	searchMode      string
	searchStart     string
	searchEnd       string
	searchPlatforms []string
	searchLimit     int
	searchSort      string
	searchThreshold float64
	searchURLs      bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search news titles",
	Long: `Search news titles across a date range.

Modes:
  keyword  case-insensitive substring match (default)
  fuzzy    substring, then similarity ratio, then token overlap
  entity   case-sensitive exact containment

Examples:
  trendradar search 特斯拉
  trendradar search tesla --mode=fuzzy --threshold=0.7
  trendradar search 特斯拉 --start=昨天 --end=today --sort=weight`,
	Args: cobra.ExactArgs(1),
	Run:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchMode, "mode", "keyword", "Search mode (keyword, fuzzy, entity)")
	searchCmd.Flags().StringVar(&searchStart, "start", "", "Range start, natural language or YYYY-MM-DD")
	searchCmd.Flags().StringVar(&searchEnd, "end", "", "Range end")
	searchCmd.Flags().StringSliceVar(&searchPlatforms, "platforms", nil, "Platform ids to search (default: all)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchSort, "sort", "relevance", "Sort order (relevance, weight, date)")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", 0, "Fuzzy similarity threshold (0-1)")
	searchCmd.Flags().BoolVar(&searchURLs, "urls", false, "Include article URLs in results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	started := time.Now()
	a := mustGetApp()
	defer a.close()

	start, end, err := a.resolveRange(searchStart, searchEnd)
	if err != nil {
		fail(err)
	}

	result, err := a.search.Search(newContext(), search.Request{
		Query:      args[0],
		Mode:       search.Mode(searchMode),
		Start:      start,
		End:        end,
		Platforms:  searchPlatforms,
		Limit:      searchLimit,
		SortBy:     search.Sort(searchSort),
		Threshold:  searchThreshold,
		IncludeURL: searchURLs,
	})
	if err != nil {
		a.record("search_news", 0, 0, started, err)
		fail(err)
	}

	a.record("search_news", result.TotalMatched, result.Returned, started, nil)
	printJSON(result)
}
