package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ngxdduong/TrendRadar/internal/config"
)

var (
	topicsTop       int
	topicsMode      string
	topicsPlatforms []string
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Watched-keyword frequencies over today's titles",
	Long: `Count how often each watched keyword from config/frequency_words.txt
appears in today's titles and return the top N.`,
	Args: cobra.NoArgs,
	Run:  runTopics,
}

func init() {
	topicsCmd.Flags().IntVar(&topicsTop, "top", 0, "Number of keywords to return (default 10)")
	topicsCmd.Flags().StringVar(&topicsMode, "mode", "", "Aggregation mode (daily, current)")
	topicsCmd.Flags().StringSliceVar(&topicsPlatforms, "platforms", nil, "Platform ids to include (default: all)")
	rootCmd.AddCommand(topicsCmd)
}

func runTopics(cmd *cobra.Command, args []string) {
	started := time.Now()
	a := mustGetApp()
	defer a.close()

	wordGroups, err := config.ParseFrequencyWords(filepath.Join(rootDir, "config", "frequency_words.txt"))
	if err != nil {
		fail(err)
	}

	result, err := a.analytics.TrendingTopics(wordGroups, topicsTop, topicsMode, topicsPlatforms)
	if err != nil {
		a.record("get_trending_topics", 0, 0, started, err)
		fail(err)
	}

	a.record("get_trending_topics", result.TotalKeywords, len(result.Topics), started, nil)
	printJSON(result)
}
