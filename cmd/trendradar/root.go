package main

import (
	"github.com/spf13/cobra"

	"github.com/ngxdduong/TrendRadar/internal/version"
)

var (
	rootDir      string
	dataDirFlag  string
	logLevelFlag string
	logFormat    string
)

var rootCmd = &cobra.Command{
	Use:   "trendradar",
	Short: "TrendRadar - trending topics corpus engine",
	Long: `TrendRadar indexes the trending-topic snapshots the crawler writes under
output/<date>/txt/ and answers search, history and time-series questions
over them: multi-mode search, related history, trends, lifecycle staging,
viral detection and short-horizon prediction.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("TrendRadar version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".",
		"Project root holding config/ and the data directory")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data", "",
		"Data directory override (default: dataDir from config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error (default: from config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Log format: human, json (default: from config)")
}
