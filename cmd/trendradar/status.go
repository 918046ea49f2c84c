package main

import (
	"github.com/spf13/cobra"

	"github.com/ngxdduong/TrendRadar/internal/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "System health: data range, storage footprint, cache and metrics",
	Args:  cobra.NoArgs,
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	a := mustGetApp()
	defer a.close()

	collector := status.NewCollector(a.dataDir, a.index, a.store, a.cfg, a.metrics)
	result, err := collector.Collect()
	if err != nil {
		fail(err)
	}
	printJSON(result)
}
