package main

import (
	"time"

	"github.com/spf13/cobra"
)

var sweepMaxAge int

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Evict cache entries older than a maximum age",
	Args:  cobra.NoArgs,
	Run:   runSweep,
}

func init() {
	sweepCmd.Flags().IntVar(&sweepMaxAge, "max-age", 3600, "Maximum entry age in seconds")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) {
	a := mustGetApp()
	defer a.close()

	removed := a.store.SweepExpired(time.Duration(sweepMaxAge) * time.Second)
	printJSON(map[string]interface{}{
		"removed_entries": removed,
		"cache":           a.store.GetStats(),
	})
}
