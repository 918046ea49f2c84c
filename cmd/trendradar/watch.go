package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ngxdduong/TrendRadar/internal/watcher"
)

var watchDebounceMs int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the data directory and invalidate stale cached days",
	Long: `Watch the data directory for snapshot writes and drop the affected day
from the cache, so long-running readers see new data immediately instead of
waiting out the freshness window. Runs until interrupted.`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounceMs, "debounce-ms", 2000, "Quiet period before invalidation, in milliseconds")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	a := mustGetApp()
	defer a.close()

	w, err := watcher.New(a.dataDir, a.index, watcher.Config{
		Debounce: time.Duration(watchDebounceMs) * time.Millisecond,
	}, a.logger, func(date time.Time) {
		fmt.Printf("invalidated %s\n", date.Format("2006-01-02"))
	})
	if err != nil {
		fail(err)
	}
	if err := w.Start(); err != nil {
		fail(err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	if err := w.Stop(); err != nil {
		a.logger.Warn("watcher shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
