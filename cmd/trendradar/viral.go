package main

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	viralThreshold float64
	viralPlatforms []string
)

var viralCmd = &cobra.Command{
	Use:   "viral",
	Short: "Detect keywords spiking day over day",
	Long: `Compare today's keyword frequencies against yesterday's and flag keywords
whose count grew at least threshold-fold, plus significant brand-new keywords.`,
	Args: cobra.NoArgs,
	Run:  runViral,
}

func init() {
	viralCmd.Flags().Float64Var(&viralThreshold, "threshold", 0, "Growth factor to flag (default 3.0, minimum 1.0)")
	viralCmd.Flags().StringSliceVar(&viralPlatforms, "platforms", nil, "Platform ids to scan (default: all)")
	rootCmd.AddCommand(viralCmd)
}

func runViral(cmd *cobra.Command, args []string) {
	started := time.Now()
	a := mustGetApp()
	defer a.close()

	result, err := a.analytics.Viral(newContext(), viralThreshold, viralPlatforms)
	if err != nil {
		a.record("detect_viral_topics", 0, 0, started, err)
		fail(err)
	}

	a.record("detect_viral_topics", result.Total, len(result.Topics), started, nil)
	printJSON(result)
}

var (
	predictConfidence float64
	predictPlatforms  []string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict keywords likely to keep rising",
	Long: `Extrapolate keyword counts from the last four days and list keywords whose
latest growth suggests continued momentum, with a confidence per prediction.`,
	Args: cobra.NoArgs,
	Run:  runPredict,
}

func init() {
	predictCmd.Flags().Float64Var(&predictConfidence, "confidence", 0.6, "Minimum prediction confidence (0-1)")
	predictCmd.Flags().StringSliceVar(&predictPlatforms, "platforms", nil, "Platform ids to scan (default: all)")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) {
	started := time.Now()
	a := mustGetApp()
	defer a.close()

	result, err := a.analytics.Predict(newContext(), predictConfidence, predictPlatforms)
	if err != nil {
		a.record("predict_trending_topics", 0, 0, started, err)
		fail(err)
	}

	a.record("predict_trending_topics", result.TotalPredicted, len(result.Topics), started, nil)
	printJSON(result)
}
