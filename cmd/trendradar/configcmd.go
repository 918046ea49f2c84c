package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ngxdduong/TrendRadar/internal/config"
)

var (
	configSection string
	configAsYAML  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration, optionally projected to one section:
all, crawler, push, keywords, weights.`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().StringVar(&configSection, "section", "", "Section to show (all, crawler, push, keywords, weights)")
	configCmd.Flags().BoolVar(&configAsYAML, "yaml", false, "Render as YAML instead of JSON")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) {
	a := mustGetApp()
	defer a.close()

	wordGroups, err := config.ParseFrequencyWords(filepath.Join(rootDir, "config", "frequency_words.txt"))
	if err != nil {
		fail(err)
	}

	section, err := a.cfg.Section(configSection, wordGroups)
	if err != nil {
		fail(err)
	}

	if configAsYAML {
		out, err := yaml.Marshal(section)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(string(out))
		return
	}
	printJSON(section)
}
