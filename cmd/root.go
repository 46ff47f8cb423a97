package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "flowmatch",
	Short: "Knowledge-driven matching and validation for integration flows",
	Long: `Flowmatch classifies natural-language feature descriptions against a
catalog of integration flows, validates request payloads against
compiled knowledge rules, and categorizes error messages. It integrates
with AI agents via MCP and exposes the same operations over REST.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".flowmatch.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
