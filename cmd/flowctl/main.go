// Command flowctl loads and runs declarative flowcore pipeline
// definitions: a persistent --config flag loads process configuration
// before any subcommand runs, and a persistent --json flag selects
// machine-readable output.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowforge/flowcore/internal/engineconfig"
)

var (
	cfgFile  string
	jsonFlag bool

	cfg *engineconfig.Config
)

var rootCmd = &cobra.Command{
	Use:   "flowctl",
	Short: "Inspect, run, and diff flowcore pipeline definitions",
	Long: `flowctl loads declarative pipeline definitions (YAML or TOML) and
drives them through the flowcore scheduler.

It allows you to:
  - Validate a definition's structure before running it
  - Print a pipeline's topological or level-grouped execution order
  - Render a step's free-form description as Markdown
  - Run a pipeline, optionally with a live dashboard or hot reload
  - Diff two definitions' schedules for code review`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			cfg = engineconfig.Default()
			return nil
		}
		var err error
		cfg, err = engineconfig.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output in JSON format")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
