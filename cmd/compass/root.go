package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"compass/internal/logging"
	"compass/internal/project"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	config    string
	logLevel  string
	logFormat string
}

// cfg is the resolved project configuration, loaded before any subcommand
// runs.
var cfg *project.Config

var rootCmd = &cobra.Command{
	Use:   "compass",
	Short: "Compile BDD specifications into durable action graphs",
	Long: "Compass compiles Gherkin-style specifications into canonical, content-addressed\n" +
		"graphs of UI actions, generates executable step definitions from them, and\n" +
		"resolves declarative selector hints against the live page at run time.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		if rootFlags.config != "" {
			cfg, err = project.LoadFromPath(rootFlags.config)
		} else {
			cfg, err = project.Discover(".")
		}
		if err != nil {
			return err
		}

		level := cfg.Log.Level
		if cmd.Flags().Changed("log-level") {
			level = rootFlags.logLevel
		}
		format := cfg.Log.Format
		if cmd.Flags().Changed("log-format") {
			format = rootFlags.logFormat
		}
		return logging.Setup(level, format)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.config, "config", "", "Project config path (default: discover compass.yaml)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
