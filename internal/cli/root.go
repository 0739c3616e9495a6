// Package cli is the tradocflow command-line front end: a thin cobra
// surface over the config, TM, structure, and alignment packages for
// scripting and smoke-testing a project without the desktop UI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tradocflow/tradocflow/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tradocflow",
	Short: "TradocFlow multi-language document workstation CLI",
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "~/.tradocflow/config.toml", "path to config.toml")
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(tmCmd)
	rootCmd.AddCommand(alignCmd)
	rootCmd.AddCommand(structureCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
