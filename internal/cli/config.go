package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tradocflow/tradocflow/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize the workstation config",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the resolved config (defaults if no file exists) to config.toml",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := config.Save(configPath, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved config",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("storage.project_root = %s\n", cfg.Storage.ProjectRoot)
		fmt.Printf("tm.max_results       = %d\n", cfg.TM.MaxResults)
		fmt.Printf("performance.budget_bytes = %d\n", cfg.Performance.BudgetBytes)
		fmt.Printf("languages.source      = %s\n", cfg.Languages.Source)
		fmt.Printf("languages.targets     = %v\n", cfg.Languages.Targets)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
