package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/remindr/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change preferences",
	Long: `Show the active configuration. Flags change a preference and save it.

Usage:
  remindr config --show-completed=true
  remindr config --default-list Work`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("show-completed") || flags.Changed("default-list") || flags.Changed("sweep-seconds") {
			saved, err := config.Update(path, func(c *config.Config) {
				if flags.Changed("show-completed") {
					c.ShowCompleted, _ = flags.GetBool("show-completed")
				}
				if flags.Changed("default-list") {
					c.DefaultList, _ = flags.GetString("default-list")
				}
				if flags.Changed("sweep-seconds") {
					c.SweepSeconds, _ = flags.GetInt("sweep-seconds")
				}
			})
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			cfg.ShowCompleted = saved.ShowCompleted
			cfg.DefaultList = saved.DefaultList
			cfg.SweepSeconds = saved.SweepSeconds
			fmt.Printf("Saved %s\n", path)
		}

		fmt.Printf("config:         %s\n", path)
		fmt.Printf("db_path:        %s\n", cfg.DBPath)
		fmt.Printf("sweep_seconds:  %d\n", cfg.SweepSeconds)
		fmt.Printf("show_completed: %t\n", cfg.ShowCompleted)
		fmt.Printf("default_list:   %s\n", cfg.DefaultList)
		fmt.Printf("log.level:      %s\n", cfg.Log.Level)
		fmt.Printf("log.file:       %s\n", cfg.Log.File)
		return nil
	},
}

func init() {
	configCmd.Flags().Bool("show-completed", false, "Show completed reminders in list views")
	configCmd.Flags().String("default-list", "", "List new reminders go to when none is given")
	configCmd.Flags().Int("sweep-seconds", config.DefaultSweepSeconds, "Seconds between overdue sweeps")
}
