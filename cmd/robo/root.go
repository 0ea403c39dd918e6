package main

import (
	"github.com/spf13/cobra"

	"github.com/anggasct/robo/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "robo",
		Short: "robo runs and draws declarative state machines",
		Long: `robo ships a set of demo machines. It can list them, export their
structure as DOT, Mermaid, YAML or JSON, and drive them with events.

Settings are read from the environment (ROBO_LOG_LEVEL, ROBO_LOG_FORMAT,
ROBO_STRICT, ROBO_TASK_TIMEOUT) and an optional .env file; flags win.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("env-file", "", "Load settings from this .env file")

	root.AddCommand(newListCmd(), newGraphCmd(), newRunCmd())
	return root
}

// loadConfig reads the settings, honoring --env-file.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		return config.Load(envFile)
	}
	return config.Load()
}
