package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configDir string

	rootCmd := &cobra.Command{
		Use:          "hospital-api",
		Short:        "Hospital records API",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", "", "Directory containing config.yaml")

	rootCmd.AddCommand(serveCmd(&configDir))
	rootCmd.AddCommand(migrateCmd(&configDir))
	rootCmd.AddCommand(seedCmd(&configDir))
	rootCmd.AddCommand(eventsCmd(&configDir))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
