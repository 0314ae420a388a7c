package main

import (
	"recipepress/globals"
	"recipepress/logging"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "rpr",
		Short:         "Recipe rendering and inspection tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			globals.LoadEnv()
			if logLevel == "" {
				logLevel = globals.LogLevel
			}
			_, err := logging.Init(logLevel)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newSchemaCommand())
	rootCmd.AddCommand(newMetaCommand())
	rootCmd.AddCommand(newRatingsCommand())

	return rootCmd
}
