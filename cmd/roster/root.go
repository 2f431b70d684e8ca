package main

import (
	"github.com/spf13/cobra"

	"roster/internal/roster"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var dataFlag string
	var jsonFlag bool

	ctx := newCommandContext(&configFlag, &dataFlag, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:           "roster",
		Short:         "Manage student coursework and exam marks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&dataFlag, "data", "", "Roster data file (forces the text backend)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Write JSON instead of tables")

	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newAddCommand(ctx))
	rootCmd.AddCommand(newEditCommand(ctx))
	rootCmd.AddCommand(newDeleteCommand(ctx))
	rootCmd.AddCommand(newExtremumCommand(ctx, roster.Highest))
	rootCmd.AddCommand(newExtremumCommand(ctx, roster.Lowest))
	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newShellCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
