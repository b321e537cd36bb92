package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "videonote",
		Short:         "Turn video transcripts into illustrated, timestamped notes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newAnalyzeCommand(&configFlag))
	rootCmd.AddCommand(newWatchCommand(&configFlag))
	rootCmd.AddCommand(newServeCommand(&configFlag))

	return rootCmd
}
