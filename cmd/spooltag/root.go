package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var deviceFlag string
	var verbose bool

	ctx := newCommandContext(&configFlag, &deviceFlag, &verbose)

	rootCmd := &cobra.Command{
		Use:           "spooltag",
		Short:         "Read and program OpenSpool RFID filament tags",
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
	rootCmd.PersistentFlags().StringVar(&deviceFlag, "device", "", "Printer API URL (overrides device.url)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror logs to stderr")

	rootCmd.AddCommand(newTagsCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newWriteCommand(ctx))
	rootCmd.AddCommand(newEraseCommand(ctx))
	rootCmd.AddCommand(newMaterialsCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newSimulateCommand(ctx))

	return rootCmd
}
