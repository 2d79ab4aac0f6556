package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var verboseFlag bool
	opts := &packFlags{}

	ctx := newCommandContext(&configFlag, &logLevelFlag, &verboseFlag)

	rootCmd := &cobra.Command{
		Use:   "rawpack [flags] [folder]",
		Short: "Package RAW photos as viewable JPEGs carrying the original",
		Long: "rawpack writes one packaged file per RAW photo: a JPEG thumbnail that any viewer\n" +
			"opens, followed by a stored ZIP archive holding the untouched original.",
		Args:          cobra.ArbitraryArgs,
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
			return runPack(cmd, ctx, opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override logging.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Mirror log output to stderr")

	flags := rootCmd.Flags()
	flags.StringVar(&opts.mode, "mode", modePack, "Operation mode: pack or unpack")
	flags.StringVar(&opts.path, "path", "", "Folder to package (defaults to the first folder argument)")
	flags.StringVar(&opts.filter, "filter", "", "Glob applied to file names, e.g. \"*.cr2\" (default from pack.filter)")
	flags.BoolVar(&opts.recursive, "recursive", false, "Descend into subfolders, mirroring them in the output (default from pack.recursive)")
	flags.StringVar(&opts.out, "out", "", "Output folder (defaults to the source folder)")
	flags.BoolVar(&opts.summary, "summary", true, "Print a summary table after the run")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVerifyCommand())
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))

	return rootCmd
}
