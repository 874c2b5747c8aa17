package main

import (
	"github.com/spf13/cobra"
)

// newRootCommand builds the command tree. The returned func releases the
// logger and must run after Execute, whether or not the command failed.
func newRootCommand() (*cobra.Command, func()) {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "playclips",
		Short:         "Browse a PlayClips catalog and pick weighted random clips",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env", "Optional dotenv file to read before the environment")
	pf.StringVarP(&flags.baseURL, "url", "u", "", "Catalog base URL (overrides PLAYCLIPS_BASE_URL)")
	pf.StringVarP(&flags.quality, "quality", "q", "", "Video quality: high, medium or low (overrides PLAYCLIPS_QUALITY)")
	pf.Uint64Var(&flags.seed, "seed", 0, "Seed for clip selection (overrides PLAYCLIPS_SEED)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newInfluencersCommand(ctx))
	rootCmd.AddCommand(newTagsCommand(ctx))
	rootCmd.AddCommand(newVideosCommand(ctx))
	rootCmd.AddCommand(newPlayCommand(ctx))
	rootCmd.AddCommand(newVerifyCommand(ctx))

	return rootCmd, ctx.close
}
