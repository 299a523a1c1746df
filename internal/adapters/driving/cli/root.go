// Package cli provides the command-line interface for subsync.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/subsync-cli/internal/logger"
)

// version is the CLI version, overridable at build time via -ldflags.
var version = "0.1.0"

var (
	verboseFlag bool
	configDir   string
)

var rootCmd = &cobra.Command{
	Use:   "subsync",
	Short: "Mirror YouTube subscriptions to a Google Sheet, both ways",
	Long: `subsync keeps a Google Sheet in sync with a YouTube account's
subscription list. The pull job copies new subscriptions into the sheet;
the push job subscribes the account to channels listed in the sheet that
it is not yet subscribed to.

Both jobs resume from persisted checkpoints, so interrupted or
quota-limited runs continue where they left off.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "",
		"config and state directory (default ~/.subsync)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
