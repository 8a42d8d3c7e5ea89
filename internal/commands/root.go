package commands

import (
	"github.com/spf13/cobra"

	"github.com/Yus314/MoLe-sub005/internal/buildinfo"
)

// globals are the persistent flags shared by every subcommand.
type globals struct {
	dir     string
	verbose bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "hlsync",
		Short:   "Sync hledger-web ledgers into a local database",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.dir, "dir", ".", "project directory holding "+configFile)
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "also log to stderr")

	rootCmd.AddCommand(
		newInitCommand(g),
		newProfileCommand(g),
		newSyncCommand(g),
		newAccountsCommand(g),
		newTransactionsCommand(g),
		newHistoryCommand(g),
	)

	return rootCmd
}
