package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnledger/internal/buildinfo"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	dir    string
	config string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "txnledger",
		Short:   "Generate and summarize a streaming transaction ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "project directory")
	rootCmd.PersistentFlags().StringVar(&opts.config, "config", "", "config file (default <dir>/ledger.yaml)")

	rootCmd.AddCommand(newInitCommand(opts))
	rootCmd.AddCommand(newGenerateCommand(opts))
	rootCmd.AddCommand(newSummarizeCommand(opts))
	rootCmd.AddCommand(newRunCommand(opts))

	return rootCmd
}
