// Package main implements the triage CLI: a batch pipeline that fetches
// open issues from a GitHub repository, filters and classifies them, and
// keeps a local ledger of what is worth working on.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/config"
)

var rootCtx context.Context

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Find WordPress Gutenberg issues worth working on",
	Long: `triage keeps a local ledger of open issues from a GitHub repository,
classifies the promising ones with an LLM, and ranks them into a worklist.

Typical flow:
  triage init       # create the ledger and run the first pass
  triage update     # pick up new and changed issues
  triage picks      # show the ranked worklist

Configuration lives in .triage/config.yaml or TRIAGE_* environment
variables (TRIAGE_GITHUB_TOKEN, TRIAGE_ANTHROPIC_API_KEY, ...).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Initialize()
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "triage", Title: "Triage:"},
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "setup", Title: "Setup:"},
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCtx = ctx

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
