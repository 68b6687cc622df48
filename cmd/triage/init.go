package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/config"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ui"
)

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: "setup",
	Short:   "Create the ledger and run the first triage pass",
	Long: `Creates the ledger database, then fetches and triages every open
issue within the configured page bounds. Safe to re-run: the schema is
idempotent and known tickets are only reclassified when they changed.`,
	Example: `  triage init
  TRIAGE_REPO=WordPress/gutenberg triage init`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, release, err := openLedger(rootCtx)
		if err != nil {
			return err
		}
		defer release()

		if err := store.Init(rootCtx); err != nil {
			return err
		}
		fmt.Printf("Ledger ready at %s\n", config.GetString("db"))

		runner, err := newRunner(store)
		if err != nil {
			return err
		}
		fmt.Printf("Triaging %s...\n", config.GetString("repo"))
		summary, err := runner.Run(rootCtx, fetchOptions())
		if err != nil {
			return err
		}
		fmt.Println(ui.RenderSummary(summary, ui.GetWidth()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
