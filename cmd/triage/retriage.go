package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ui"
)

var retriageCmd = &cobra.Command{
	Use:     "retriage",
	GroupID: "triage",
	Short:   "Re-run classification for tickets flagged as changed",
	Long: `Fetches a fresh snapshot of every non-terminal ticket whose
fingerprint changed since its last classification (or that was deferred
by an earlier transport failure) and classifies it again. The prompt
includes the prior verdict so the model reconsiders rather than repeats.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, release, err := openLedger(rootCtx)
		if err != nil {
			return err
		}
		defer release()

		runner, err := newRunner(store)
		if err != nil {
			return err
		}
		summary, err := runner.Retriage(rootCtx)
		if err != nil {
			return err
		}
		if summary.Fetched == 0 {
			fmt.Println("Nothing flagged for retriage.")
			return nil
		}
		fmt.Println(ui.RenderSummary(summary, ui.GetWidth()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(retriageCmd)
}
