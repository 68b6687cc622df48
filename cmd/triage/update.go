package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/config"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ui"
)

var updateCmd = &cobra.Command{
	Use:     "update",
	GroupID: "triage",
	Short:   "Fetch open issues and triage the new and changed ones",
	Long: `Fetches open issues sorted by most recent update and runs the triage
pipeline. Unchanged tickets are skipped; changed ones are reclassified;
human-entered fields are never touched.

--since limits the fetch to issues updated in the given window.`,
	Example: `  triage update
  triage update --since 24h`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		since, err := cmd.Flags().GetDuration("since")
		if err != nil {
			return err
		}

		store, release, err := openLedger(rootCtx)
		if err != nil {
			return err
		}
		defer release()
		if err := store.Init(rootCtx); err != nil {
			return err
		}

		runner, err := newRunner(store)
		if err != nil {
			return err
		}

		opts := fetchOptions()
		if since > 0 {
			opts.Since = time.Now().Add(-since)
		}
		fmt.Printf("Updating from %s...\n", config.GetString("repo"))
		summary, err := runner.Run(rootCtx, opts)
		if err != nil {
			return err
		}
		fmt.Println(ui.RenderSummary(summary, ui.GetWidth()))
		return nil
	},
}

func init() {
	updateCmd.Flags().Duration("since", 0, "only consider issues updated within this window (e.g. 24h)")
	rootCmd.AddCommand(updateCmd)
}
