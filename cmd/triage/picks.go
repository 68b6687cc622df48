package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ledger"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/rank"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ticket"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ui"
)

var picksCmd = &cobra.Command{
	Use:     "picks",
	GroupID: "views",
	Short:   "Show the ranked worklist of candidate issues",
	Long: `Ranks the candidate tickets by difficulty, skill match, test focus
and flaky-test priority, best pick first. Tickets classified High or
Beyond difficulty, or with no skill match, never appear.`,
	Example: `  triage picks
  triage picks --limit 5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}

		store, release, err := openLedger(rootCtx)
		if err != nil {
			return err
		}
		defer release()

		candidates, err := store.List(rootCtx, ledger.Filter{Status: ticket.StatusCandidate})
		if err != nil {
			return err
		}
		ruleSet, err := loadRules()
		if err != nil {
			return err
		}

		picks := rank.Top(rank.Picks(candidates, ruleSet.FlakyMatch), limit)
		fmt.Println(ui.RenderPicks(picks, ui.GetWidth()))
		return nil
	},
}

func init() {
	picksCmd.Flags().Int("limit", 10, "maximum number of picks to show (0 = all)")
	rootCmd.AddCommand(picksCmd)
}
