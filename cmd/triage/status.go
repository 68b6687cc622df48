package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ticket"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:     "status <issue> [state]",
	GroupID: "triage",
	Short:   "Show a ticket, or move it through the workflow",
	Long: `With one argument, prints the ticket's ledger record. With two,
applies a status transition: candidate -> active | skipped | pr-opened,
active -> pr-opened | skipped, pr-opened -> done.

Illegal transitions are rejected; --force bypasses validation for manual
corrections like reopening a filtered-out ticket.`,
	Example: `  triage status 63692
  triage status 63692 active
  triage status 63692 candidate --force`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid issue number %q", args[0])
		}

		store, release, err := openLedger(rootCtx)
		if err != nil {
			return err
		}
		defer release()

		if len(args) == 1 {
			rec, err := store.Get(rootCtx, id)
			if err != nil {
				return err
			}
			fmt.Println(ui.RenderTicket(rec, ui.GetWidth()))
			return nil
		}

		to, err := ticket.ParseStatus(args[1])
		if err != nil {
			return err
		}
		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return err
		}
		if err := store.SetStatus(rootCtx, id, to, force); err != nil {
			return err
		}
		fmt.Printf("#%d -> %s\n", id, to)
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("force", false, "bypass transition validation")
	rootCmd.AddCommand(statusCmd)
}
