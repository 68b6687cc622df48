package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/config"
	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	GroupID: "setup",
	Short:   "Check GitHub, ledger and classifier connectivity",
	Long: `Verifies the pieces a triage run needs: the GitHub token can read
the configured repository, the ledger database opens, and the classifier
is reachable. Exits non-zero when any check fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		check := func(name string, err error) {
			if err != nil {
				failed++
				fmt.Printf("%s %s: %v\n", ui.RenderFail("✗"), name, err)
				return
			}
			fmt.Printf("%s %s\n", ui.RenderPass("✓"), name)
		}

		check(fmt.Sprintf("GitHub (%s)", config.GetString("repo")), newSource().CheckAuth(rootCtx))

		check("Ledger", func() error {
			store, release, err := openLedger(rootCtx)
			if err != nil {
				return err
			}
			defer release()
			return store.Init(rootCtx)
		}())

		check("Classifier", func() error {
			classifier, err := newClassifier()
			if err != nil {
				return err
			}
			_, err = classifier.CheckQuota(rootCtx)
			return err
		}())

		if failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
