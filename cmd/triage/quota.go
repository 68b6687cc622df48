package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var quotaCmd = &cobra.Command{
	Use:     "quota",
	GroupID: "views",
	Short:   "Show remaining classifier API quota",
	Long: `Issues a minimal classifier request and reports the rate-limit
headroom from the response headers. Costs one request.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		classifier, err := newClassifier()
		if err != nil {
			return err
		}
		quota, err := classifier.CheckQuota(rootCtx)
		if err != nil {
			return err
		}
		fmt.Println(quota)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quotaCmd)
}
