package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
	Long:  "Delete every recorded quiz result for the learner. Tutoring sessions are kept.",
	RunE: userCommand(false, func(cmd *cobra.Command, a *app, userID string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("this deletes all performance data for %q; re-run with --yes to confirm", userID)
		}
		if err := a.svc.ResetPerformance(cmd.Context(), userID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Performance data for %s deleted.\n", userID)
		return nil
	}),
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
