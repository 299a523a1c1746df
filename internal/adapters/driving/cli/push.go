package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
)

var pushBudgetMinutes int

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Subscribe to channels listed in the mirror sheet",
	Long: `Reads the mirror sheet and subscribes the account to every listed
channel it is not yet subscribed to. The run resumes from the persisted
row index; channels already subscribed are skipped without an API call.`,
	RunE: runPush,
}

func init() {
	pushCmd.Flags().IntVar(&pushBudgetMinutes, "budget", 0,
		"abort and yield after this many minutes (0 = run to completion)")
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	runner, err := buildSyncRunner(ctx, time.Duration(pushBudgetMinutes)*time.Minute)
	if err != nil {
		return err
	}

	report := runner.RunPush(ctx)
	printReport(cmd, report)

	if report.Outcome == domain.OutcomeFatal {
		return fmt.Errorf("push failed: %w", report.Err)
	}
	return nil
}
