package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
)

var pullBudgetMinutes int

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Copy the account's subscriptions into the mirror sheet",
	Long: `Fetches the account's subscription list page by page and appends
channels not yet present in the mirror sheet. The run resumes from the
persisted page cursor, so an interrupted or quota-limited run continues
where it left off.`,
	RunE: runPull,
}

func init() {
	pullCmd.Flags().IntVar(&pullBudgetMinutes, "budget", 0,
		"abort and yield after this many minutes (0 = run to completion)")
	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	runner, err := buildSyncRunner(ctx, time.Duration(pullBudgetMinutes)*time.Minute)
	if err != nil {
		return err
	}

	report := runner.RunPull(ctx)
	printReport(cmd, report)

	if report.Outcome == domain.OutcomeFatal {
		return fmt.Errorf("pull failed: %w", report.Err)
	}
	return nil
}
