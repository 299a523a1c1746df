package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show checkpoints and recent run history",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := ensureStores(); err != nil {
		return err
	}
	ctx := context.Background()

	cmd.Println("Checkpoints:")
	printCheckpoint(cmd, ctx, "mirror", domain.KeyMirrorID)
	printCheckpoint(cmd, ctx, "pull cursor", domain.KeyPullCursor)
	printCheckpoint(cmd, ctx, "push index", domain.KeyPushIndex)

	for _, taskID := range []string{domain.TaskIDPullSync, domain.TaskIDPushSync} {
		task, err := schedulerStore.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if task == nil {
			continue
		}

		cmd.Printf("\nTask %s (every %s):\n", task.ID, task.Interval)
		if !task.LastRun.IsZero() {
			cmd.Printf("  last run:     %s\n", task.LastRun.Format(time.RFC3339))
		}
		if !task.LastSuccess.IsZero() {
			cmd.Printf("  last success: %s\n", task.LastSuccess.Format(time.RFC3339))
		}
		if task.LastError != "" {
			cmd.Printf("  last error:   %s\n", task.LastError)
		}

		history, err := schedulerStore.GetTaskHistory(ctx, taskID, 5)
		if err != nil {
			return err
		}
		for _, r := range history {
			cmd.Printf("  %s  %-17s  %d applied",
				r.StartedAt.Format(time.RFC3339), r.Outcome, r.ItemsProcessed)
			if r.Error != "" {
				cmd.Printf("  (%s)", r.Error)
			}
			cmd.Println()
		}
	}

	return nil
}

func printCheckpoint(cmd *cobra.Command, ctx context.Context, label, key string) {
	val, err := checkpoints.Get(ctx, key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		cmd.Printf("  %-12s (not set)\n", label)
	case err != nil:
		cmd.Printf("  %-12s error: %v\n", label, err)
	default:
		cmd.Printf("  %-12s %s\n", label, val)
	}
}
