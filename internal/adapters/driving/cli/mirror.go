package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/subsync-cli/internal/connectors/google"
	gsheets "github.com/custodia-labs/subsync-cli/internal/connectors/google/sheets"
	"github.com/custodia-labs/subsync-cli/internal/core/domain"
)

var mirrorTitle string

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Manage the mirror spreadsheet binding",
}

var mirrorCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new mirror spreadsheet and bind to it",
	RunE:  runMirrorCreate,
}

var mirrorSetCmd = &cobra.Command{
	Use:   "set <spreadsheet-id>",
	Short: "Bind to an existing spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runMirrorSet,
}

var mirrorShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current mirror binding",
	RunE:  runMirrorShow,
}

func init() {
	mirrorCreateCmd.Flags().StringVar(&mirrorTitle, "title", "",
		"spreadsheet title (default \"Subscription Mirror\")")
	mirrorCmd.AddCommand(mirrorCreateCmd)
	mirrorCmd.AddCommand(mirrorSetCmd)
	mirrorCmd.AddCommand(mirrorShowCmd)
	rootCmd.AddCommand(mirrorCmd)
}

func runMirrorCreate(cmd *cobra.Command, _ []string) error {
	if err := ensureStores(); err != nil {
		return err
	}
	ctx := context.Background()

	creds := google.Credentials{
		ClientID:     configStore.GetString(keyClientID),
		ClientSecret: configStore.GetString(keyClientSecret),
		RefreshToken: configStore.GetString(keyRefreshToken),
	}
	ts, err := google.NewTokenSource(ctx, creds)
	if err != nil {
		return err
	}
	svc, err := google.NewSheetsService(ctx, ts)
	if err != nil {
		return fmt.Errorf("creating sheets client: %w", err)
	}

	id, err := gsheets.CreateMirror(ctx, svc, mirrorTitle)
	if err != nil {
		return fmt.Errorf("creating mirror spreadsheet: %w", err)
	}
	if err := checkpoints.Set(ctx, domain.KeyMirrorID, id); err != nil {
		return fmt.Errorf("storing mirror binding: %w", err)
	}

	cmd.Printf("Created mirror spreadsheet %s\n", id)
	return nil
}

func runMirrorSet(cmd *cobra.Command, args []string) error {
	if err := ensureStores(); err != nil {
		return err
	}
	ctx := context.Background()

	id := args[0]
	if id == "" {
		return fmt.Errorf("spreadsheet ID must not be empty: %w", domain.ErrInvalidInput)
	}
	if err := checkpoints.Set(ctx, domain.KeyMirrorID, id); err != nil {
		return fmt.Errorf("storing mirror binding: %w", err)
	}

	cmd.Printf("Mirror bound to spreadsheet %s\n", id)
	return nil
}

func runMirrorShow(cmd *cobra.Command, _ []string) error {
	if err := ensureStores(); err != nil {
		return err
	}

	id, err := checkpoints.Get(context.Background(), domain.KeyMirrorID)
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Println("No mirror configured. Run 'subsync mirror create' first.")
		return nil
	}
	if err != nil {
		return err
	}

	cmd.Printf("Mirror spreadsheet: %s\n", id)
	cmd.Printf("URL: https://docs.google.com/spreadsheets/d/%s\n", id)
	return nil
}
