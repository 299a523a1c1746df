package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/subsync-cli/internal/connectors/google"
)

// CreateMirror creates a new spreadsheet with the mirror tab and returns its
// spreadsheet ID. The caller persists the ID as the mirror binding.
func CreateMirror(ctx context.Context, svc *sheets.Service, title string) (string, error) {
	if title == "" {
		title = "Subscription Mirror"
	}

	req := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: DefaultSheetName}},
		},
	}

	resp, err := svc.Spreadsheets.Create(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("spreadsheets.create: %w", google.WrapError(err))
	}

	mirror := NewMirrorStore(svc, resp.SpreadsheetId, DefaultSheetName)
	if err := mirror.EnsureHeader(ctx); err != nil {
		return resp.SpreadsheetId, err
	}
	return resp.SpreadsheetId, nil
}
