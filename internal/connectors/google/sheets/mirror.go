// Package sheets adapts the Google Sheets API v4 to the mirror port.
// One spreadsheet tab is the durable tabular mirror: column A holds the
// channel identifier, column B the title, column C the canonical URL. Row 1
// is a header; data rows start at row 2 and their order is append order.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/subsync-cli/internal/connectors/google"
	"github.com/custodia-labs/subsync-cli/internal/core/domain"
	"github.com/custodia-labs/subsync-cli/internal/core/ports/driven"
)

// DefaultSheetName is the tab the mirror lives on.
const DefaultSheetName = "Subscriptions"

var headerRow = []interface{}{"Channel ID", "Title", "URL"}

// MirrorStore implements driven.MirrorStore over one spreadsheet tab.
type MirrorStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	limiter       *google.RateLimiter
}

var _ driven.MirrorStore = (*MirrorStore)(nil)

// NewMirrorStore creates a mirror adapter over an authenticated service.
// spreadsheetID is the mirror binding stored in the local state database.
func NewMirrorStore(svc *sheets.Service, spreadsheetID, sheetName string) *MirrorStore {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	return &MirrorStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		limiter:       google.NewRateLimiter(google.ServiceSheets),
	}
}

// EnsureHeader writes the header row if the sheet is empty. Called once at
// startup so appends always land below row 1.
func (s *MirrorStore) EnsureHeader(ctx context.Context) error {
	rows, err := s.readColumn(ctx, "A1:A1")
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{headerRow}}
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, s.rangeRef("A1:C1"), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("values.update header: %w", google.WrapError(err))
	}
	return nil
}

// AppendChannels appends rows in one batch write. The append is the commit
// point of a pulled page: the caller persists its cursor only after this
// returns.
func (s *MirrorStore) AppendChannels(ctx context.Context, channels []domain.Channel) error {
	if len(channels) == 0 {
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	values := make([][]interface{}, len(channels))
	for i, ch := range channels {
		values[i] = channelToRow(ch)
	}

	vr := &sheets.ValueRange{Values: values}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.rangeRef("A:C"), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("values.append: %w", google.WrapError(err))
	}
	return nil
}

// Identifiers returns every channel identifier in row order.
func (s *MirrorStore) Identifiers(ctx context.Context) ([]string, error) {
	rows, err := s.readColumn(ctx, "A2:A")
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, cellString(row))
	}
	return ids, nil
}

// CandidatesFrom returns candidates at ordinal position >= start.
func (s *MirrorStore) CandidatesFrom(ctx context.Context, start int) ([]domain.Candidate, error) {
	ids, err := s.Identifiers(ctx)
	if err != nil {
		return nil, err
	}
	if start < 0 {
		start = 0
	}
	if start >= len(ids) {
		return nil, nil
	}

	candidates := make([]domain.Candidate, 0, len(ids)-start)
	for i := start; i < len(ids); i++ {
		candidates = append(candidates, domain.Candidate{ID: ids[i], Position: i})
	}
	return candidates, nil
}

// LastRowIndex returns the number of data rows in the mirror.
func (s *MirrorStore) LastRowIndex(ctx context.Context) (int, error) {
	rows, err := s.readColumn(ctx, "A2:A")
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// readColumn fetches cell rows for a range on the mirror tab.
func (s *MirrorStore) readColumn(ctx context.Context, ref string) ([][]interface{}, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeRef(ref)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("values.get %s: %w", ref, google.WrapError(err))
	}
	return resp.Values, nil
}

// rangeRef qualifies an A1 range with the mirror tab name. Tab names with
// spaces or quotes need single-quote escaping in A1 notation.
func (s *MirrorStore) rangeRef(ref string) string {
	name := s.sheetName
	if strings.ContainsAny(name, " '") {
		name = "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name + "!" + ref
}

// channelToRow maps a channel to one sheet row.
func channelToRow(ch domain.Channel) []interface{} {
	return []interface{}{ch.ID, ch.Title, ch.URL}
}

// cellString extracts the first cell of a row as a trimmed string. The
// Sheets API returns untyped values; anything not a string reads as empty,
// which the callers treat as a malformed identifier.
func cellString(row []interface{}) string {
	if len(row) == 0 {
		return ""
	}
	s, _ := row[0].(string)
	return strings.TrimSpace(s)
}
