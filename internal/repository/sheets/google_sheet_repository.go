package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/hamadismail/xpeed-cng/internal/config"
)

// Repository is the tab-level spreadsheet access the invoice mirror needs.
type Repository interface {
	EnsureTab(ctx context.Context, title string, header []interface{}) error
	AppendRows(ctx context.Context, tab string, rows [][]interface{}) error
	Column(ctx context.Context, tab, column string) ([]string, error)
}

// GoogleSheetRepository implements Repository on one spreadsheet.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository authenticates with the service-account file from cfg.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	return newGoogleSheetRepository(ctx, cfg.SpreadsheetID, logger,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope))
}

func newGoogleSheetRepository(ctx context.Context, spreadsheetID string, logger *zap.Logger, opts ...option.ClientOption) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id must not be empty")
	}

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        logger.With(zap.String("spreadsheet_id", spreadsheetID)),
	}, nil
}

// EnsureTab adds the tab when the spreadsheet does not have it yet and writes
// header into its first row. An existing tab is left untouched.
func (r *GoogleSheetRepository) EnsureTab(ctx context.Context, title string, header []interface{}) error {
	doc, err := r.service.Spreadsheets.Get(r.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("load spreadsheet tabs: %w", err)
	}
	for _, sheet := range doc.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return nil
		}
	}

	add := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: title},
			},
		}},
	}
	if _, err := r.service.Spreadsheets.BatchUpdate(r.spreadsheetID, add).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add tab %s: %w", title, err)
	}
	r.logger.Info("spreadsheet tab created", zap.String("tab", title))

	if len(header) == 0 {
		return nil
	}
	_, err = r.service.Spreadsheets.Values.Update(r.spreadsheetID, a1(title, "A1"), &sheetsapi.ValueRange{
		Values: [][]interface{}{header},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header of %s: %w", title, err)
	}
	return nil
}

// AppendRows adds rows below the last filled row of the tab in one request.
func (r *GoogleSheetRepository) AppendRows(ctx context.Context, tab string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	// RAW keeps readings such as "0012" from being reinterpreted by Sheets.
	_, err := r.service.Spreadsheets.Values.Append(r.spreadsheetID, a1(tab, ""), &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %d rows to %s: %w", len(rows), tab, err)
	}

	r.logger.Debug("rows appended", zap.String("tab", tab), zap.Int("rows", len(rows)))
	return nil
}

// Column returns every cell of one column, top to bottom. Empty trailing
// cells are not returned by the API; empty cells in between come back as "".
func (r *GoogleSheetRepository) Column(ctx context.Context, tab, column string) ([]string, error) {
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, a1(tab, column+":"+column)).
		MajorDimension("COLUMNS").
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read column %s of %s: %w", column, tab, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}

	cells := make([]string, len(resp.Values[0]))
	for i, v := range resp.Values[0] {
		cells[i] = fmt.Sprint(v)
	}
	return cells, nil
}

// a1 builds an A1 range on a quoted tab name; an empty cells part addresses
// the whole tab.
func a1(tab, cells string) string {
	quoted := "'" + strings.ReplaceAll(tab, "'", "''") + "'"
	if cells == "" {
		return quoted
	}
	return quoted + "!" + cells
}
