package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hamadismail/xpeed-cng/internal/domain/models"
	"github.com/hamadismail/xpeed-cng/internal/render"
)

const (
	invoicesTab  = "Invoices"
	logIDColumn  = "A"
	logIDHeading = "Log ID"
)

// LoggedInvoice is an invoice together with the ID of the log it came from.
type LoggedInvoice struct {
	LogID   string
	Invoice models.DerivedInvoice
}

// InvoiceMirror keeps one spreadsheet row per submitted daily log.
type InvoiceMirror struct {
	repo   Repository
	logger *zap.Logger
}

// NewInvoiceMirror wraps a spreadsheet repository.
func NewInvoiceMirror(repo Repository, logger *zap.Logger) *InvoiceMirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceMirror{repo: repo, logger: logger}
}

// Prepare creates the Invoices tab with its header row if it is missing.
func (m *InvoiceMirror) Prepare(ctx context.Context) error {
	header := append([]interface{}{logIDHeading}, render.SheetHeader()...)
	if err := m.repo.EnsureTab(ctx, invoicesTab, header); err != nil {
		return fmt.Errorf("prepare invoice mirror: %w", err)
	}
	return nil
}

// AppendInvoice writes the invoice row keyed by the log ID in column A.
func (m *InvoiceMirror) AppendInvoice(ctx context.Context, logID string, inv models.DerivedInvoice) error {
	if err := m.AppendInvoices(ctx, []LoggedInvoice{{LogID: logID, Invoice: inv}}); err != nil {
		return fmt.Errorf("mirror invoice %s: %w", logID, err)
	}
	return nil
}

// AppendInvoices writes all rows in a single append.
func (m *InvoiceMirror) AppendInvoices(ctx context.Context, invoices []LoggedInvoice) error {
	if len(invoices) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(invoices))
	for _, li := range invoices {
		rows = append(rows, append([]interface{}{li.LogID}, render.SheetRow(li.Invoice)...))
	}
	if err := m.repo.AppendRows(ctx, invoicesTab, rows); err != nil {
		return err
	}

	m.logger.Debug("invoices mirrored", zap.Int("count", len(invoices)))
	return nil
}

// IDs returns the set of log IDs already present, read in one request.
func (m *InvoiceMirror) IDs(ctx context.Context) (map[string]struct{}, error) {
	cells, err := m.repo.Column(ctx, invoicesTab, logIDColumn)
	if err != nil {
		return nil, fmt.Errorf("load mirrored ids: %w", err)
	}

	ids := make(map[string]struct{}, len(cells))
	for _, c := range cells {
		if c == "" || c == logIDHeading {
			continue
		}
		ids[c] = struct{}{}
	}
	return ids, nil
}
