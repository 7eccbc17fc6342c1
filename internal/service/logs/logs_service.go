// Package logs stores daily station logs and turns them back into invoices.
package logs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hamadismail/xpeed-cng/internal/domain/models"
	"github.com/hamadismail/xpeed-cng/internal/metrics"
	"github.com/hamadismail/xpeed-cng/internal/render"
	"github.com/hamadismail/xpeed-cng/internal/service/invoice"
	"github.com/hamadismail/xpeed-cng/internal/service/whatsapp"
)

const (
	dateLayout   = "2006-01-02"
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

var (
	// ErrInvalidDate is returned when a date filter is not in YYYY-MM-DD form.
	ErrInvalidDate = models.ErrInvalidDate
	// ErrRecipientMissing is returned when a share has no destination number.
	ErrRecipientMissing = errors.New("no recipient given and no manager number configured")
)

// Store persists daily log records.
type Store interface {
	SaveLog(ctx context.Context, record models.LogRecord) (models.LogRecord, error)
	GetLog(ctx context.Context, id string) (models.LogRecord, error)
	ListLogs(ctx context.Context, query models.LogQuery) ([]models.LogRecord, int64, error)
}

// PriceSource yields the price table currently in effect.
type PriceSource interface {
	Table(ctx context.Context) (models.PriceTable, error)
}

// Mirror receives a copy of every submitted invoice.
type Mirror interface {
	AppendInvoice(ctx context.Context, logID string, inv models.DerivedInvoice) error
}

// InvoiceView pairs a stored log with the invoice derived from it.
type InvoiceView struct {
	Log     models.LogRecord      `json:"log"`
	Invoice models.DerivedInvoice `json:"invoice"`
	// PricesSnapshotted is false for legacy records re-derived at current prices.
	PricesSnapshotted bool `json:"pricesSnapshotted"`
}

// ListParams are the raw query parameters of a list call.
type ListParams struct {
	Date  string
	Page  int
	Limit int
}

// ListResult is one page of logs.
type ListResult struct {
	Logs       []InvoiceView     `json:"logs"`
	Pagination models.Pagination `json:"pagination"`
}

// Option customises a Service.
type Option func(*Service)

// WithMirror enables best-effort mirroring of submitted invoices.
func WithMirror(m Mirror) Option {
	return func(s *Service) { s.mirror = m }
}

// WithMessenger enables sharing invoices over WhatsApp.
func WithMessenger(m whatsapp.MessagingService) Option {
	return func(s *Service) { s.messenger = m }
}

// WithLocation sets the zone used to decide which calendar day "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service coordinates storage, pricing and derivation of daily logs.
type Service struct {
	store     Store
	prices    PriceSource
	mirror    Mirror
	messenger whatsapp.MessagingService
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewService wires a new log service.
func NewService(store Store, prices PriceSource, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:  store,
		prices: prices,
		logger: logger,
		loc:    time.UTC,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar day in the service's location, as the
// UTC midnight used for stored report dates.
func (s *Service) Today() time.Time {
	n := s.now().In(s.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// Submit prices, derives and stores a daily entry. The price table is read
// before derivation and stored with the record, so later price changes do not
// alter this invoice.
func (s *Service) Submit(ctx context.Context, entry models.RawDailyEntry) (InvoiceView, error) {
	prices, err := s.prices.Table(ctx)
	if err != nil {
		return InvoiceView{}, fmt.Errorf("load prices: %w", err)
	}

	if entry.ReportDate.IsZero() {
		entry.ReportDate = s.Today()
	}

	inv, err := s.derive(entry, prices, metrics.SourceSubmit)
	if err != nil {
		return InvoiceView{}, err
	}

	record, err := s.store.SaveLog(ctx, models.NewLogRecord(entry, prices))
	if err != nil {
		return InvoiceView{}, fmt.Errorf("save log: %w", err)
	}
	metrics.LogsSubmitted.Inc()

	logID := record.ID.Hex()
	s.logger.Info("daily log submitted",
		zap.String("log_id", logID),
		zap.String("date", inv.ReportDateDisplay),
		zap.Float64("grand_total", inv.GrandTotal))

	if s.mirror != nil {
		if err := s.mirror.AppendInvoice(ctx, logID, inv); err != nil {
			s.logger.Warn("failed to mirror invoice", zap.String("log_id", logID), zap.Error(err))
		}
	}

	return InvoiceView{Log: record, Invoice: inv, PricesSnapshotted: true}, nil
}

// List returns one page of logs, newest report date first, each with its invoice.
func (s *Service) List(ctx context.Context, params ListParams) (ListResult, error) {
	query := models.LogQuery{Page: params.Page, Limit: params.Limit}
	if query.Page < 1 {
		query.Page = defaultPage
	}
	if query.Limit < 1 {
		query.Limit = defaultLimit
	}
	if query.Limit > maxLimit {
		query.Limit = maxLimit
	}

	if date := strings.TrimSpace(params.Date); date != "" {
		day, err := time.ParseInLocation(dateLayout, date, time.UTC)
		if err != nil {
			return ListResult{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
		query.Day = &day
	}

	records, total, err := s.store.ListLogs(ctx, query)
	if err != nil {
		return ListResult{}, fmt.Errorf("list logs: %w", err)
	}

	views, err := s.views(ctx, records, metrics.SourceRegenerate)
	if err != nil {
		return ListResult{}, err
	}

	return ListResult{
		Logs:       views,
		Pagination: paginate(total, query.Page, query.Limit),
	}, nil
}

// Invoice re-derives the invoice of a stored log.
func (s *Service) Invoice(ctx context.Context, id string) (InvoiceView, error) {
	record, err := s.store.GetLog(ctx, id)
	if err != nil {
		return InvoiceView{}, err
	}

	views, err := s.views(ctx, []models.LogRecord{record}, metrics.SourceRegenerate)
	if err != nil {
		return InvoiceView{}, err
	}
	return views[0], nil
}

// Preview derives an invoice without storing anything. A nil prices argument
// means the current price table.
func (s *Service) Preview(ctx context.Context, entry models.RawDailyEntry, prices *models.PriceTable) (models.DerivedInvoice, error) {
	var table models.PriceTable
	if prices != nil {
		table = *prices
	} else {
		current, err := s.prices.Table(ctx)
		if err != nil {
			return models.DerivedInvoice{}, fmt.Errorf("load prices: %w", err)
		}
		table = current
	}

	return s.derive(entry, table, metrics.SourcePreview)
}

// Share sends the summary of a stored invoice over WhatsApp. An empty to
// falls back to the configured manager number.
func (s *Service) Share(ctx context.Context, id, to string) (InvoiceView, error) {
	if s.messenger == nil {
		return InvoiceView{}, whatsapp.ErrMessagingDisabled
	}

	to = strings.TrimSpace(to)
	if to == "" {
		to = s.messenger.DefaultRecipient()
	}
	if to == "" {
		return InvoiceView{}, ErrRecipientMissing
	}

	view, err := s.Invoice(ctx, id)
	if err != nil {
		return InvoiceView{}, err
	}

	err = s.messenger.SendOutbound(ctx, models.OutboundMessageRequest{
		To:      to,
		Message: render.Summary(view.Invoice),
	})
	if err != nil {
		return InvoiceView{}, fmt.Errorf("share invoice %s: %w", id, err)
	}

	s.logger.Info("invoice shared", zap.String("log_id", id), zap.String("to", to))
	return view, nil
}

// DailyDigest renders every log stored for the given day into one message.
func (s *Service) DailyDigest(ctx context.Context, day time.Time) (string, error) {
	day = models.ReportDay(day)

	records, _, err := s.store.ListLogs(ctx, models.LogQuery{Day: &day})
	if err != nil {
		return "", fmt.Errorf("list logs for digest: %w", err)
	}

	display := invoice.FormatReportDate(day)
	if len(records) == 0 {
		return fmt.Sprintf("No daily log recorded for %s.", display), nil
	}

	views, err := s.views(ctx, records, metrics.SourceRegenerate)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(views)+1)
	var total float64
	for _, v := range views {
		parts = append(parts, render.Summary(v.Invoice))
		total += v.Invoice.GrandTotal
	}
	if len(views) > 1 {
		parts = append(parts, fmt.Sprintf("%d logs for %s, combined total: Tk %s", len(views), display, render.Amount(total)))
	}

	return strings.Join(parts, "\n\n"), nil
}

// views re-derives stored records. The current price table is loaded at most
// once, and only if a legacy record without a snapshot is present.
func (s *Service) views(ctx context.Context, records []models.LogRecord, source string) ([]InvoiceView, error) {
	var current *models.PriceTable
	out := make([]InvoiceView, 0, len(records))

	for _, record := range records {
		prices := record.Prices
		snapshotted := prices != nil

		if !snapshotted {
			if current == nil {
				table, err := s.prices.Table(ctx)
				if err != nil {
					return nil, fmt.Errorf("load prices: %w", err)
				}
				current = &table
			}
			prices = current
			s.logger.Warn("log has no price snapshot, using current prices",
				zap.String("log_id", record.ID.Hex()))
		}

		inv, err := s.derive(record.Entry(), *prices, source)
		if err != nil {
			return nil, fmt.Errorf("derive log %s: %w", record.ID.Hex(), err)
		}

		out = append(out, InvoiceView{Log: record, Invoice: inv, PricesSnapshotted: snapshotted})
	}
	return out, nil
}

func (s *Service) derive(entry models.RawDailyEntry, prices models.PriceTable, source string) (models.DerivedInvoice, error) {
	inv, err := invoice.Derive(entry, prices)
	if err != nil {
		metrics.DeriveErrors.WithLabelValues(failureReason(err)).Inc()
		return models.DerivedInvoice{}, err
	}
	metrics.InvoicesDerived.WithLabelValues(source).Inc()
	return inv, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, invoice.ErrInvalidPriceTable):
		return "invalid_prices"
	case errors.Is(err, invoice.ErrInvalidShiftSet):
		return "invalid_shifts"
	default:
		return "other"
	}
}

func paginate(total int64, page, limit int) models.Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return models.Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages}
}
