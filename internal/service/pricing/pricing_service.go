package pricing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hamadismail/xpeed-cng/internal/domain/models"
	"github.com/hamadismail/xpeed-cng/internal/metrics"
	"github.com/hamadismail/xpeed-cng/internal/service/invoice"
)

// Store is the subset of the repository the price source needs.
type Store interface {
	LatestPrices(ctx context.Context) (*models.PriceRecord, error)
	SavePrices(ctx context.Context, prices models.PriceTable) (models.PriceRecord, error)
}

// Current describes the price table in effect and where it came from.
type Current struct {
	Prices models.PriceTable `json:"prices"`
	// Record is nil when the built-in defaults are in effect.
	Record  *models.PriceRecord `json:"record,omitempty"`
	Default bool                `json:"default"`
}

// Service is the price source for invoices.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService wires a new price source.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Current returns the latest saved prices, falling back to the built-in defaults.
func (s *Service) Current(ctx context.Context) (Current, error) {
	record, err := s.store.LatestPrices(ctx)
	if err != nil {
		return Current{}, fmt.Errorf("load current prices: %w", err)
	}

	if record == nil {
		s.logger.Debug("no price record found, using defaults")
		return Current{Prices: models.DefaultPriceTable(), Default: true}, nil
	}

	if err := invoice.ValidatePrices(record.PriceTable); err != nil {
		// A bad stored record would fail every derivation; fall back loudly instead.
		s.logger.Warn("latest price record is invalid, using defaults",
			zap.String("record_id", record.ID.Hex()), zap.Error(err))
		return Current{Prices: models.DefaultPriceTable(), Default: true}, nil
	}

	return Current{Prices: record.PriceTable, Record: record}, nil
}

// Table is Current without the provenance.
func (s *Service) Table(ctx context.Context) (models.PriceTable, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return models.PriceTable{}, err
	}
	return current.Prices, nil
}

// Update validates and stores a new price record.
func (s *Service) Update(ctx context.Context, prices models.PriceTable) (models.PriceRecord, error) {
	if err := invoice.ValidatePrices(prices); err != nil {
		return models.PriceRecord{}, err
	}

	record, err := s.store.SavePrices(ctx, prices)
	if err != nil {
		return models.PriceRecord{}, fmt.Errorf("save prices: %w", err)
	}

	metrics.PriceUpdates.Inc()
	s.logger.Info("prices updated",
		zap.Float64("cng", prices.CNG),
		zap.Float64("diesel", prices.Diesel),
		zap.Float64("octane", prices.Octane),
		zap.Float64("lpg", prices.LPG))

	return record, nil
}
