package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hamadismail/xpeed-cng/internal/domain/models"
	"github.com/hamadismail/xpeed-cng/internal/service/pricing"
)

// PriceService is what the price endpoints need from the service layer.
type PriceService interface {
	Current(ctx context.Context) (pricing.Current, error)
	Update(ctx context.Context, prices models.PriceTable) (models.PriceRecord, error)
}

// PricesHandler serves the current price table.
type PricesHandler struct {
	svc    PriceService
	logger *zap.Logger
}

// NewPricesHandler constructs the HTTP handler adapter.
func NewPricesHandler(svc PriceService, logger *zap.Logger) *PricesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricesHandler{svc: svc, logger: logger}
}

// Get returns the prices in effect.
func (h *PricesHandler) Get(c *gin.Context) {
	current, err := h.svc.Current(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load prices", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to fetch prices")
		return
	}
	respond(c, http.StatusOK, current)
}

// Update saves a new price table.
func (h *PricesHandler) Update(c *gin.Context) {
	var req models.PriceTable
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid prices payload", zap.Error(err))
		respondError(c, http.StatusBadRequest, "all four prices are required")
		return
	}

	record, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("failed to update prices", zap.Error(err))
		}
		respondError(c, status, publicMessage(status, err, "failed to update prices"))
		return
	}

	respond(c, http.StatusCreated, record)
}
