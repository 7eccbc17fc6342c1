package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hamadismail/xpeed-cng/internal/domain/models"
	"github.com/hamadismail/xpeed-cng/internal/render"
	"github.com/hamadismail/xpeed-cng/internal/service/logs"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LogService is what the log endpoints need from the service layer.
type LogService interface {
	Submit(ctx context.Context, entry models.RawDailyEntry) (logs.InvoiceView, error)
	List(ctx context.Context, params logs.ListParams) (logs.ListResult, error)
	Invoice(ctx context.Context, id string) (logs.InvoiceView, error)
	Preview(ctx context.Context, entry models.RawDailyEntry, prices *models.PriceTable) (models.DerivedInvoice, error)
	Share(ctx context.Context, id, to string) (logs.InvoiceView, error)
}

// LogsHandler serves daily log and invoice endpoints.
type LogsHandler struct {
	svc    LogService
	logger *zap.Logger
}

// NewLogsHandler constructs the HTTP handler adapter.
func NewLogsHandler(svc LogService, logger *zap.Logger) *LogsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogsHandler{svc: svc, logger: logger}
}

type previewRequest struct {
	Entry  models.EntryInput  `json:"entry"`
	Prices *models.PriceTable `json:"prices"`
}

// Create stores a daily log and returns it with its invoice.
func (h *LogsHandler) Create(c *gin.Context) {
	var req models.EntryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid log payload", zap.Error(err))
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := req.Entry()
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.svc.Submit(c.Request.Context(), entry)
	if err != nil {
		h.fail(c, err, "failed to save log")
		return
	}

	respond(c, http.StatusCreated, view)
}

// List returns a page of logs.
func (h *LogsHandler) List(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.List(c.Request.Context(), logs.ListParams{
		Date:  c.Query("date"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		h.fail(c, err, "failed to fetch logs")
		return
	}

	c.JSON(http.StatusOK, envelope{Success: true, Data: res.Logs, Pagination: res.Pagination})
}

// Invoice returns the derived invoice of one log as JSON.
func (h *LogsHandler) Invoice(c *gin.Context) {
	view, ok := h.load(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, view)
}

// InvoiceText returns the printable invoice.
func (h *LogsHandler) InvoiceText(c *gin.Context) {
	view, ok := h.load(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, render.Text(view.Invoice))
}

// InvoiceXLSX returns the invoice as a workbook download.
func (h *LogsHandler) InvoiceXLSX(c *gin.Context) {
	view, ok := h.load(c)
	if !ok {
		return
	}

	data, err := render.XLSX(view.Invoice)
	if err != nil {
		h.logger.Error("failed to render workbook", zap.String("log_id", c.Param("id")), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to render workbook")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, render.XLSXFilename(view.Invoice)))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Share sends the invoice summary over WhatsApp.
func (h *LogsHandler) Share(c *gin.Context) {
	var req models.ShareRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	view, err := h.svc.Share(c.Request.Context(), c.Param("id"), req.To)
	if err != nil {
		h.fail(c, err, "unable to send message")
		return
	}

	respond(c, http.StatusAccepted, view)
}

// Preview derives an invoice without storing it.
func (h *LogsHandler) Preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid preview payload", zap.Error(err))
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := req.Entry.Entry()
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	inv, err := h.svc.Preview(c.Request.Context(), entry, req.Prices)
	if err != nil {
		h.fail(c, err, "failed to derive invoice")
		return
	}

	respond(c, http.StatusOK, inv)
}

func (h *LogsHandler) load(c *gin.Context) (logs.InvoiceView, bool) {
	view, err := h.svc.Invoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to load invoice")
		return logs.InvoiceView{}, false
	}
	return view, true
}

func (h *LogsHandler) fail(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(fallback, zap.Error(err))
	} else {
		h.logger.Debug(fallback, zap.Int("status", status), zap.Error(err))
	}
	respondError(c, status, publicMessage(status, err, fallback))
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}
