package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamadismail/xpeed-cng/internal/domain/models"
	"github.com/hamadismail/xpeed-cng/internal/server/handlers"
	"github.com/hamadismail/xpeed-cng/internal/service/logs"
	"github.com/hamadismail/xpeed-cng/internal/service/pricing"
)

type nopLogs struct{}

func (nopLogs) Submit(ctx context.Context, entry models.RawDailyEntry) (logs.InvoiceView, error) {
	return logs.InvoiceView{}, nil
}

func (nopLogs) List(ctx context.Context, params logs.ListParams) (logs.ListResult, error) {
	return logs.ListResult{Logs: []logs.InvoiceView{}}, nil
}

func (nopLogs) Invoice(ctx context.Context, id string) (logs.InvoiceView, error) {
	return logs.InvoiceView{}, nil
}

func (nopLogs) Preview(ctx context.Context, entry models.RawDailyEntry, prices *models.PriceTable) (models.DerivedInvoice, error) {
	return models.DerivedInvoice{}, nil
}

func (nopLogs) Share(ctx context.Context, id, to string) (logs.InvoiceView, error) {
	return logs.InvoiceView{}, nil
}

type nopPrices struct{}

func (nopPrices) Current(ctx context.Context) (pricing.Current, error) {
	return pricing.Current{Prices: models.DefaultPriceTable(), Default: true}, nil
}

func (nopPrices) Update(ctx context.Context, prices models.PriceTable) (models.PriceRecord, error) {
	return models.PriceRecord{PriceTable: prices}, nil
}

func TestRoutes(t *testing.T) {
	engine := New(Handlers{
		Logs:   handlers.NewLogsHandler(nopLogs{}, nil),
		Prices: handlers.NewPricesHandler(nopPrices{}, nil),
	}, nil)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/api/logs", http.StatusOK},
		{http.MethodGet, "/api/logs/abc/invoice", http.StatusOK},
		{http.MethodGet, "/api/logs/abc/invoice/text", http.StatusOK},
		{http.MethodGet, "/api/prices", http.StatusOK},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestMetricsEndpointExposesRequestDuration(t *testing.T) {
	engine := New(Handlers{
		Logs:   handlers.NewLogsHandler(nopLogs{}, nil),
		Prices: handlers.NewPricesHandler(nopPrices{}, nil),
	}, nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/prices", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `xpeed_http_request_duration_seconds_count{method="GET",route="/api/prices",status="200"}`)
}
