// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Derivation sources.
const (
	SourceSubmit     = "submit"
	SourceRegenerate = "regenerate"
	SourcePreview    = "preview"
)

var (
	// InvoicesDerived counts successful invoice derivations by source.
	InvoicesDerived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xpeed_invoices_derived_total",
		Help: "Total number of invoices derived by source",
	}, []string{"source"})

	// DeriveErrors counts failed derivations by reason.
	DeriveErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xpeed_invoice_derive_errors_total",
		Help: "Total number of failed invoice derivations by reason",
	}, []string{"reason"})

	// LogsSubmitted counts persisted daily logs.
	LogsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xpeed_logs_submitted_total",
		Help: "Total number of daily logs submitted",
	})

	// PriceUpdates counts saved price records.
	PriceUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xpeed_price_updates_total",
		Help: "Total number of price updates",
	})

	// RequestDuration tracks HTTP request latency.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "xpeed_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route", "status"})
)
