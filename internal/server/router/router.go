package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hamadismail/xpeed-cng/internal/metrics"
	"github.com/hamadismail/xpeed-cng/internal/server/handlers"
)

// Handlers groups the endpoint adapters mounted by New.
type Handlers struct {
	Logs   *handlers.LogsHandler
	Prices *handlers.PricesHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metricsMiddleware())

	api := r.Group("/api")
	{
		api.POST("/logs", h.Logs.Create)
		api.GET("/logs", h.Logs.List)
		api.GET("/logs/:id/invoice", h.Logs.Invoice)
		api.GET("/logs/:id/invoice/text", h.Logs.InvoiceText)
		api.GET("/logs/:id/invoice/xlsx", h.Logs.InvoiceXLSX)
		api.POST("/logs/:id/share", h.Logs.Share)

		api.GET("/prices", h.Prices.Get)
		api.POST("/prices", h.Prices.Update)

		api.POST("/invoices/preview", h.Logs.Preview)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Info("request completed", fields...)
	}
}

// metricsMiddleware records latency by route template, so IDs do not explode label cardinality.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
