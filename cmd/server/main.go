package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamadismail/xpeed-cng/internal/config"
	"github.com/hamadismail/xpeed-cng/internal/repository/mongodb"
	"github.com/hamadismail/xpeed-cng/internal/repository/sheets"
	"github.com/hamadismail/xpeed-cng/internal/scheduler"
	"github.com/hamadismail/xpeed-cng/internal/server/handlers"
	"github.com/hamadismail/xpeed-cng/internal/server/router"
	logssvc "github.com/hamadismail/xpeed-cng/internal/service/logs"
	pricingsvc "github.com/hamadismail/xpeed-cng/internal/service/pricing"
	whatsappsvc "github.com/hamadismail/xpeed-cng/internal/service/whatsapp"
	whatsappclient "github.com/hamadismail/xpeed-cng/pkg/clients/whatsapp"
	"github.com/hamadismail/xpeed-cng/pkg/logger"
)

func main() {
	envFile := flag.String("env", "", "path to an env file (defaults to .env when present)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	mongoRepo, err := mongodb.NewMongoDBRepository(startupCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	loc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	priceSvc := pricingsvc.NewService(mongoRepo, baseLogger.Named("svc.pricing"))
	opts := []logssvc.Option{logssvc.WithLocation(loc)}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(startupCtx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		mirror := sheets.NewInvoiceMirror(sheetsRepo, baseLogger.Named("repo.sheets.mirror"))
		if err := mirror.Prepare(startupCtx); err != nil {
			baseLogger.Warn("failed to prepare invoices tab", zap.Error(err))
		}
		opts = append(opts, logssvc.WithMirror(mirror))
		baseLogger.Info("google sheets mirror enabled")
	} else {
		baseLogger.Warn("google sheets credentials missing, invoice mirror disabled")
	}

	var messagingSvc whatsappsvc.MessagingService
	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc = whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, baseLogger.Named("svc.whatsapp"))
		opts = append(opts, logssvc.WithMessenger(messagingSvc))
		baseLogger.Info("whatsapp sharing enabled")
	} else {
		baseLogger.Warn("whatsapp token missing, invoice sharing disabled")
	}

	logSvc := logssvc.NewService(mongoRepo, priceSvc, baseLogger.Named("svc.logs"), opts...)

	engine := router.New(router.Handlers{
		Logs:   handlers.NewLogsHandler(logSvc, baseLogger.Named("handlers.logs")),
		Prices: handlers.NewPricesHandler(priceSvc, baseLogger.Named("handlers.prices")),
	}, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(*cfg, logSvc, messagingSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to schedule daily digest", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
