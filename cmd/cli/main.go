package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamadismail/xpeed-cng/internal/config"
	"github.com/hamadismail/xpeed-cng/internal/repository/mongodb"
	logssvc "github.com/hamadismail/xpeed-cng/internal/service/logs"
	pricingsvc "github.com/hamadismail/xpeed-cng/internal/service/pricing"
	"github.com/hamadismail/xpeed-cng/pkg/logger"
)

var (
	envFile  string
	logLevel string
	log      *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xpeed",
	Short: "Daily sales invoice tool for the Xpeed CNG filling station",
	Long: `Derive daily sales invoices from shift meter readings, either offline from a
JSON file or from logs stored in MongoDB, and backfill the Google Sheets mirror.`,
	SilenceUsage:      true,
	PersistentPreRunE: persistentPreRun,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file to load (default .env when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
}

func persistentPreRun(cmd *cobra.Command, args []string) error {
	l, err := logger.NewConsole(logLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log = l
	return nil
}

// services bundles what the database-backed commands need.
type services struct {
	cfg    *config.Config
	repo   *mongodb.MongoDBRepository
	prices *pricingsvc.Service
	logs   *logssvc.Service
}

func connect(ctx context.Context) (*services, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	repo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	log.Debug("database connected", zap.String("db", cfg.MongoDB.DBName))

	loc, err := cfg.Reporting.Location()
	if err != nil {
		return nil, err
	}

	prices := pricingsvc.NewService(repo, log.Named("svc.pricing"))
	return &services{
		cfg:    cfg,
		repo:   repo,
		prices: prices,
		logs:   logssvc.NewService(repo, prices, log.Named("svc.logs"), logssvc.WithLocation(loc)),
	}, nil
}

func (s *services) close() {
	if err := s.repo.Close(context.Background()); err != nil {
		log.Warn("failed to close mongodb connection", zap.Error(err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
