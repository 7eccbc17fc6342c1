package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hamadismail/xpeed-cng/internal/config"
	"github.com/hamadismail/xpeed-cng/internal/domain/models"
	"github.com/hamadismail/xpeed-cng/internal/service/whatsapp"
)

const jobTimeout = 2 * time.Minute

// DigestSource builds the daily digest message.
type DigestSource interface {
	Today() time.Time
	DailyDigest(ctx context.Context, day time.Time) (string, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron         *cron.Cron
	digests      DigestSource
	messagingSvc whatsapp.MessagingService
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured timezone.
// A nil messagingSvc disables the digest job.
func NewScheduler(cfg config.Config, digests DigestSource, messagingSvc whatsapp.MessagingService, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Reporting.Location()
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		digests:      digests,
		messagingSvc: messagingSvc,
		cfg:          cfg,
		logger:       logger,
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	if s.messagingSvc == nil || !s.cfg.WhatsApp.Enabled() {
		s.logger.Info("whatsapp not configured, daily digest disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.sendDailyDigest); err != nil {
		return err
	}

	s.logger.Info("starting scheduler",
		zap.String("schedule", s.cfg.Reporting.CronSchedule),
		zap.String("timezone", s.cfg.Reporting.Timezone))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendDailyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.runDailyDigest(ctx); err != nil {
		s.logger.Error("daily digest failed", zap.Error(err))
		return
	}
	s.logger.Info("daily digest sent successfully")
}

func (s *Scheduler) runDailyDigest(ctx context.Context) error {
	to := s.cfg.WhatsApp.ManagerID
	if to == "" {
		to = s.messagingSvc.DefaultRecipient()
	}
	if to == "" {
		s.logger.Warn("WHATSAPP_MANAGER_ID not set, skipping daily digest")
		return nil
	}

	day := s.digests.Today()
	s.logger.Info("generating daily digest", zap.Time("day", day))

	digest, err := s.digests.DailyDigest(ctx, day)
	if err != nil {
		return err
	}

	return s.messagingSvc.SendOutbound(ctx, models.OutboundMessageRequest{
		To:      to,
		Message: digest,
	})
}
