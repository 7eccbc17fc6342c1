package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hamadismail/xpeed-cng/internal/config"
	"github.com/hamadismail/xpeed-cng/internal/domain/models"
	client "github.com/hamadismail/xpeed-cng/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

var (
	// ErrMessagingDisabled is returned when no WhatsApp credentials are configured.
	ErrMessagingDisabled = errors.New("whatsapp messaging is not configured")
	// ErrSendFailed wraps failures reported by the WhatsApp API.
	ErrSendFailed = errors.New("whatsapp send failed")
)

// MessagingService pushes outbound text notifications.
type MessagingService interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
	// DefaultRecipient is the number used when a caller does not name one.
	DefaultRecipient() string
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg    config.WhatsAppConfig
	client client.Client
	logger *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance. A nil client disables sending.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// DefaultRecipient returns the manager number from configuration.
func (s *MetaWhatsAppService) DefaultRecipient() string {
	return s.cfg.ManagerID
}

// SendOutbound delivers a text message.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	if s.client == nil || !s.cfg.Enabled() {
		return ErrMessagingDisabled
	}

	to := strings.TrimSpace(req.To)
	if to == "" {
		return client.ErrEmptyRecipient
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         to,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		s.logger.Error("failed to send whatsapp message", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	s.logger.Info("whatsapp message sent", zap.String("to", to), zap.Int("parts", len(resp.Messages)))
	return nil
}
