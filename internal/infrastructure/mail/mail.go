package mail

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/internal/config"
)

// Message is a single HTML notification addressed to one recipient.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	HTML    string
}

// Transport delivers rendered notifications. Implementations report delivery
// failures as TRANSPORT domain errors.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// New selects the transport configured by cfg.Provider.
func New(cfg config.MailConfig, logger *zap.Logger) (Transport, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", config.MailProviderConsole:
		return NewConsole(logger), nil
	case config.MailProviderSendgrid:
		return NewSendgrid(cfg.SendgridAPIKey, cfg.FromName, cfg.FromEmail, logger)
	default:
		return nil, domain.WrapError(domain.ErrCodeConfiguration, "unknown mail provider", fmt.Errorf("provider %q", cfg.Provider))
	}
}

func validate(msg Message) error {
	if strings.TrimSpace(msg.ToEmail) == "" {
		return domain.NewError(domain.ErrCodeInvalid, "recipient email is required")
	}
	return nil
}
