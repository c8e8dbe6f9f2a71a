package mail

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Console logs messages instead of delivering them. It keeps every message so
// the CLI and tests can inspect what would have been sent.
type Console struct {
	mu     sync.Mutex
	sent   []Message
	logger *zap.Logger
}

var _ Transport = (*Console)(nil)

func NewConsole(logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{logger: logger}
}

func (c *Console) Send(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	c.sent = append(c.sent, msg)
	c.mu.Unlock()

	c.logger.Info("email (console)",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTML)))
	return nil
}

// Sent returns a copy of the messages accepted so far.
func (c *Console) Sent() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.sent))
	copy(out, c.sent)
	return out
}
