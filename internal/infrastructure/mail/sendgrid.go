package mail

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/fastygo/teamtracker/domain"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

type requestFunc func(ctx context.Context, req rest.Request) (*rest.Response, error)

// Sendgrid posts messages to the SendGrid v3 mail API.
type Sendgrid struct {
	key    string
	from   *sgmail.Email
	do     requestFunc
	logger *zap.Logger
}

var _ Transport = (*Sendgrid)(nil)

func NewSendgrid(key, fromName, fromEmail string, logger *zap.Logger) (*Sendgrid, error) {
	if key == "" || fromEmail == "" {
		return nil, domain.NewError(domain.ErrCodeConfiguration, "sendgrid requires an API key and a sender address")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sendgrid{
		key:    key,
		from:   sgmail.NewEmail(fromName, fromEmail),
		do:     sendgrid.MakeRequestWithContext,
		logger: logger,
	}, nil
}

func (s *Sendgrid) Send(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}

	req := sendgrid.GetRequest(s.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := s.do(ctx, req)
	if err != nil {
		return domain.WrapError(domain.ErrCodeTransport, "sendgrid request failed", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return domain.WrapError(domain.ErrCodeTransport, "sendgrid rejected message",
			fmt.Errorf("status %d: %s", res.StatusCode, res.Body))
	}

	s.logger.Debug("email sent",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject),
		zap.Int("status", res.StatusCode))
	return nil
}

func (s *Sendgrid) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	return m
}
