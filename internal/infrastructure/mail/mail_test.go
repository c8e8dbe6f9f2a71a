package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/internal/config"
)

func TestNewSelectsProvider(t *testing.T) {
	tr, err := New(config.MailConfig{Provider: config.MailProviderConsole}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Console{}, tr)

	tr, err = New(config.MailConfig{Provider: "SendGrid", SendgridAPIKey: "key", FromEmail: "bot@example.com"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Sendgrid{}, tr)

	_, err = New(config.MailConfig{Provider: config.MailProviderSendgrid}, nil)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConfiguration))

	_, err = New(config.MailConfig{Provider: "pigeon"}, nil)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConfiguration))
}

func TestConsoleRecordsMessages(t *testing.T) {
	c := NewConsole(nil)
	msg := Message{ToName: "Ann", ToEmail: "ann@example.com", Subject: "hi", HTML: "<p>hi</p>"}

	require.NoError(t, c.Send(context.Background(), msg))
	assert.Equal(t, []Message{msg}, c.Sent())

	err := c.Send(context.Background(), Message{Subject: "no recipient"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Len(t, c.Sent(), 1)
}

func TestSendgridBuildsRequest(t *testing.T) {
	s, err := NewSendgrid("secret", "Tracker", "bot@example.com", nil)
	require.NoError(t, err)

	var captured rest.Request
	s.do = func(_ context.Context, req rest.Request) (*rest.Response, error) {
		captured = req
		return &rest.Response{StatusCode: http.StatusAccepted}, nil
	}

	err = s.Send(context.Background(), Message{ToName: "Ann", ToEmail: "ann@example.com", Subject: "⏰ Daily Task Reminder", HTML: "<p>go</p>"})
	require.NoError(t, err)

	assert.Equal(t, rest.Method(http.MethodPost), captured.Method)
	assert.Equal(t, "https://api.sendgrid.com/v3/mail/send", captured.BaseURL)
	assert.Equal(t, "Bearer secret", captured.Headers["Authorization"])

	var body struct {
		From struct {
			Email string `json:"email"`
		} `json:"from"`
		Personalizations []struct {
			Subject string `json:"subject"`
			To      []struct {
				Email string `json:"email"`
			} `json:"to"`
		} `json:"personalizations"`
		Content []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(captured.Body, &body))
	assert.Equal(t, "bot@example.com", body.From.Email)
	require.Len(t, body.Personalizations, 1)
	assert.Equal(t, "⏰ Daily Task Reminder", body.Personalizations[0].Subject)
	assert.Equal(t, "ann@example.com", body.Personalizations[0].To[0].Email)
	require.Len(t, body.Content, 1)
	assert.Equal(t, "text/html", body.Content[0].Type)
}

func TestSendgridFailuresAreTransportErrors(t *testing.T) {
	s, err := NewSendgrid("secret", "", "bot@example.com", nil)
	require.NoError(t, err)
	msg := Message{ToEmail: "ann@example.com", Subject: "s", HTML: "h"}

	s.do = func(context.Context, rest.Request) (*rest.Response, error) {
		return &rest.Response{StatusCode: http.StatusUnauthorized, Body: "bad key"}, nil
	}
	err = s.Send(context.Background(), msg)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeTransport))
	assert.Contains(t, err.Error(), "401")

	s.do = func(context.Context, rest.Request) (*rest.Response, error) {
		return nil, errors.New("dial tcp: timeout")
	}
	err = s.Send(context.Background(), msg)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeTransport))
}
