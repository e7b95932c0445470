package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/charlesng35/stockpulse/internal/models"
	"github.com/charlesng35/stockpulse/pkg/logger"
	"github.com/charlesng35/stockpulse/pkg/mail"
)

type fakeMailer struct {
	configured bool
	err        error
	sent       []mail.Message
}

func (m *fakeMailer) Configured() bool { return m.configured }

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeRecipients struct {
	addresses map[string]string
}

func (f fakeRecipients) Email(_ context.Context, userID string) (string, error) {
	addr, ok := f.addresses[userID]
	if !ok {
		return "", errors.New("unknown user")
	}
	return addr, nil
}

func sampleNotification() *models.Notification {
	n := &models.Notification{
		UserID:   "user-1",
		Category: "inventory",
		Title:    "Low Stock Alert: Widget",
		Message:  "The stock level for Widget is below the reorder point.",
		Priority: "high",
	}
	n.ID = "n-1"
	n.CreatedAt = time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	return n
}

func TestEmailChannelSends(t *testing.T) {
	mailer := &fakeMailer{configured: true}
	ch := NewEmailChannel(mailer, fakeRecipients{addresses: map[string]string{"user-1": "a@example.com"}})

	res := ch.Deliver(context.Background(), sampleNotification())
	require.Equal(t, StatusSent, res.Status)
	require.Equal(t, ChannelEmail, res.Channel)
	require.NoError(t, res.Err)

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	require.Equal(t, []string{"a@example.com"}, msg.To)
	require.Equal(t, "[HIGH] Low Stock Alert: Widget", msg.Subject)
	require.True(t, strings.HasPrefix(msg.Body, "The stock level for Widget is below the reorder point."))
	require.Contains(t, msg.Body, "Priority: high\n")
	require.Contains(t, msg.Body, "Category: inventory\n")
	require.Contains(t, msg.Body, "Time: 2024-03-04T05:06:07Z")
}

func TestEmailChannelDeclinesWhenUnconfigured(t *testing.T) {
	mailer := &fakeMailer{configured: false}
	ch := NewEmailChannel(mailer, fakeRecipients{})

	res := ch.Deliver(context.Background(), sampleNotification())
	require.Equal(t, StatusDeclined, res.Status)
	require.NoError(t, res.Err)
	require.Empty(t, mailer.sent)

	res = NewEmailChannel(nil, nil).Deliver(context.Background(), sampleNotification())
	require.Equal(t, StatusDeclined, res.Status)
}

func TestEmailChannelDeclinesOnNotConfiguredError(t *testing.T) {
	mailer := &fakeMailer{configured: true, err: mail.ErrNotConfigured}
	ch := NewEmailChannel(mailer, fakeRecipients{addresses: map[string]string{"user-1": "a@example.com"}})

	res := ch.Deliver(context.Background(), sampleNotification())
	require.Equal(t, StatusDeclined, res.Status)
}

func TestEmailChannelTransportFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := logger.Set(zap.New(core))
	defer restore()

	mailer := &fakeMailer{configured: true, err: errors.New("535 auth failed")}
	ch := NewEmailChannel(mailer, fakeRecipients{addresses: map[string]string{"user-1": "a@example.com"}})

	res := ch.Deliver(context.Background(), sampleNotification())
	require.Equal(t, StatusFailed, res.Status)
	require.EqualError(t, res.Err, "535 auth failed")
	require.Equal(t, "535 auth failed", res.Detail)
	require.Equal(t, 1, logs.FilterMessage("email delivery failed").Len())
}

func TestEmailChannelRecipientFailure(t *testing.T) {
	mailer := &fakeMailer{configured: true}
	ch := NewEmailChannel(mailer, fakeRecipients{addresses: map[string]string{}})

	res := ch.Deliver(context.Background(), sampleNotification())
	require.Equal(t, StatusFailed, res.Status)
	require.Error(t, res.Err)
	require.Empty(t, mailer.sent)
}

func TestPushChannelSkips(t *testing.T) {
	res := NewPushChannel().Deliver(context.Background(), sampleNotification())
	require.Equal(t, ChannelPush, res.Channel)
	require.Equal(t, StatusSkipped, res.Status)
	require.NoError(t, res.Err)
}
