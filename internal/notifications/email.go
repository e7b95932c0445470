package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/charlesng35/stockpulse/internal/models"
	"github.com/charlesng35/stockpulse/pkg/logger"
	"github.com/charlesng35/stockpulse/pkg/mail"
)

// RecipientResolver maps a user id to a deliverable email address.
type RecipientResolver interface {
	Email(ctx context.Context, userID string) (string, error)
}

// EmailChannel sends notifications through an SMTP mailer.
type EmailChannel struct {
	mailer     mail.Mailer
	recipients RecipientResolver
}

// NewEmailChannel builds the email channel. A nil or unconfigured mailer makes
// every delivery decline.
func NewEmailChannel(mailer mail.Mailer, recipients RecipientResolver) *EmailChannel {
	return &EmailChannel{mailer: mailer, recipients: recipients}
}

func (c *EmailChannel) Name() string { return ChannelEmail }

// Deliver sends one message, once. Errors are logged and folded into the result.
func (c *EmailChannel) Deliver(ctx context.Context, n *models.Notification) DeliveryResult {
	if c.mailer == nil || !c.mailer.Configured() {
		return DeliveryResult{Channel: ChannelEmail, Status: StatusDeclined, Detail: "smtp not configured"}
	}

	log := logger.WithModule("notifications").With(
		zap.String("channel", ChannelEmail),
		zap.String("notification_id", n.ID),
		zap.String("user_id", n.UserID),
	)

	if c.recipients == nil {
		err := errors.New("no recipient resolver")
		log.Error("email delivery failed", zap.Error(err))
		return failed(ChannelEmail, err)
	}

	address, err := c.recipients.Email(ctx, n.UserID)
	if err != nil {
		log.Error("resolve recipient", zap.Error(err))
		return failed(ChannelEmail, fmt.Errorf("resolve recipient: %w", err))
	}

	err = c.mailer.Send(ctx, ComposeEmail(n, address))
	switch {
	case errors.Is(err, mail.ErrNotConfigured):
		return DeliveryResult{Channel: ChannelEmail, Status: StatusDeclined, Detail: "smtp not configured"}
	case err != nil:
		log.Error("email delivery failed", zap.Error(err))
		return failed(ChannelEmail, err)
	}

	log.Debug("email delivered")
	return DeliveryResult{Channel: ChannelEmail, Status: StatusSent}
}

// ComposeEmail renders the subject and body for a notification.
func ComposeEmail(n *models.Notification, to string) mail.Message {
	var body strings.Builder
	body.WriteString(n.Message)
	body.WriteString("\n\n")
	fmt.Fprintf(&body, "Priority: %s\n", n.Priority)
	fmt.Fprintf(&body, "Category: %s\n", n.Category)
	fmt.Fprintf(&body, "Time: %s\n", n.CreatedAt.UTC().Format(time.RFC3339))

	return mail.Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] %s", strings.ToUpper(n.Priority), n.Title),
		Body:    body.String(),
	}
}
