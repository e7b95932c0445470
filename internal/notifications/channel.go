package notifications

import (
	"context"

	"github.com/charlesng35/stockpulse/internal/models"
)

// Channel names.
const (
	ChannelEmail = "email"
	ChannelPush  = "push"
)

// DeliveryStatus is the outcome of one channel attempt.
type DeliveryStatus string

const (
	// StatusSent means the transport accepted the message.
	StatusSent DeliveryStatus = "sent"
	// StatusDeclined means the channel is not configured and made no attempt.
	StatusDeclined DeliveryStatus = "declined"
	// StatusFailed means an attempt was made and failed.
	StatusFailed DeliveryStatus = "failed"
	// StatusSkipped means the channel has no implementation.
	StatusSkipped DeliveryStatus = "skipped"
)

// DeliveryResult reports what a channel did with a notification.
type DeliveryResult struct {
	Channel string         `json:"channel"`
	Status  DeliveryStatus `json:"status"`
	Detail  string         `json:"detail,omitempty"`
	Err     error          `json:"-"`
}

func failed(channel string, err error) DeliveryResult {
	return DeliveryResult{Channel: channel, Status: StatusFailed, Detail: err.Error(), Err: err}
}

// Channel delivers a persisted notification on a best-effort basis. Deliver
// must not panic or return errors out of band; every outcome is a result.
type Channel interface {
	// Name labels delivery results and metrics.
	Name() string
	Deliver(ctx context.Context, n *models.Notification) DeliveryResult
}
