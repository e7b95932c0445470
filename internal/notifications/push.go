package notifications

import (
	"context"

	"go.uber.org/zap"

	"github.com/charlesng35/stockpulse/internal/models"
	"github.com/charlesng35/stockpulse/pkg/logger"
)

// PushChannel is the extension point for mobile push. It has no transport yet
// and reports every delivery as skipped.
type PushChannel struct{}

// NewPushChannel returns the push channel stub.
func NewPushChannel() *PushChannel { return &PushChannel{} }

func (c *PushChannel) Name() string { return ChannelPush }

func (c *PushChannel) Deliver(_ context.Context, n *models.Notification) DeliveryResult {
	logger.WithModule("notifications").Debug("push delivery not implemented",
		zap.String("notification_id", n.ID),
	)
	return DeliveryResult{Channel: ChannelPush, Status: StatusSkipped, Detail: "push not implemented"}
}
