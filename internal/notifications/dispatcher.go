package notifications

import (
	"context"
	"fmt"

	"github.com/mercanto/storefront-backend/pkg/db/models"
	"github.com/mercanto/storefront-backend/pkg/logger"
)

// LogDispatcher writes the notification payload to the structured log instead
// of an email channel. Production deployments swap in a real Dispatcher; the
// persisted record and resend path work the same either way.
type LogDispatcher struct {
	log *logger.Logger
}

// NewLogDispatcher builds the log-backed dispatcher.
func NewLogDispatcher(log *logger.Logger) (*LogDispatcher, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &LogDispatcher{log: log}, nil
}

func (d *LogDispatcher) Dispatch(ctx context.Context, notification *models.Notification) error {
	fields := map[string]any{
		"notification_id": notification.ID.String(),
		"type":            string(notification.Type),
		"recipient":       notification.RecipientEmail,
		"order_reference": notification.OrderReference,
		"item_count":      len(notification.Items),
	}
	if notification.TrackingNumber != nil {
		fields["tracking_number"] = *notification.TrackingNumber
	}
	d.log.Info(d.log.WithFields(ctx, fields), "notification dispatched")
	return nil
}
