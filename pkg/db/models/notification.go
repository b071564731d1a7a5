package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mercanto/storefront-backend/pkg/enums"
	"github.com/mercanto/storefront-backend/pkg/types"
)

// Notification stores a consolidated customer notification and its dispatch
// outcome. A failed dispatch never rolls back the ledger transition that
// produced it; the row stays visible so an operator can resend manually.
type Notification struct {
	ID             uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID               `gorm:"column:order_id;type:uuid;not null"`
	Type           enums.NotificationType  `gorm:"column:type;type:notification_type;not null"`
	RecipientEmail string                  `gorm:"column:recipient_email;not null"`
	OrderReference string                  `gorm:"column:order_reference;not null"`
	TrackingNumber *string                 `gorm:"column:tracking_number"`
	Items          types.NotificationItems `gorm:"column:items;type:jsonb;serializer:json"`
	DispatchStatus enums.DispatchStatus    `gorm:"column:dispatch_status;type:dispatch_status;not null;default:'pending'"`
	DispatchError  *string                 `gorm:"column:dispatch_error"`
	DispatchedAt   *time.Time              `gorm:"column:dispatched_at"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
