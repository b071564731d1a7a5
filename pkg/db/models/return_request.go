package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mercanto/storefront-backend/pkg/enums"
)

// ReturnRequest is one customer-initiated return of a single order item.
// Requests belonging to the same order are consolidated into one shipment:
// every member of the group stores the shared tracking number.
type ReturnRequest struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	OrderItemID    uuid.UUID           `gorm:"column:order_item_id;type:uuid;not null"`
	UserID         uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	Reason         enums.ReturnReason  `gorm:"column:reason;type:return_reason;not null"`
	Details        *string             `gorm:"column:details"`
	Status         enums.ReturnStatus  `gorm:"column:status;type:return_status;not null;default:'pending'"`
	RefundStatus   *enums.RefundStatus `gorm:"column:refund_status;type:refund_status"`
	RefundError    *string             `gorm:"column:refund_error"`
	TrackingNumber *string             `gorm:"column:tracking_number"`
	ApprovedAt     *time.Time          `gorm:"column:approved_at"`
	ReceivedAt     *time.Time          `gorm:"column:received_at"`
	RefundedAt     *time.Time          `gorm:"column:refunded_at"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	OrderItem *OrderItem `gorm:"foreignKey:OrderItemID"`
}
