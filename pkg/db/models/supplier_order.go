package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercanto/storefront-backend/pkg/enums"
)

// SupplierOrder is the per-supplier fulfillment unit created when a paid
// order is split into line items. Rows are never deleted; cancellation is a
// terminal status.
type SupplierOrder struct {
	ID              uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID                 `gorm:"column:order_id;type:uuid;not null"`
	OrderItemID     uuid.UUID                 `gorm:"column:order_item_id;type:uuid;not null"`
	ProductID       uuid.UUID                 `gorm:"column:product_id;type:uuid;not null"`
	SupplierID      uuid.UUID                 `gorm:"column:supplier_id;type:uuid;not null"`
	Quantity        int                       `gorm:"column:quantity;not null"`
	UnitPrice       decimal.Decimal           `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice      decimal.Decimal           `gorm:"column:total_price;type:numeric(12,2);not null"`
	CommissionRate  decimal.Decimal           `gorm:"column:commission_rate;type:numeric(5,2);not null"`
	Commission      decimal.Decimal           `gorm:"column:commission;type:numeric(12,2);not null"`
	SupplierRevenue decimal.Decimal           `gorm:"column:supplier_revenue;type:numeric(12,2);not null"`
	Status          enums.SupplierOrderStatus `gorm:"column:status;type:supplier_order_status;not null;default:'pending'"`
	TrackingNumber  *string                   `gorm:"column:tracking_number"`
	Notes           *string                   `gorm:"column:notes"`
	ShippedAt       *time.Time                `gorm:"column:shipped_at"`
	DeliveredAt     *time.Time                `gorm:"column:delivered_at"`
	CancelledAt     *time.Time                `gorm:"column:cancelled_at"`
	CreatedAt       time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
