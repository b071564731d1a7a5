package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mercanto/storefront-backend/pkg/types"
)

// Order is the customer order record. The fulfillment engine treats it as
// read-only reference data owned by the storefront: it supplies the order
// number, customer contact, and the shipping address used for return labels.
type Order struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string         `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerName    string         `gorm:"column:customer_name;not null"`
	CustomerEmail   string         `gorm:"column:customer_email;not null"`
	ShippingAddress *types.Address `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
