package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supplier carries the supplier-specific commission rate applied when an
// order item is split into supplier orders.
type Supplier struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string          `gorm:"column:name;not null"`
	ContactEmail   string          `gorm:"column:contact_email;not null"`
	CommissionRate decimal.Decimal `gorm:"column:commission_rate;type:numeric(5,2);not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
