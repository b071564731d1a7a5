package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercanto/storefront-backend/pkg/db/models"
	"github.com/mercanto/storefront-backend/pkg/enums"
	"github.com/mercanto/storefront-backend/pkg/pagination"
)

// SupplierOrderFilters narrows supplier order listings.
type SupplierOrderFilters struct {
	Status     *enums.SupplierOrderStatus
	SupplierID *uuid.UUID
}

// SupplierOrderList is one page of supplier orders plus the next cursor.
type SupplierOrderList struct {
	Items  []models.SupplierOrder `json:"items"`
	Cursor string                 `json:"cursor"`
}

// Repository exposes persistence helpers for supplier orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateSupplierOrder(ctx context.Context, order *models.SupplierOrder) (*models.SupplierOrder, error)
	FindSupplierOrder(ctx context.Context, id uuid.UUID) (*models.SupplierOrder, error)
	TransitionSupplierOrder(ctx context.Context, id uuid.UUID, from enums.SupplierOrderStatus, updates map[string]any) (int64, error)
	ListSupplierOrders(ctx context.Context, params pagination.Params, filters SupplierOrderFilters) (*SupplierOrderList, error)
	FindSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	FindOrderItem(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
}
