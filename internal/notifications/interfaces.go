package notifications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercanto/storefront-backend/pkg/db/models"
	"github.com/mercanto/storefront-backend/pkg/enums"
	"github.com/mercanto/storefront-backend/pkg/pagination"
)

// NotificationFilters narrows notification listings.
type NotificationFilters struct {
	DispatchStatus *enums.DispatchStatus
	OrderID        *uuid.UUID
}

// NotificationList is one page of notifications plus the next cursor.
type NotificationList struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// Repository exposes persistence helpers for notification records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notification *models.Notification) (*models.Notification, error)
	Find(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	List(ctx context.Context, params pagination.Params, filters NotificationFilters) (*NotificationList, error)
}

// Dispatcher delivers one notification to the customer-facing channel.
type Dispatcher interface {
	Dispatch(ctx context.Context, notification *models.Notification) error
}
