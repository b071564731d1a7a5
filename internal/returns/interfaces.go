package returns

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercanto/storefront-backend/pkg/db/models"
	"github.com/mercanto/storefront-backend/pkg/enums"
	"github.com/mercanto/storefront-backend/pkg/pagination"
	"github.com/mercanto/storefront-backend/pkg/types"
)

// ReturnFilters narrows return request listings.
type ReturnFilters struct {
	Status  *enums.ReturnStatus
	OrderID *uuid.UUID
}

// ReturnList is one page of return requests plus the next cursor.
type ReturnList struct {
	Items  []models.ReturnRequest `json:"items"`
	Cursor string                 `json:"cursor"`
}

// Repository exposes persistence helpers for return requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindReturnRequest(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error)
	ListReturnRequestsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ReturnRequest, error)
	TransitionReturnRequest(ctx context.Context, id uuid.UUID, from enums.ReturnStatus, updates map[string]any) (int64, error)
	ApprovePendingGroup(ctx context.Context, ids []uuid.UUID, updates map[string]any) (int64, error)
	ListReturnRequests(ctx context.Context, params pagination.Params, filters ReturnFilters) (*ReturnList, error)
	FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// RefundOutcome is the refund gateway's business result. A declined refund is
// reported here, not as an error.
type RefundOutcome struct {
	Success bool
	Reason  string
}

// RefundGateway settles a refund with the payment provider.
type RefundGateway interface {
	Refund(ctx context.Context, returnRequestID uuid.UUID) (*RefundOutcome, error)
}

// ConsolidatedNotification is the payload for one per-order customer email
// covering every approved item in the shipment group.
type ConsolidatedNotification struct {
	OrderID        uuid.UUID
	RecipientEmail string
	OrderReference string
	TrackingNumber string
	Items          types.NotificationItems
}

// Notifier hands a consolidated notification to the dispatch layer. Failures
// must not roll back the approval that produced the payload.
type Notifier interface {
	SendConsolidated(ctx context.Context, input ConsolidatedNotification) error
}
