package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mercanto/storefront-backend/internal/commission"
	"github.com/mercanto/storefront-backend/pkg/db/models"
	"github.com/mercanto/storefront-backend/pkg/enums"
	pkgerrors "github.com/mercanto/storefront-backend/pkg/errors"
	"github.com/mercanto/storefront-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives the supplier order state machine. It never calls external
// gateways: label generation happens before Advance is invoked with shipped.
type Service interface {
	Advance(ctx context.Context, input AdvanceInput) (*models.SupplierOrder, error)
	CreateFromOrderItem(ctx context.Context, input CreateInput) (*models.SupplierOrder, error)
	Get(ctx context.Context, id uuid.UUID) (*models.SupplierOrder, error)
	List(ctx context.Context, params pagination.Params, filters SupplierOrderFilters) (*SupplierOrderList, error)
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// AdvanceInput carries one requested status transition.
type AdvanceInput struct {
	OrderID        uuid.UUID
	TargetStatus   enums.SupplierOrderStatus
	TrackingNumber *string
	Notes          *string
}

// CreateInput describes the per-supplier fulfillment unit split off a paid
// order line item.
type CreateInput struct {
	OrderID     uuid.UUID
	OrderItemID uuid.UUID
	ProductID   uuid.UUID
	SupplierID  uuid.UUID
	Quantity    int
	UnitPrice   decimal.Decimal
}

// NewService builds the fulfillment service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("fulfillment repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}, nil
}

func (s *service) Advance(ctx context.Context, input AdvanceInput) (*models.SupplierOrder, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier order id required")
	}
	if !input.TargetStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown target status")
	}

	var updated *models.SupplierOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindSupplierOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "supplier order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier order")
		}

		if !order.Status.CanTransitionTo(input.TargetStatus) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
				WithDetails(map[string]any{
					"from": order.Status,
					"to":   input.TargetStatus,
				})
		}

		now := s.now().UTC()
		updates := map[string]any{"status": input.TargetStatus}
		if input.Notes != nil {
			updates["notes"] = input.Notes
		}

		switch input.TargetStatus {
		case enums.SupplierOrderStatusShipped:
			if input.TrackingNumber == nil || strings.TrimSpace(*input.TrackingNumber) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "tracking number required to ship")
			}
			updates["tracking_number"] = input.TrackingNumber
			updates["shipped_at"] = now
		case enums.SupplierOrderStatusDelivered:
			updates["delivered_at"] = now
		case enums.SupplierOrderStatusCancelled:
			updates["cancelled_at"] = now
		}

		// The update carries the status the transition was validated against,
		// so a concurrent writer that moved the order first leaves nothing to
		// match and the stale transition is rejected instead of overwriting.
		affected, err := repo.TransitionSupplierOrder(ctx, order.ID, order.Status, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update supplier order")
		}
		if affected != 1 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "supplier order changed concurrently").
				WithDetails(map[string]any{
					"from": order.Status,
					"to":   input.TargetStatus,
				})
		}

		order.Status = input.TargetStatus
		if input.Notes != nil {
			order.Notes = input.Notes
		}
		switch input.TargetStatus {
		case enums.SupplierOrderStatusShipped:
			order.TrackingNumber = input.TrackingNumber
			order.ShippedAt = &now
		case enums.SupplierOrderStatusDelivered:
			order.DeliveredAt = &now
		case enums.SupplierOrderStatusCancelled:
			order.CancelledAt = &now
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) CreateFromOrderItem(ctx context.Context, input CreateInput) (*models.SupplierOrder, error) {
	if input.OrderID == uuid.Nil || input.OrderItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order and order item ids required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}

	var created *models.SupplierOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		supplier, err := repo.FindSupplier(ctx, input.SupplierID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
		}

		breakdown, err := commission.Calculate(input.UnitPrice, input.Quantity, supplier.CommissionRate)
		if err != nil {
			return err
		}

		order := &models.SupplierOrder{
			OrderID:         input.OrderID,
			OrderItemID:     input.OrderItemID,
			ProductID:       input.ProductID,
			SupplierID:      input.SupplierID,
			Quantity:        input.Quantity,
			UnitPrice:       input.UnitPrice,
			TotalPrice:      breakdown.TotalPrice,
			CommissionRate:  supplier.CommissionRate,
			Commission:      breakdown.Commission,
			SupplierRevenue: breakdown.SupplierRevenue,
			Status:          enums.SupplierOrderStatusPending,
		}
		if order.ID == uuid.Nil {
			order.ID = uuid.New()
		}

		created, err = repo.CreateSupplierOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.SupplierOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier order id required")
	}
	order, err := s.repo.FindSupplierOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters SupplierOrderFilters) (*SupplierOrderList, error) {
	list, err := s.repo.ListSupplierOrders(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier orders")
	}
	return list, nil
}
