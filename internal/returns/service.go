package returns

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mercanto/storefront-backend/internal/shipping"
	"github.com/mercanto/storefront-backend/pkg/db/models"
	"github.com/mercanto/storefront-backend/pkg/enums"
	pkgerrors "github.com/mercanto/storefront-backend/pkg/errors"
	"github.com/mercanto/storefront-backend/pkg/logger"
	"github.com/mercanto/storefront-backend/pkg/metrics"
	"github.com/mercanto/storefront-backend/pkg/pagination"
	"github.com/mercanto/storefront-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// LabelGenerator is the slice of the shipping service the consolidator needs.
type LabelGenerator interface {
	GenerateLabel(ctx context.Context, req shipping.LabelRequest) (*shipping.Label, error)
}

// FailedGroup reports one order whose consolidation group could not be
// approved. Its requests remain pending and may be retried.
type FailedGroup struct {
	OrderID uuid.UUID `json:"order_id"`
	Reason  string    `json:"reason"`
}

// BulkApproveResult summarizes one consolidation run. Callers always get the
// full breakdown, never a bare success flag.
type BulkApproveResult struct {
	ApprovedCount int           `json:"approved_count"`
	SkippedIDs    []uuid.UUID   `json:"skipped_ids"`
	FailedGroups  []FailedGroup `json:"failed_groups"`
}

// Service drives the return request lifecycle: consolidation, individual
// transitions, and refund settlement.
type Service interface {
	BulkApprove(ctx context.Context, ids []uuid.UUID) (*BulkApproveResult, error)
	Transition(ctx context.Context, id uuid.UUID, target enums.ReturnStatus) (*models.ReturnRequest, error)
	ProcessRefund(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error)
	List(ctx context.Context, params pagination.Params, filters ReturnFilters) (*ReturnList, error)
}

type service struct {
	repo          Repository
	tx            txRunner
	labels        LabelGenerator
	refunds       RefundGateway
	notifier      Notifier
	log           *logger.Logger
	metrics       *metrics.EngineMetrics
	returnCarrier enums.Carrier
	refundTimeout time.Duration
	now           func() time.Time
}

// NewService wires the returns engine dependencies.
func NewService(
	repo Repository,
	tx txRunner,
	labels LabelGenerator,
	refunds RefundGateway,
	notifier Notifier,
	log *logger.Logger,
	engineMetrics *metrics.EngineMetrics,
	returnCarrier enums.Carrier,
	refundTimeout time.Duration,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("returns repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if labels == nil {
		return nil, fmt.Errorf("label generator required")
	}
	if refunds == nil {
		return nil, fmt.Errorf("refund gateway required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if !returnCarrier.IsValid() {
		return nil, fmt.Errorf("invalid return carrier %q", returnCarrier)
	}
	if refundTimeout <= 0 {
		refundTimeout = 10 * time.Second
	}
	return &service{
		repo:          repo,
		tx:            tx,
		labels:        labels,
		refunds:       refunds,
		notifier:      notifier,
		log:           log,
		metrics:       engineMetrics,
		returnCarrier: returnCarrier,
		refundTimeout: refundTimeout,
		now:           time.Now,
	}, nil
}

func (s *service) BulkApprove(ctx context.Context, ids []uuid.UUID) (*BulkApproveResult, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one return request id required")
	}

	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one return request id required")
	}

	requests, err := s.repo.ListReturnRequestsByIDs(ctx, unique)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load return requests")
	}

	result := &BulkApproveResult{
		SkippedIDs:   []uuid.UUID{},
		FailedGroups: []FailedGroup{},
	}

	found := make(map[uuid.UUID]bool, len(requests))
	groups := make(map[uuid.UUID][]models.ReturnRequest)
	for _, request := range requests {
		found[request.ID] = true
		if request.Status != enums.ReturnStatusPending {
			result.SkippedIDs = append(result.SkippedIDs, request.ID)
			continue
		}
		groups[request.OrderID] = append(groups[request.OrderID], request)
	}
	for _, id := range unique {
		if !found[id] {
			result.SkippedIDs = append(result.SkippedIDs, id)
		}
	}

	// Stable group order keeps retries and summaries deterministic.
	orderIDs := make([]uuid.UUID, 0, len(groups))
	for orderID := range groups {
		orderIDs = append(orderIDs, orderID)
	}
	sort.Slice(orderIDs, func(i, j int) bool {
		return orderIDs[i].String() < orderIDs[j].String()
	})

	for _, orderID := range orderIDs {
		group := groups[orderID]
		approved, err := s.approveGroup(ctx, orderID, group)
		if err != nil {
			result.FailedGroups = append(result.FailedGroups, FailedGroup{
				OrderID: orderID,
				Reason:  err.Error(),
			})
			continue
		}
		result.ApprovedCount += approved
		s.metrics.ObserveBatchSize(len(group))
	}

	return result, nil
}

// approveGroup processes one order's pending returns as an all-or-nothing
// unit. The label is generated before the transaction so a gateway failure
// leaves every member pending.
func (s *service) approveGroup(ctx context.Context, orderID uuid.UUID, group []models.ReturnRequest) (int, error) {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("order %s not found", orderID)
		}
		return 0, fmt.Errorf("load order: %w", err)
	}
	if order.ShippingAddress == nil {
		return 0, fmt.Errorf("order %s has no shipping address", orderID)
	}

	weight := decimal.Zero
	items := make(types.NotificationItems, 0, len(group))
	for _, request := range group {
		if request.OrderItem == nil {
			return 0, fmt.Errorf("return request %s has no order item", request.ID)
		}
		weight = weight.Add(request.OrderItem.UnitWeightKg.Mul(decimal.NewFromInt(int64(request.OrderItem.Quantity))))
		items = append(items, types.NotificationItem{
			ProductName: request.OrderItem.ProductName,
			Reason:      request.Reason.String(),
		})
	}

	weightFloat, _ := weight.Float64()
	packageType, ok := enums.PackageTypeForWeightKg(weightFloat)
	if !ok {
		packageType = enums.PackageTypeHeavy
	}

	label, err := s.labels.GenerateLabel(ctx, shipping.LabelRequest{
		Carrier:     s.returnCarrier,
		PackageType: packageType,
		WeightKg:    weight,
		Destination: *order.ShippingAddress,
		Reference:   orderID.String(),
	})
	if err != nil {
		return 0, fmt.Errorf("label generation: %w", err)
	}

	groupIDs := make([]uuid.UUID, 0, len(group))
	for _, request := range group {
		groupIDs = append(groupIDs, request.ID)
	}

	now := s.now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		affected, err := repo.ApprovePendingGroup(ctx, groupIDs, map[string]any{
			"status":          enums.ReturnStatusApproved,
			"tracking_number": label.TrackingNumber,
			"approved_at":     now,
		})
		if err != nil {
			return err
		}
		// A concurrent writer changed a member's status between the initial
		// read and this transaction. Roll back so the group stays atomic.
		if affected != int64(len(groupIDs)) {
			return fmt.Errorf("group changed concurrently: %d of %d rows still pending", affected, len(groupIDs))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	notifyErr := s.notifier.SendConsolidated(ctx, ConsolidatedNotification{
		OrderID:        orderID,
		RecipientEmail: order.CustomerEmail,
		OrderReference: order.OrderNumber,
		TrackingNumber: label.TrackingNumber,
		Items:          items,
	})
	if notifyErr != nil {
		ctx = s.log.WithOrderID(ctx, orderID.String())
		ctx = s.log.WithField(ctx, "tracking_number", label.TrackingNumber)
		s.log.Error(ctx, "consolidated return notification failed", notifyErr)
	}

	return len(group), nil
}

func (s *service) Transition(ctx context.Context, id uuid.UUID, target enums.ReturnStatus) (*models.ReturnRequest, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "return request id required")
	}
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown target status")
	}
	if target == enums.ReturnStatusRefunded {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refunds are settled through the refund operation")
	}

	var updated *models.ReturnRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		request, err := repo.FindReturnRequest(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "return request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load return request")
		}

		if !request.Status.CanTransitionTo(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
				WithDetails(map[string]any{
					"from": request.Status,
					"to":   target,
				})
		}

		now := s.now().UTC()
		updates := map[string]any{"status": target}
		switch target {
		case enums.ReturnStatusApproved:
			updates["approved_at"] = now
		case enums.ReturnStatusReceived:
			updates["received_at"] = now
		}

		// Guarding on the status the transition was validated against keeps
		// racing operators from both committing; the slower one matches
		// nothing and fails here.
		affected, err := repo.TransitionReturnRequest(ctx, request.ID, request.Status, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update return request")
		}
		if affected != 1 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "return request changed concurrently").
				WithDetails(map[string]any{
					"from": request.Status,
					"to":   target,
				})
		}

		request.Status = target
		switch target {
		case enums.ReturnStatusApproved:
			request.ApprovedAt = &now
		case enums.ReturnStatusReceived:
			request.ReceivedAt = &now
		}
		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) ProcessRefund(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "return request id required")
	}

	request, err := s.repo.FindReturnRequest(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "return request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load return request")
	}
	if request.Status != enums.ReturnStatusReceived {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "refund requires a received return").
			WithDetails(map[string]any{"status": request.Status})
	}

	// Claim the row before touching the gateway. Only one caller can move
	// received to refunded, so a racing operator fails here and the payment
	// provider is never asked to release the same funds twice.
	claimed, err := s.repo.TransitionReturnRequest(ctx, request.ID, enums.ReturnStatusReceived, map[string]any{
		"status":        enums.ReturnStatusRefunded,
		"refund_status": enums.RefundStatusPending,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim return for refund")
	}
	if claimed != 1 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "refund already in progress").
			WithDetails(map[string]any{"status": request.Status})
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, s.refundTimeout)
	defer cancel()

	outcome, err := s.refunds.Refund(gatewayCtx, request.ID)
	if err != nil {
		// Transport failure: release the claim so the operator can retry
		// from received.
		s.releaseRefundClaim(ctx, request.ID)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeGatewayTimeout, err, "refund gateway timed out")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refund gateway failed")
	}

	now := s.now().UTC()
	refundStatus := enums.RefundStatusSucceeded
	var refundError *string
	if !outcome.Success {
		refundStatus = enums.RefundStatusFailed
		reason := outcome.Reason
		if reason == "" {
			reason = "refund declined"
		}
		refundError = &reason
	}

	if _, err := s.repo.TransitionReturnRequest(ctx, request.ID, enums.ReturnStatusRefunded, map[string]any{
		"refund_status": refundStatus,
		"refund_error":  refundError,
		"refunded_at":   now,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record refund outcome")
	}

	s.metrics.IncRefundOutcome(refundStatus.String())

	request.Status = enums.ReturnStatusRefunded
	request.RefundStatus = &refundStatus
	request.RefundError = refundError
	request.RefundedAt = &now
	return request, nil
}

// releaseRefundClaim moves a claimed row back to received after a transport
// failure. The guard on the claimed state keeps the rollback from clobbering
// an outcome written by someone else.
func (s *service) releaseRefundClaim(ctx context.Context, id uuid.UUID) {
	released, err := s.repo.TransitionReturnRequest(ctx, id, enums.ReturnStatusRefunded, map[string]any{
		"status":        enums.ReturnStatusReceived,
		"refund_status": nil,
	})
	if err != nil || released != 1 {
		ctx = s.log.WithField(ctx, "return_request_id", id.String())
		s.log.Error(ctx, "refund claim release failed", err)
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "return request id required")
	}
	request, err := s.repo.FindReturnRequest(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "return request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load return request")
	}
	return request, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ReturnFilters) (*ReturnList, error) {
	list, err := s.repo.ListReturnRequests(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list return requests")
	}
	return list, nil
}
