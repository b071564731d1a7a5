package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercanto/storefront-backend/pkg/db/models"
	"github.com/mercanto/storefront-backend/pkg/enums"
	pkgerrors "github.com/mercanto/storefront-backend/pkg/errors"
	"github.com/mercanto/storefront-backend/pkg/pagination"
	"github.com/mercanto/storefront-backend/pkg/types"
)

// ConsolidatedInput is one per-order notification covering every item in a
// return shipment group.
type ConsolidatedInput struct {
	OrderID        uuid.UUID
	Type           enums.NotificationType
	RecipientEmail string
	OrderReference string
	TrackingNumber string
	Items          types.NotificationItems
}

// Service records notifications and hands them to the dispatcher. The record
// is written before dispatch so a delivery failure stays visible for manual
// resend.
type Service interface {
	SendConsolidated(ctx context.Context, input ConsolidatedInput) error
	Resend(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, params pagination.Params, filters NotificationFilters) (*NotificationList, error)
}

type service struct {
	repo       Repository
	dispatcher Dispatcher
	now        func() time.Time
}

// NewService wires the notification service dependencies.
func NewService(repo Repository, dispatcher Dispatcher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher required")
	}
	return &service{repo: repo, dispatcher: dispatcher, now: time.Now}, nil
}

func (s *service) SendConsolidated(ctx context.Context, input ConsolidatedInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.RecipientEmail == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient email required")
	}
	notificationType := input.Type
	if notificationType == "" {
		notificationType = enums.NotificationTypeReturnApproved
	}
	if !notificationType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown notification type")
	}

	notification := &models.Notification{
		ID:             uuid.New(),
		OrderID:        input.OrderID,
		Type:           notificationType,
		RecipientEmail: input.RecipientEmail,
		OrderReference: input.OrderReference,
		Items:          input.Items,
		DispatchStatus: enums.DispatchStatusPending,
	}
	if input.TrackingNumber != "" {
		notification.TrackingNumber = &input.TrackingNumber
	}

	if _, err := s.repo.Create(ctx, notification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist notification")
	}

	return s.dispatch(ctx, notification)
}

func (s *service) Resend(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	notification, err := s.repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load notification")
	}
	if notification.DispatchStatus == enums.DispatchStatusSent {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "notification already sent")
	}

	if err := s.dispatch(ctx, notification); err != nil {
		return notification, err
	}
	return notification, nil
}

// dispatch delivers the record and persists the outcome. A delivery failure
// is reported as a dispatch error after the failed status is stored.
func (s *service) dispatch(ctx context.Context, notification *models.Notification) error {
	dispatchErr := s.dispatcher.Dispatch(ctx, notification)
	now := s.now().UTC()

	if dispatchErr != nil {
		message := dispatchErr.Error()
		updates := map[string]any{
			"dispatch_status": enums.DispatchStatusFailed,
			"dispatch_error":  message,
		}
		if err := s.repo.Update(ctx, notification.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record dispatch failure")
		}
		notification.DispatchStatus = enums.DispatchStatusFailed
		notification.DispatchError = &message
		return pkgerrors.Wrap(pkgerrors.CodeDispatch, dispatchErr, "notification dispatch failed")
	}

	updates := map[string]any{
		"dispatch_status": enums.DispatchStatusSent,
		"dispatch_error":  nil,
		"dispatched_at":   now,
	}
	if err := s.repo.Update(ctx, notification.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record dispatch success")
	}
	notification.DispatchStatus = enums.DispatchStatusSent
	notification.DispatchError = nil
	notification.DispatchedAt = &now
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}
	notification, err := s.repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load notification")
	}
	return notification, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters NotificationFilters) (*NotificationList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	return list, nil
}
