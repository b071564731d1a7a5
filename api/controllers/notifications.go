package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mercanto/storefront-backend/api/responses"
	"github.com/mercanto/storefront-backend/api/validators"
	"github.com/mercanto/storefront-backend/internal/notifications"
	"github.com/mercanto/storefront-backend/pkg/enums"
	pkgerrors "github.com/mercanto/storefront-backend/pkg/errors"
	"github.com/mercanto/storefront-backend/pkg/logger"
	"github.com/mercanto/storefront-backend/pkg/pagination"
)

// ResendNotification retries dispatch of a pending or failed notification.
func ResendNotification(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		notificationID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification id"))
			return
		}

		notification, err := svc.Resend(ctx, notificationID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, notification)
	}
}

// GetNotification returns a single notification record.
func GetNotification(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		notificationID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification id"))
			return
		}

		notification, err := svc.Get(ctx, notificationID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, notification)
	}
}

// ListNotifications returns the paginated notification ledger.
func ListNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		var filters notifications.NotificationFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("dispatch_status")); raw != "" {
			status, err := enums.ParseDispatchStatus(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid dispatch status filter"))
				return
			}
			filters.DispatchStatus = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("order_id")); raw != "" {
			orderID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id filter"))
				return
			}
			filters.OrderID = &orderID
		}

		list, err := svc.List(ctx, params, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
