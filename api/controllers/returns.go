package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mercanto/storefront-backend/api/responses"
	"github.com/mercanto/storefront-backend/api/validators"
	"github.com/mercanto/storefront-backend/internal/returns"
	"github.com/mercanto/storefront-backend/pkg/enums"
	pkgerrors "github.com/mercanto/storefront-backend/pkg/errors"
	"github.com/mercanto/storefront-backend/pkg/logger"
	"github.com/mercanto/storefront-backend/pkg/pagination"
)

type bulkApproveBody struct {
	ReturnRequestIDs []string `json:"return_request_ids" validate:"required,min=1,max=200,dive,uuid4"`
}

// BulkApproveReturns consolidates pending returns per order and approves each
// group atomically.
func BulkApproveReturns(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "returns service unavailable"))
			return
		}

		var body bulkApproveBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ids := make([]uuid.UUID, 0, len(body.ReturnRequestIDs))
		for _, raw := range body.ReturnRequestIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid return request id"))
				return
			}
			ids = append(ids, id)
		}

		result, err := svc.BulkApprove(ctx, ids)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type transitionReturnBody struct {
	TargetStatus string `json:"target_status" validate:"required"`
}

// TransitionReturn applies one individual return status transition.
func TransitionReturn(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "returns service unavailable"))
			return
		}

		returnID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid return request id"))
			return
		}

		var body transitionReturnBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		target, err := enums.ParseReturnStatus(body.TargetStatus)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid target status"))
			return
		}

		request, err := svc.Transition(ctx, returnID, target)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

// RefundReturn settles the refund for a received return.
func RefundReturn(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "returns service unavailable"))
			return
		}

		returnID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid return request id"))
			return
		}

		request, err := svc.ProcessRefund(ctx, returnID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

// GetReturn returns a single return request.
func GetReturn(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "returns service unavailable"))
			return
		}

		returnID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid return request id"))
			return
		}

		request, err := svc.Get(ctx, returnID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

// ListReturns returns the paginated return request queue.
func ListReturns(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "returns service unavailable"))
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

		var filters returns.ReturnFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseReturnStatus(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
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
