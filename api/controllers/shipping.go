package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mercanto/storefront-backend/api/responses"
	"github.com/mercanto/storefront-backend/api/validators"
	"github.com/mercanto/storefront-backend/internal/shipping"
	"github.com/mercanto/storefront-backend/pkg/enums"
	pkgerrors "github.com/mercanto/storefront-backend/pkg/errors"
	"github.com/mercanto/storefront-backend/pkg/logger"
	"github.com/mercanto/storefront-backend/pkg/types"
)

type generateLabelBody struct {
	Carrier     string        `json:"carrier" validate:"required"`
	PackageType string        `json:"package_type" validate:"required"`
	WeightKg    float64       `json:"weight_kg" validate:"required,gt=0"`
	Destination types.Address `json:"destination" validate:"required"`
	Reference   string        `json:"reference" validate:"required,max=64"`
}

// GenerateShippingLabel produces a label artifact for printing. Nothing is
// persisted; the tracking number reaches the ledger via the fulfillment or
// returns flows.
func GenerateShippingLabel(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		var body generateLabelBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		carrier, err := enums.ParseCarrier(body.Carrier)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid carrier"))
			return
		}
		packageType, err := enums.ParsePackageType(body.PackageType)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid package type"))
			return
		}

		label, err := svc.GenerateLabel(ctx, shipping.LabelRequest{
			Carrier:     carrier,
			PackageType: packageType,
			WeightKg:    decimal.NewFromFloat(body.WeightKg),
			Destination: body.Destination,
			Reference:   body.Reference,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, label)
	}
}

// ListShippingRates exposes the configured rate table.
func ListShippingRates(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"rates": svc.Rates()})
	}
}
