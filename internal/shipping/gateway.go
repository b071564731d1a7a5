package shipping

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercanto/storefront-backend/pkg/enums"
	"github.com/mercanto/storefront-backend/pkg/types"
)

// PackageDescription is the package summary sent to the carrier.
type PackageDescription struct {
	PackageType enums.PackageType `json:"package_type"`
	WeightKg    decimal.Decimal   `json:"weight_kg"`
	Reference   string            `json:"reference"`
}

// TrackingQuote is the carrier's answer to a tracking request. TrackingNumber
// may be empty, in which case the caller synthesizes one locally.
type TrackingQuote struct {
	TrackingNumber string
	Cost           decimal.Decimal
}

// CarrierGateway issues tracking numbers and cost quotes for shipments.
type CarrierGateway interface {
	RequestTracking(ctx context.Context, carrier enums.Carrier, pkg PackageDescription, destination types.Address) (*TrackingQuote, error)
}

// OfflineGateway quotes from the local rate table and synthesizes tracking
// numbers. Used in dev and as the fallback when no carrier API is configured.
type OfflineGateway struct {
	rates *RateTable
	now   func() time.Time
}

// NewOfflineGateway builds the local gateway over the given rate table.
func NewOfflineGateway(rates *RateTable) *OfflineGateway {
	return &OfflineGateway{rates: rates, now: time.Now}
}

// RequestTracking implements CarrierGateway using only local data.
func (g *OfflineGateway) RequestTracking(ctx context.Context, carrier enums.Carrier, pkg PackageDescription, destination types.Address) (*TrackingQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cost, ok := g.rates.Cost(carrier, pkg.PackageType)
	if !ok {
		cost = decimal.Zero
	}
	return &TrackingQuote{
		TrackingNumber: SynthesizeTrackingNumber(carrier, g.now()),
		Cost:           cost,
	}, nil
}
