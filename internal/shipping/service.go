package shipping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercanto/storefront-backend/pkg/enums"
	pkgerrors "github.com/mercanto/storefront-backend/pkg/errors"
	"github.com/mercanto/storefront-backend/pkg/metrics"
	"github.com/mercanto/storefront-backend/pkg/types"
)

// Label is the computed shipping artifact. It is never persisted here: the
// tracking number reaches the ledger through the fulfillment or returns
// services.
type Label struct {
	Carrier        enums.Carrier     `json:"carrier"`
	PackageType    enums.PackageType `json:"package_type"`
	TrackingNumber string            `json:"tracking_number"`
	Cost           decimal.Decimal   `json:"cost"`
	Reference      string            `json:"reference"`
	GeneratedAt    time.Time         `json:"generated_at"`
}

// LabelRequest describes one label generation attempt.
type LabelRequest struct {
	Carrier     enums.Carrier
	PackageType enums.PackageType
	WeightKg    decimal.Decimal
	Destination types.Address
	Reference   string
}

// Service generates shipping labels. Label generation is an operator-visible
// action: gateway failures surface immediately and are never retried here.
type Service interface {
	GenerateLabel(ctx context.Context, req LabelRequest) (*Label, error)
	Rates() []Rate
}

type service struct {
	rates          *RateTable
	gateway        CarrierGateway
	metrics        *metrics.EngineMetrics
	requestTimeout time.Duration
	now            func() time.Time
}

// NewService wires the label generator dependencies.
func NewService(rates *RateTable, gateway CarrierGateway, engineMetrics *metrics.EngineMetrics, requestTimeout time.Duration) (Service, error) {
	if rates == nil {
		return nil, fmt.Errorf("rate table required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("carrier gateway required")
	}
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}
	return &service{
		rates:          rates,
		gateway:        gateway,
		metrics:        engineMetrics,
		requestTimeout: requestTimeout,
		now:            time.Now,
	}, nil
}

func (s *service) GenerateLabel(ctx context.Context, req LabelRequest) (*Label, error) {
	if !req.Carrier.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown carrier")
	}
	if !req.PackageType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown package type")
	}
	if !req.WeightKg.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "declared weight must be positive")
	}
	if !req.Destination.IsComplete() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "destination address incomplete")
	}

	ceiling := decimal.NewFromFloat(req.PackageType.MaxWeightKg())
	if req.WeightKg.GreaterThan(ceiling) {
		return nil, pkgerrors.New(pkgerrors.CodePackageTooHeavy, "declared weight exceeds package ceiling").
			WithDetails(map[string]any{
				"package_type":  req.PackageType,
				"max_weight_kg": req.PackageType.MaxWeightKg(),
				"weight_kg":     req.WeightKg,
			})
	}

	cost, ok := s.rates.Cost(req.Carrier, req.PackageType)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "carrier does not serve package type")
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	start := s.now()
	quote, err := s.gateway.RequestTracking(gatewayCtx, req.Carrier, PackageDescription{
		PackageType: req.PackageType,
		WeightKg:    req.WeightKg,
		Reference:   req.Reference,
	}, req.Destination)
	s.metrics.ObserveGatewayLatency(req.Carrier.String(), s.now().Sub(start))
	if err != nil {
		s.metrics.IncLabelFailure(req.Carrier.String())
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeGatewayTimeout, err, "carrier gateway timed out")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "carrier gateway failed")
	}

	trackingNumber := quote.TrackingNumber
	if trackingNumber == "" {
		trackingNumber = SynthesizeTrackingNumber(req.Carrier, s.now())
	}
	if quote.Cost.IsPositive() {
		cost = quote.Cost
	}

	s.metrics.IncLabelGenerated(req.Carrier.String())

	return &Label{
		Carrier:        req.Carrier,
		PackageType:    req.PackageType,
		TrackingNumber: trackingNumber,
		Cost:           cost,
		Reference:      req.Reference,
		GeneratedAt:    s.now(),
	}, nil
}

func (s *service) Rates() []Rate {
	return s.rates.List()
}
