package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercanto/storefront-backend/pkg/config"
	"github.com/mercanto/storefront-backend/pkg/enums"
	"github.com/mercanto/storefront-backend/pkg/logger"
	"github.com/mercanto/storefront-backend/pkg/types"
)

var (
	errBaseURLRequired = errors.New("carrier base url is required")
	errLoggerRequired  = errors.New("carrier logger is required")
)

// HTTPGateway talks to a carrier aggregator API over JSON. One request per
// label; the service layer decides whether a failure is surfaced or retried.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *logger.Logger
}

// NewHTTPGateway validates the carrier configuration and builds the client.
func NewHTTPGateway(cfg config.CarrierConfig, logg *logger.Logger) (*HTTPGateway, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		client:  &http.Client{Timeout: timeout},
		logger:  logg,
	}, nil
}

type trackingRequestPayload struct {
	Carrier     string             `json:"carrier"`
	Package     PackageDescription `json:"package"`
	Destination types.Address      `json:"destination"`
}

type trackingResponsePayload struct {
	TrackingNumber string          `json:"tracking_number"`
	Cost           decimal.Decimal `json:"cost"`
}

// RequestTracking implements CarrierGateway against the configured API.
func (g *HTTPGateway) RequestTracking(ctx context.Context, carrier enums.Carrier, pkg PackageDescription, destination types.Address) (*TrackingQuote, error) {
	body, err := json.Marshal(trackingRequestPayload{
		Carrier:     carrier.String(),
		Package:     pkg,
		Destination: destination,
	})
	if err != nil {
		return nil, fmt.Errorf("encode tracking request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/tracking", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build tracking request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("carrier request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("carrier responded with status %d", resp.StatusCode)
	}

	var payload trackingResponsePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode tracking response: %w", err)
	}

	return &TrackingQuote{
		TrackingNumber: strings.TrimSpace(payload.TrackingNumber),
		Cost:           payload.Cost,
	}, nil
}
