package returns

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mercanto/storefront-backend/pkg/config"
	"github.com/mercanto/storefront-backend/pkg/logger"
)

var (
	errRefundBaseURLRequired = errors.New("refund base url is required")
	errRefundLoggerRequired  = errors.New("refund logger is required")
)

// OfflineRefundGateway settles every refund locally. Used in dev and as the
// fallback when no payment provider API is configured.
type OfflineRefundGateway struct{}

// NewOfflineRefundGateway builds the local refund gateway.
func NewOfflineRefundGateway() *OfflineRefundGateway {
	return &OfflineRefundGateway{}
}

// Refund implements RefundGateway without leaving the process.
func (g *OfflineRefundGateway) Refund(ctx context.Context, returnRequestID uuid.UUID) (*RefundOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &RefundOutcome{Success: true}, nil
}

// HTTPRefundGateway talks to the payment provider's refund API over JSON. One
// request per refund; the service layer decides how outcomes are recorded.
type HTTPRefundGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *logger.Logger
}

// NewHTTPRefundGateway validates the refund configuration and builds the client.
func NewHTTPRefundGateway(cfg config.ReturnsConfig, logg *logger.Logger) (*HTTPRefundGateway, error) {
	if logg == nil {
		return nil, errRefundLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.RefundBaseURL), "/")
	if baseURL == "" {
		return nil, errRefundBaseURLRequired
	}

	timeout := cfg.RefundTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &HTTPRefundGateway{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.RefundAPIKey),
		client:  &http.Client{Timeout: timeout},
		logger:  logg,
	}, nil
}

type refundRequestPayload struct {
	ReturnRequestID string `json:"return_request_id"`
}

type refundResponsePayload struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason"`
}

// Refund implements RefundGateway against the configured API.
func (g *HTTPRefundGateway) Refund(ctx context.Context, returnRequestID uuid.UUID) (*RefundOutcome, error) {
	body, err := json.Marshal(refundRequestPayload{ReturnRequestID: returnRequestID.String()})
	if err != nil {
		return nil, fmt.Errorf("encode refund request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/refunds", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build refund request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("refund request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("refund provider responded with status %d", resp.StatusCode)
	}

	var payload refundResponsePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode refund response: %w", err)
	}

	return &RefundOutcome{
		Success: payload.Success,
		Reason:  strings.TrimSpace(payload.Reason),
	}, nil
}
