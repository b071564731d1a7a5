package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mercanto/storefront-backend/internal/fulfillment"
	"github.com/mercanto/storefront-backend/pkg/db/models"
	"github.com/mercanto/storefront-backend/pkg/enums"
	pkgerrors "github.com/mercanto/storefront-backend/pkg/errors"
	"github.com/mercanto/storefront-backend/pkg/logger"
	"github.com/mercanto/storefront-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

type testFulfillmentService struct {
	advanceFn func(ctx context.Context, input fulfillment.AdvanceInput) (*models.SupplierOrder, error)
	getFn     func(ctx context.Context, id uuid.UUID) (*models.SupplierOrder, error)
	listFn    func(ctx context.Context, params pagination.Params, filters fulfillment.SupplierOrderFilters) (*fulfillment.SupplierOrderList, error)
}

func (s *testFulfillmentService) Advance(ctx context.Context, input fulfillment.AdvanceInput) (*models.SupplierOrder, error) {
	if s.advanceFn != nil {
		return s.advanceFn(ctx, input)
	}
	return &models.SupplierOrder{ID: input.OrderID}, nil
}

func (s *testFulfillmentService) CreateFromOrderItem(ctx context.Context, input fulfillment.CreateInput) (*models.SupplierOrder, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *testFulfillmentService) Get(ctx context.Context, id uuid.UUID) (*models.SupplierOrder, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return &models.SupplierOrder{ID: id}, nil
}

func (s *testFulfillmentService) List(ctx context.Context, params pagination.Params, filters fulfillment.SupplierOrderFilters) (*fulfillment.SupplierOrderList, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params, filters)
	}
	return &fulfillment.SupplierOrderList{}, nil
}

func TestAdvanceSupplierOrderSuccess(t *testing.T) {
	orderID := uuid.New()
	var captured fulfillment.AdvanceInput
	svc := &testFulfillmentService{
		advanceFn: func(ctx context.Context, input fulfillment.AdvanceInput) (*models.SupplierOrder, error) {
			captured = input
			return &models.SupplierOrder{ID: input.OrderID, Status: input.TargetStatus}, nil
		},
	}

	body := `{"target_status":"shipped","tracking_number":"1Z12345"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/supplier-orders/"+orderID.String()+"/advance", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = addRouteParam(req, "id", orderID.String())

	resp := httptest.NewRecorder()
	AdvanceSupplierOrder(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if captured.OrderID != orderID {
		t.Fatalf("unexpected order id %s", captured.OrderID)
	}
	if captured.TargetStatus != enums.SupplierOrderStatusShipped {
		t.Fatalf("unexpected target status %s", captured.TargetStatus)
	}
	if captured.TrackingNumber == nil || *captured.TrackingNumber != "1Z12345" {
		t.Fatal("tracking number not propagated")
	}
}

func TestAdvanceSupplierOrderRejectsUnknownStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/supplier-orders/"+uuid.NewString()+"/advance", strings.NewReader(`{"target_status":"teleported"}`))
	req.Header.Set("Content-Type", "application/json")
	req = addRouteParam(req, "id", uuid.NewString())

	resp := httptest.NewRecorder()
	AdvanceSupplierOrder(&testFulfillmentService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdvanceSupplierOrderRejectsMalformedID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/supplier-orders/nope/advance", strings.NewReader(`{"target_status":"confirmed"}`))
	req.Header.Set("Content-Type", "application/json")
	req = addRouteParam(req, "id", "nope")

	resp := httptest.NewRecorder()
	AdvanceSupplierOrder(&testFulfillmentService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdvanceSupplierOrderRejectsUnknownBodyField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/supplier-orders/"+uuid.NewString()+"/advance", strings.NewReader(`{"target_status":"confirmed","surprise":true}`))
	req.Header.Set("Content-Type", "application/json")
	req = addRouteParam(req, "id", uuid.NewString())

	resp := httptest.NewRecorder()
	AdvanceSupplierOrder(&testFulfillmentService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdvanceSupplierOrderSurfacesStateConflict(t *testing.T) {
	svc := &testFulfillmentService{
		advanceFn: func(ctx context.Context, input fulfillment.AdvanceInput) (*models.SupplierOrder, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "illegal transition")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/supplier-orders/"+uuid.NewString()+"/advance", strings.NewReader(`{"target_status":"delivered"}`))
	req.Header.Set("Content-Type", "application/json")
	req = addRouteParam(req, "id", uuid.NewString())

	resp := httptest.NewRecorder()
	AdvanceSupplierOrder(svc, testLogger())(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("unexpected error code %s", envelope.Error.Code)
	}
}

func TestGetSupplierOrderNotFound(t *testing.T) {
	svc := &testFulfillmentService{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.SupplierOrder, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier order not found")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/supplier-orders/"+uuid.NewString(), nil)
	req = addRouteParam(req, "id", uuid.NewString())

	resp := httptest.NewRecorder()
	GetSupplierOrder(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestListSupplierOrdersParsesFilters(t *testing.T) {
	supplierID := uuid.New()
	var capturedParams pagination.Params
	var capturedFilters fulfillment.SupplierOrderFilters
	svc := &testFulfillmentService{
		listFn: func(ctx context.Context, params pagination.Params, filters fulfillment.SupplierOrderFilters) (*fulfillment.SupplierOrderList, error) {
			capturedParams = params
			capturedFilters = filters
			return &fulfillment.SupplierOrderList{}, nil
		},
	}

	url := "/api/v1/supplier-orders?limit=5&cursor=abc&status=pending&supplier_id=" + supplierID.String()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	resp := httptest.NewRecorder()
	ListSupplierOrders(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if capturedParams.Limit != 5 || capturedParams.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", capturedParams)
	}
	if capturedFilters.Status == nil || *capturedFilters.Status != enums.SupplierOrderStatusPending {
		t.Fatal("status filter not propagated")
	}
	if capturedFilters.SupplierID == nil || *capturedFilters.SupplierID != supplierID {
		t.Fatal("supplier filter not propagated")
	}
}

func TestListSupplierOrdersRejectsBadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/supplier-orders?limit=banana", nil)
	resp := httptest.NewRecorder()
	ListSupplierOrders(&testFulfillmentService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
