package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mercanto/storefront-backend/internal/returns"
	"github.com/mercanto/storefront-backend/pkg/db/models"
	"github.com/mercanto/storefront-backend/pkg/enums"
	pkgerrors "github.com/mercanto/storefront-backend/pkg/errors"
	"github.com/mercanto/storefront-backend/pkg/pagination"
)

type testReturnsService struct {
	bulkApproveFn func(ctx context.Context, ids []uuid.UUID) (*returns.BulkApproveResult, error)
	transitionFn  func(ctx context.Context, id uuid.UUID, target enums.ReturnStatus) (*models.ReturnRequest, error)
	refundFn      func(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error)
	listFn        func(ctx context.Context, params pagination.Params, filters returns.ReturnFilters) (*returns.ReturnList, error)
}

func (s *testReturnsService) BulkApprove(ctx context.Context, ids []uuid.UUID) (*returns.BulkApproveResult, error) {
	if s.bulkApproveFn != nil {
		return s.bulkApproveFn(ctx, ids)
	}
	return &returns.BulkApproveResult{ApprovedCount: len(ids)}, nil
}

func (s *testReturnsService) Transition(ctx context.Context, id uuid.UUID, target enums.ReturnStatus) (*models.ReturnRequest, error) {
	if s.transitionFn != nil {
		return s.transitionFn(ctx, id, target)
	}
	return &models.ReturnRequest{ID: id, Status: target}, nil
}

func (s *testReturnsService) ProcessRefund(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error) {
	if s.refundFn != nil {
		return s.refundFn(ctx, id)
	}
	return &models.ReturnRequest{ID: id, Status: enums.ReturnStatusRefunded}, nil
}

func (s *testReturnsService) Get(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error) {
	return &models.ReturnRequest{ID: id}, nil
}

func (s *testReturnsService) List(ctx context.Context, params pagination.Params, filters returns.ReturnFilters) (*returns.ReturnList, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params, filters)
	}
	return &returns.ReturnList{}, nil
}

func TestBulkApproveReturnsSuccess(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	var captured []uuid.UUID
	svc := &testReturnsService{
		bulkApproveFn: func(ctx context.Context, ids []uuid.UUID) (*returns.BulkApproveResult, error) {
			captured = ids
			return &returns.BulkApproveResult{ApprovedCount: len(ids)}, nil
		},
	}

	body := fmt.Sprintf(`{"return_request_ids":[%q,%q]}`, first, second)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/returns/bulk-approve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	BulkApproveReturns(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if len(captured) != 2 || captured[0] != first || captured[1] != second {
		t.Fatalf("unexpected ids %v", captured)
	}

	var envelope struct {
		Data returns.BulkApproveResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.ApprovedCount != 2 {
		t.Fatalf("unexpected approved count %d", envelope.Data.ApprovedCount)
	}
}

func TestBulkApproveReturnsRequiresIDs(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/returns/bulk-approve", strings.NewReader(`{"return_request_ids":[]}`))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	BulkApproveReturns(&testReturnsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestBulkApproveReturnsRejectsMalformedID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/returns/bulk-approve", strings.NewReader(`{"return_request_ids":["not-a-uuid"]}`))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	BulkApproveReturns(&testReturnsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestTransitionReturnSuccess(t *testing.T) {
	returnID := uuid.New()
	svc := &testReturnsService{
		transitionFn: func(ctx context.Context, id uuid.UUID, target enums.ReturnStatus) (*models.ReturnRequest, error) {
			if id != returnID {
				t.Fatalf("unexpected return id %s", id)
			}
			if target != enums.ReturnStatusReceived {
				t.Fatalf("unexpected target %s", target)
			}
			return &models.ReturnRequest{ID: id, Status: target}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/returns/"+returnID.String()+"/transition", strings.NewReader(`{"target_status":"received"}`))
	req.Header.Set("Content-Type", "application/json")
	req = addRouteParam(req, "id", returnID.String())

	resp := httptest.NewRecorder()
	TransitionReturn(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestTransitionReturnRejectsUnknownStatus(t *testing.T) {
	returnID := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/returns/"+returnID+"/transition", strings.NewReader(`{"target_status":"vaporized"}`))
	req.Header.Set("Content-Type", "application/json")
	req = addRouteParam(req, "id", returnID)

	resp := httptest.NewRecorder()
	TransitionReturn(&testReturnsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRefundReturnSurfacesGatewayTimeout(t *testing.T) {
	svc := &testReturnsService{
		refundFn: func(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error) {
			return nil, pkgerrors.New(pkgerrors.CodeGatewayTimeout, "refund gateway timed out")
		},
	}

	returnID := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/returns/"+returnID+"/refund", nil)
	req = addRouteParam(req, "id", returnID)

	resp := httptest.NewRecorder()
	RefundReturn(svc, testLogger())(resp, req)

	if resp.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeGatewayTimeout) {
		t.Fatalf("unexpected error code %s", envelope.Error.Code)
	}
}

func TestListReturnsParsesFilters(t *testing.T) {
	orderID := uuid.New()
	var capturedFilters returns.ReturnFilters
	svc := &testReturnsService{
		listFn: func(ctx context.Context, params pagination.Params, filters returns.ReturnFilters) (*returns.ReturnList, error) {
			capturedFilters = filters
			return &returns.ReturnList{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/returns?status=pending&order_id="+orderID.String(), nil)
	resp := httptest.NewRecorder()
	ListReturns(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if capturedFilters.Status == nil || *capturedFilters.Status != enums.ReturnStatusPending {
		t.Fatal("status filter not propagated")
	}
	if capturedFilters.OrderID == nil || *capturedFilters.OrderID != orderID {
		t.Fatal("order filter not propagated")
	}
}

func TestListReturnsRejectsUnknownStatusFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/returns?status=lost", nil)
	resp := httptest.NewRecorder()
	ListReturns(&testReturnsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
