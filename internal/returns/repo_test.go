package returns

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mercanto/storefront-backend/pkg/db/models"
	"github.com/mercanto/storefront-backend/pkg/enums"
	"github.com/mercanto/storefront-backend/pkg/pagination"
	"github.com/mercanto/storefront-backend/pkg/types"
)

func setupReturnsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  shipping_address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  unit_weight_kg TEXT NOT NULL DEFAULT '0',
  created_at DATETIME,
  updated_at DATETIME
);`
	returnRequests := `
CREATE TABLE IF NOT EXISTS return_requests (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  order_item_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  reason TEXT NOT NULL,
  details TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  refund_status TEXT,
  refund_error TEXT,
  tracking_number TEXT,
  approved_at DATETIME,
  received_at DATETIME,
  refunded_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	require.NoError(t, db.Exec(returnRequests).Error)
	t.Cleanup(func() {
		db.Exec("DELETE FROM return_requests")
		db.Exec("DELETE FROM order_items")
		db.Exec("DELETE FROM orders")
	})
	return db
}

func seedDBOrder(t *testing.T, db *gorm.DB, number string) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   number,
		CustomerName:  "Dana Patel",
		CustomerEmail: "dana@customer.example",
		ShippingAddress: &types.Address{
			Name:       "Dana Patel",
			Line1:      "12 Harbor Way",
			City:       "Portland",
			State:      "OR",
			PostalCode: "97209",
			Country:    "US",
		},
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func seedDBReturn(t *testing.T, db *gorm.DB, orderID uuid.UUID, status enums.ReturnStatus, createdAt time.Time) *models.ReturnRequest {
	t.Helper()

	item := &models.OrderItem{
		ID:           uuid.New(),
		OrderID:      orderID,
		ProductID:    uuid.New(),
		ProductName:  "Desk Lamp",
		Quantity:     1,
		UnitPrice:    decimal.NewFromFloat(25),
		UnitWeightKg: decimal.NewFromFloat(0.4),
	}
	require.NoError(t, db.Create(item).Error)

	request := &models.ReturnRequest{
		ID:          uuid.New(),
		OrderID:     orderID,
		OrderItemID: item.ID,
		UserID:      uuid.New(),
		Reason:      enums.ReturnReasonDamaged,
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, db.Create(request).Error)
	return request
}

func TestFindReturnRequestPreloadsOrderItem(t *testing.T) {
	db := setupReturnsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedDBOrder(t, db, "ORD-R-1001")
	created := seedDBReturn(t, db, order.ID, enums.ReturnStatusPending, time.Now().UTC())

	found, err := repo.FindReturnRequest(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	require.NotNil(t, found.OrderItem)
	assert.Equal(t, "Desk Lamp", found.OrderItem.ProductName)

	_, err = repo.FindReturnRequest(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestApprovePendingGroupOnlyTouchesPendingRows(t *testing.T) {
	db := setupReturnsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedDBOrder(t, db, "ORD-R-2001")
	now := time.Now().UTC()
	pending := seedDBReturn(t, db, order.ID, enums.ReturnStatusPending, now)
	rejected := seedDBReturn(t, db, order.ID, enums.ReturnStatusRejected, now)

	affected, err := repo.ApprovePendingGroup(ctx, []uuid.UUID{pending.ID, rejected.ID}, map[string]any{
		"status":          enums.ReturnStatusApproved,
		"tracking_number": "1Z00000001ABCD",
		"approved_at":     now,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	reloaded, err := repo.FindReturnRequest(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ReturnStatusApproved, reloaded.Status)
	require.NotNil(t, reloaded.TrackingNumber)
	assert.Equal(t, "1Z00000001ABCD", *reloaded.TrackingNumber)

	untouched, err := repo.FindReturnRequest(ctx, rejected.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ReturnStatusRejected, untouched.Status)
	assert.Nil(t, untouched.TrackingNumber)
}

func TestTransitionReturnRequestGuardsStatus(t *testing.T) {
	db := setupReturnsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedDBOrder(t, db, "ORD-R-5001")
	now := time.Now().UTC()
	request := seedDBReturn(t, db, order.ID, enums.ReturnStatusApproved, now)

	affected, err := repo.TransitionReturnRequest(ctx, request.ID, enums.ReturnStatusApproved, map[string]any{
		"status":      enums.ReturnStatusReceived,
		"received_at": now,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// A writer holding a stale approved read matches nothing.
	affected, err = repo.TransitionReturnRequest(ctx, request.ID, enums.ReturnStatusApproved, map[string]any{
		"status": enums.ReturnStatusRejected,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	reloaded, err := repo.FindReturnRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ReturnStatusReceived, reloaded.Status)
}

func TestListReturnRequestsFiltersAndPaginates(t *testing.T) {
	db := setupReturnsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedDBOrder(t, db, "ORD-R-3001")
	other := seedDBOrder(t, db, "ORD-R-3002")
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		seedDBReturn(t, db, order.ID, enums.ReturnStatusPending, base.Add(time.Duration(i)*time.Minute))
	}
	seedDBReturn(t, db, order.ID, enums.ReturnStatusApproved, base.Add(10*time.Minute))
	seedDBReturn(t, db, other.ID, enums.ReturnStatusPending, base.Add(20*time.Minute))

	pending := enums.ReturnStatusPending
	list, err := repo.ListReturnRequests(ctx, pagination.Params{Limit: 10}, ReturnFilters{
		Status:  &pending,
		OrderID: &order.ID,
	})
	require.NoError(t, err)
	assert.Len(t, list.Items, 3)
	assert.Empty(t, list.Cursor)

	page, err := repo.ListReturnRequests(ctx, pagination.Params{Limit: 2}, ReturnFilters{OrderID: &order.ID})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	require.NotEmpty(t, page.Cursor)

	rest, err := repo.ListReturnRequests(ctx, pagination.Params{Limit: 2, Cursor: page.Cursor}, ReturnFilters{OrderID: &order.ID})
	require.NoError(t, err)
	assert.Len(t, rest.Items, 2)
	assert.Empty(t, rest.Cursor)
}

func TestFindOrderRoundTripsAddress(t *testing.T) {
	db := setupReturnsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedDBOrder(t, db, "ORD-R-4001")

	found, err := repo.FindOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)
	require.NotNil(t, found.ShippingAddress)
	assert.Equal(t, "Portland", found.ShippingAddress.City)

	_, err = repo.FindOrder(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
