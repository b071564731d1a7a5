package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercanto/storefront-backend/pkg/db/models"
	"github.com/mercanto/storefront-backend/pkg/enums"
	"github.com/mercanto/storefront-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a fulfillment repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateSupplierOrder(ctx context.Context, order *models.SupplierOrder) (*models.SupplierOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindSupplierOrder(ctx context.Context, id uuid.UUID) (*models.SupplierOrder, error) {
	var order models.SupplierOrder
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// TransitionSupplierOrder applies updates only while the row still holds the
// expected status and reports how many rows matched. A zero count means a
// concurrent writer moved the order first.
func (r *repository) TransitionSupplierOrder(ctx context.Context, id uuid.UUID, from enums.SupplierOrderStatus, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.SupplierOrder{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) ListSupplierOrders(ctx context.Context, params pagination.Params, filters SupplierOrderFilters) (*SupplierOrderList, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.SupplierOrder{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filters.SupplierID)
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, err
		}
		if cursor != nil {
			query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
		}
	}

	var orders []models.SupplierOrder
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}

	list := &SupplierOrderList{Items: orders}
	if len(orders) > normalized {
		list.Items = orders[:normalized]
		last := list.Items[len(list.Items)-1]
		list.Cursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func (r *repository) FindSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&supplier).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *repository) FindOrderItem(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}
