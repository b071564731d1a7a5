package returns

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

// NewRepository builds a returns repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindReturnRequest(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error) {
	var request models.ReturnRequest
	err := r.db.WithContext(ctx).
		Preload("OrderItem").
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) ListReturnRequestsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ReturnRequest, error) {
	var requests []models.ReturnRequest
	err := r.db.WithContext(ctx).
		Preload("OrderItem").
		Where("id IN ?", ids).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// TransitionReturnRequest applies updates only while the row still holds the
// expected status and reports how many rows matched. A zero count means a
// concurrent writer moved the request first.
func (r *repository) TransitionReturnRequest(ctx context.Context, id uuid.UUID, from enums.ReturnStatus, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ReturnRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ApprovePendingGroup applies updates to every listed row still pending and
// reports how many rows matched. Callers compare the count against the group
// size inside a transaction to detect concurrent writers.
func (r *repository) ApprovePendingGroup(ctx context.Context, ids []uuid.UUID, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ReturnRequest{}).
		Where("id IN ? AND status = ?", ids, enums.ReturnStatusPending).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) ListReturnRequests(ctx context.Context, params pagination.Params, filters ReturnFilters) (*ReturnList, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.ReturnRequest{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.OrderID != nil {
		query = query.Where("order_id = ?", *filters.OrderID)
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

	var requests []models.ReturnRequest
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&requests).Error; err != nil {
		return nil, err
	}

	list := &ReturnList{Items: requests}
	if len(requests) > normalized {
		list.Items = requests[:normalized]
		last := list.Items[len(list.Items)-1]
		list.Cursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func (r *repository) FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
