package repository

import (
	"context"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"gorm.io/gorm"
)

type DispatchRepository struct {
	db *gorm.DB
}

func NewDispatchRepository(db *gorm.DB) *DispatchRepository {
	return &DispatchRepository{db: db}
}

func (r *DispatchRepository) Create(ctx context.Context, d *entity.Dispatch) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DispatchRepository) FindByID(ctx context.Context, id string) (*entity.Dispatch, error) {
	var d entity.Dispatch
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &d, nil
}

// CountBySlab 统计已消费指定板材的发运记录数
func (r *DispatchRepository) CountBySlab(ctx context.Context, slid string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Dispatch{}).Where("slid = ?", slid).Count(&count).Error
	return count, err
}

// CountByItem 统计已消费指定衍生成品的发运记录数
func (r *DispatchRepository) CountByItem(ctx context.Context, itemType, itemID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Dispatch{}).
		Where("item_type = ? AND item_id = ?", itemType, itemID).Count(&count).Error
	return count, err
}

type DispatchListParams struct {
	Customer string
	SLID     string
	ItemType string
	Page     int
	Size     int
}

func (r *DispatchRepository) List(ctx context.Context, params DispatchListParams) ([]entity.Dispatch, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Dispatch{})
	if params.Customer != "" {
		query = query.Where("customer ILIKE ?", "%"+params.Customer+"%")
	}
	if params.SLID != "" {
		query = query.Where("slid = ?", params.SLID)
	}
	if params.ItemType != "" {
		query = query.Where("item_type = ?", params.ItemType)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var dispatches []entity.Dispatch
	err := query.Order("dispatched_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&dispatches).Error
	return dispatches, total, err
}

func (r *DispatchRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Dispatch{}).Error
}
