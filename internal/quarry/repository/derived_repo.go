package repository

import (
	"context"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"gorm.io/gorm"
)

type DerivedRepository struct {
	db *gorm.DB
}

func NewDerivedRepository(db *gorm.DB) *DerivedRepository {
	return &DerivedRepository{db: db}
}

func (r *DerivedRepository) Create(ctx context.Context, item *entity.DerivedProduct) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *DerivedRepository) FindByID(ctx context.Context, itemType, id string) (*entity.DerivedProduct, error) {
	var item entity.DerivedProduct
	err := r.db.WithContext(ctx).Where("item_type = ? AND id = ?", itemType, id).First(&item).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &item, nil
}

func (r *DerivedRepository) CountByBlock(ctx context.Context, blockID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.DerivedProduct{}).Where("block_id = ?", blockID).Count(&count).Error
	return count, err
}

// CountBySlab 统计消费了指定板材的成品数，任何族都算
func (r *DerivedRepository) CountBySlab(ctx context.Context, slid string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.DerivedProduct{}).Where("slid = ?", slid).Count(&count).Error
	return count, err
}

type DerivedListParams struct {
	ItemType string
	BlockID  string
	SLID     string
	Yard     string
	Status   string
	QCStatus string
	Page     int
	Size     int
}

func (r *DerivedRepository) List(ctx context.Context, params DerivedListParams) ([]entity.DerivedProduct, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.DerivedProduct{})
	if params.ItemType != "" {
		query = query.Where("item_type = ?", params.ItemType)
	}
	if params.BlockID != "" {
		query = query.Where("block_id = ?", params.BlockID)
	}
	if params.SLID != "" {
		query = query.Where("slid = ?", params.SLID)
	}
	if params.Yard != "" {
		query = query.Where("yard = ?", params.Yard)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.QCStatus != "" {
		query = query.Where("qc_status = ?", params.QCStatus)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.DerivedProduct
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}

func (r *DerivedRepository) Update(ctx context.Context, item *entity.DerivedProduct) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *DerivedRepository) Delete(ctx context.Context, itemType, id string) error {
	return r.db.WithContext(ctx).Where("item_type = ? AND id = ?", itemType, id).Delete(&entity.DerivedProduct{}).Error
}
