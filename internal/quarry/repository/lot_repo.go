package repository

import (
	"context"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"gorm.io/gorm"
)

type LotRepository struct {
	db *gorm.DB
}

func NewLotRepository(db *gorm.DB) *LotRepository {
	return &LotRepository{db: db}
}

func (r *LotRepository) Create(ctx context.Context, lot *entity.Lot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

func (r *LotRepository) FindByID(ctx context.Context, id string) (*entity.Lot, error) {
	var lot entity.Lot
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&lot).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &lot, nil
}

type LotListParams struct {
	SupplierID  string
	StoneFamily string
	Keyword     string
	Page        int
	Size        int
}

func (r *LotRepository) List(ctx context.Context, params LotListParams) ([]entity.Lot, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Lot{})
	if params.SupplierID != "" {
		query = query.Where("supplier_id = ?", params.SupplierID)
	}
	if params.StoneFamily != "" {
		query = query.Where("stone_family = ?", params.StoneFamily)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("id ILIKE ? OR material_name ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var lots []entity.Lot
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&lots).Error
	return lots, total, err
}

func (r *LotRepository) Update(ctx context.Context, lot *entity.Lot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

func (r *LotRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Lot{}).Error
}
