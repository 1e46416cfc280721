package repository

import (
	"context"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"gorm.io/gorm"
)

type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) Create(ctx context.Context, s *entity.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SupplierRepository) FindByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var s entity.Supplier
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &s, nil
}

func (r *SupplierRepository) List(ctx context.Context, keyword string, page, size int) ([]entity.Supplier, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Supplier{})
	if keyword != "" {
		kw := "%" + keyword + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var suppliers []entity.Supplier
	err := query.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&suppliers).Error
	return suppliers, total, err
}

// CountLots 统计引用该供应商的批次数，删除前校验用
func (r *SupplierRepository) CountLots(ctx context.Context, supplierID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Lot{}).Where("supplier_id = ?", supplierID).Count(&count).Error
	return count, err
}

func (r *SupplierRepository) Update(ctx context.Context, s *entity.Supplier) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Supplier{}).Error
}
