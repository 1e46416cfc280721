package repository

import (
	"context"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"gorm.io/gorm"
)

type SlabRepository struct {
	db *gorm.DB
}

func NewSlabRepository(db *gorm.DB) *SlabRepository {
	return &SlabRepository{db: db}
}

func (r *SlabRepository) Create(ctx context.Context, slab *entity.Slab) error {
	return r.db.WithContext(ctx).Create(slab).Error
}

func (r *SlabRepository) FindByID(ctx context.Context, id string) (*entity.Slab, error) {
	var slab entity.Slab
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&slab).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &slab, nil
}

func (r *SlabRepository) CountByBlock(ctx context.Context, blockID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Slab{}).Where("block_id = ?", blockID).Count(&count).Error
	return count, err
}

// CountByBlockIDs 统计一组荒料块名下的板材总数，用于批次锁定判断
func (r *SlabRepository) CountByBlockIDs(ctx context.Context, blockIDs []string) (int64, error) {
	if len(blockIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Slab{}).Where("block_id IN ?", blockIDs).Count(&count).Error
	return count, err
}

type SlabListParams struct {
	BlockID   string
	StoneType string
	Yard      string
	Status    string
	Page      int
	Size      int
}

func (r *SlabRepository) List(ctx context.Context, params SlabListParams) ([]entity.Slab, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Slab{})
	if params.BlockID != "" {
		query = query.Where("block_id = ?", params.BlockID)
	}
	if params.StoneType != "" {
		query = query.Where("stone_type = ?", params.StoneType)
	}
	if params.Yard != "" {
		query = query.Where("yard = ?", params.Yard)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var slabs []entity.Slab
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&slabs).Error
	return slabs, total, err
}

func (r *SlabRepository) Update(ctx context.Context, slab *entity.Slab) error {
	return r.db.WithContext(ctx).Save(slab).Error
}

func (r *SlabRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Slab{}).Error
}
