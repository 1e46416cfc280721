package repository

import (
	"context"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"gorm.io/gorm"
)

type BlockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

func (r *BlockRepository) Create(ctx context.Context, block *entity.Block) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *BlockRepository) BatchCreate(ctx context.Context, blocks []entity.Block) error {
	if len(blocks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&blocks).Error
}

func (r *BlockRepository) FindByID(ctx context.Context, id string) (*entity.Block, error) {
	var block entity.Block
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&block).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &block, nil
}

// ListByParent 按块ID字典序返回某批次的全部同胞块，顺序即槽位顺序
func (r *BlockRepository) ListByParent(ctx context.Context, qbid string) ([]entity.Block, error) {
	var blocks []entity.Block
	err := r.db.WithContext(ctx).Where("parent_qbid = ?", qbid).Order("id ASC").Find(&blocks).Error
	return blocks, err
}

func (r *BlockRepository) CountByParent(ctx context.Context, qbid string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Block{}).Where("parent_qbid = ?", qbid).Count(&count).Error
	return count, err
}

type BlockListParams struct {
	ParentQBID string
	Yard       string
	Status     string
	Keyword    string
	Page       int
	Size       int
}

func (r *BlockRepository) List(ctx context.Context, params BlockListParams) ([]entity.Block, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Block{})
	if params.ParentQBID != "" {
		query = query.Where("parent_qbid = ?", params.ParentQBID)
	}
	if params.Yard != "" {
		query = query.Where("yard = ?", params.Yard)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
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
	var blocks []entity.Block
	err := query.Order("id ASC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&blocks).Error
	return blocks, total, err
}

func (r *BlockRepository) Update(ctx context.Context, block *entity.Block) error {
	return r.db.WithContext(ctx).Save(block).Error
}

func (r *BlockRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Block{}).Error
}
