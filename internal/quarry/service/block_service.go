package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
	"github.com/google/uuid"
)

type BlockService struct {
	blockRepo   *repository.BlockRepository
	slabRepo    *repository.SlabRepository
	derivedRepo *repository.DerivedRepository
	guard       *lockGuard
	audit       *auditor
}

func NewBlockService(
	blockRepo *repository.BlockRepository,
	slabRepo *repository.SlabRepository,
	derivedRepo *repository.DerivedRepository,
	guard *lockGuard,
	audit *auditor,
) *BlockService {
	return &BlockService{
		blockRepo:   blockRepo,
		slabRepo:    slabRepo,
		derivedRepo: derivedRepo,
		guard:       guard,
		audit:       audit,
	}
}

// BlockView 荒料块读视图
type BlockView struct {
	entity.Block
	Locked        bool  `json:"locked"`
	ChildrenCount int64 `json:"children_count"`
}

type CreateBlockInput struct {
	BlockID      string  `json:"block_id"` // 空=自动分配
	MaterialName string  `json:"material_name"`
	Grade        string  `json:"grade"`
	LengthCm     float64 `json:"length_cm"`
	WidthCm      float64 `json:"width_cm"`
	HeightCm     float64 `json:"height_cm"`
	WeightTon    float64 `json:"weight_ton"`
	Yard         string  `json:"yard"`
	Notes        string  `json:"notes"`
}

// Create 人工登记荒料块，不挂接批次、不占用切分槽位。
// 批次派生块只能通过 LotService.GenerateBlocks 产生。
func (s *BlockService) Create(ctx context.Context, input *CreateBlockInput, createdBy string) (*entity.Block, error) {
	id := input.BlockID
	if id == "" {
		id = "BLK-" + uuid.New().String()[:8]
	}
	now := time.Now()
	block := &entity.Block{
		ID:           id,
		MaterialName: input.MaterialName,
		Grade:        input.Grade,
		LengthCm:     input.LengthCm,
		WidthCm:      input.WidthCm,
		HeightCm:     input.HeightCm,
		WeightTon:    input.WeightTon,
		Yard:         input.Yard,
		Status:       entity.BlockStatusInYard,
		Notes:        input.Notes,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.blockRepo.Create(ctx, block); err != nil {
		return nil, fmt.Errorf("创建荒料块失败: %w", err)
	}
	s.audit.record(ctx, "block", block.ID, "block_created", createdBy, nil)
	return block, nil
}

func (s *BlockService) Get(ctx context.Context, id string) (*BlockView, error) {
	block, err := s.blockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, block)
}

func (s *BlockService) List(ctx context.Context, params repository.BlockListParams) ([]BlockView, int64, error) {
	blocks, total, err := s.blockRepo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	views := make([]BlockView, 0, len(blocks))
	for i := range blocks {
		v, err := s.decorate(ctx, &blocks[i])
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *v)
	}
	return views, total, nil
}

func (s *BlockService) decorate(ctx context.Context, block *entity.Block) (*BlockView, error) {
	children, err := s.childrenCount(ctx, block.ID)
	if err != nil {
		return nil, err
	}
	locked, err := s.guard.BlockLocked(ctx, block.ID)
	if err != nil {
		return nil, err
	}
	return &BlockView{Block: *block, Locked: locked, ChildrenCount: children}, nil
}

// childrenCount = 名下板材数 + 直接从块加工的成品数
func (s *BlockService) childrenCount(ctx context.Context, blockID string) (int64, error) {
	slabs, err := s.slabRepo.CountByBlock(ctx, blockID)
	if err != nil {
		return 0, err
	}
	derived, err := s.derivedRepo.CountByBlock(ctx, blockID)
	if err != nil {
		return 0, err
	}
	return slabs + derived, nil
}

// UpdateBlockInput 指针字段=未提交。锁定后结构字段（尺寸/等级/材质）只读，
// 货场与状态属于移动信息，不受锁定限制。
type UpdateBlockInput struct {
	MaterialName *string  `json:"material_name"`
	Grade        *string  `json:"grade"`
	LengthCm     *float64 `json:"length_cm"`
	WidthCm      *float64 `json:"width_cm"`
	HeightCm     *float64 `json:"height_cm"`
	WeightTon    *float64 `json:"weight_ton"`
	Yard         *string  `json:"yard"`
	Status       *string  `json:"status"`
	Notes        *string  `json:"notes"`
}

func (s *BlockService) Update(ctx context.Context, id string, input *UpdateBlockInput, updatedBy string) (*BlockView, error) {
	block, err := s.blockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	locked, err := s.guard.BlockLocked(ctx, id)
	if err != nil {
		return nil, err
	}

	if locked {
		if field := lockedBlockField(input); field != "" {
			return nil, &LockedEntityError{Kind: "block", ID: id, Field: field}
		}
	} else {
		if input.MaterialName != nil {
			block.MaterialName = *input.MaterialName
		}
		if input.Grade != nil {
			block.Grade = *input.Grade
		}
		if input.LengthCm != nil {
			block.LengthCm = *input.LengthCm
		}
		if input.WidthCm != nil {
			block.WidthCm = *input.WidthCm
		}
		if input.HeightCm != nil {
			block.HeightCm = *input.HeightCm
		}
		if input.WeightTon != nil {
			block.WeightTon = *input.WeightTon
		}
	}

	if input.Yard != nil {
		block.Yard = *input.Yard
	}
	if input.Status != nil {
		block.Status = *input.Status
	}
	if input.Notes != nil {
		block.Notes = *input.Notes
	}
	block.UpdatedAt = time.Now()

	if err := s.blockRepo.Update(ctx, block); err != nil {
		return nil, fmt.Errorf("更新荒料块失败: %w", err)
	}
	s.audit.record(ctx, "block", block.ID, "block_updated", updatedBy, nil)
	return s.decorate(ctx, block)
}

func lockedBlockField(input *UpdateBlockInput) string {
	switch {
	case input.MaterialName != nil:
		return "material_name"
	case input.Grade != nil:
		return "grade"
	case input.LengthCm != nil:
		return "length_cm"
	case input.WidthCm != nil:
		return "width_cm"
	case input.HeightCm != nil:
		return "height_cm"
	case input.WeightTon != nil:
		return "weight_ton"
	}
	return ""
}

func (s *BlockService) Delete(ctx context.Context, id string, deletedBy string) error {
	if _, err := s.blockRepo.FindByID(ctx, id); err != nil {
		return err
	}
	children, err := s.childrenCount(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return &HasChildrenError{Kind: "block", ID: id, Children: children}
	}
	if err := s.blockRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除荒料块失败: %w", err)
	}
	s.audit.record(ctx, "block", id, "block_deleted", deletedBy, nil)
	return nil
}
