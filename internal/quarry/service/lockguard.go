package service

import (
	"context"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
)

// lockGuard 锁定状态判断。锁定永远按下级记录的实时状态计算，不做缓存。
type lockGuard struct {
	blockRepo *repository.BlockRepository
	slabRepo  *repository.SlabRepository
}

func newLockGuard(blockRepo *repository.BlockRepository, slabRepo *repository.SlabRepository) *lockGuard {
	return &lockGuard{blockRepo: blockRepo, slabRepo: slabRepo}
}

// LotLocked 批次锁定 = 存在同胞块，或任一同胞块名下已有板材
func (g *lockGuard) LotLocked(ctx context.Context, qbid string) (bool, []entity.Block, error) {
	blocks, err := g.blockRepo.ListByParent(ctx, qbid)
	if err != nil {
		return false, nil, err
	}
	if len(blocks) > 0 {
		return true, blocks, nil
	}
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	slabCount, err := g.slabRepo.CountByBlockIDs(ctx, ids)
	if err != nil {
		return false, blocks, err
	}
	return slabCount > 0, blocks, nil
}

// BlockLocked 荒料块锁定 = 名下存在板材
func (g *lockGuard) BlockLocked(ctx context.Context, blockID string) (bool, error) {
	count, err := g.slabRepo.CountByBlock(ctx, blockID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
