package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
)

type LotService struct {
	lotRepo   *repository.LotRepository
	blockRepo *repository.BlockRepository
	slabRepo  *repository.SlabRepository
	guard     *lockGuard
	audit     *auditor
	genMu     *keyedMutex // 按批次串行化生成，防止并发超上限
}

func NewLotService(
	lotRepo *repository.LotRepository,
	blockRepo *repository.BlockRepository,
	slabRepo *repository.SlabRepository,
	guard *lockGuard,
	audit *auditor,
) *LotService {
	return &LotService{
		lotRepo:   lotRepo,
		blockRepo: blockRepo,
		slabRepo:  slabRepo,
		guard:     guard,
		audit:     audit,
		genMu:     newKeyedMutex(),
	}
}

// LotView 批次读视图，锁定/子记录数/容量文案均为读取时实时计算
type LotView struct {
	entity.Lot
	Locked        bool   `json:"locked"`
	ChildrenCount int64  `json:"children_count"`
	CapacityText  string `json:"capacity_text"`
}

type CreateLotInput struct {
	QBID          string  `json:"qbid" binding:"required"`
	SupplierID    string  `json:"supplier_id"`
	MaterialName  string  `json:"material_name" binding:"required"`
	StoneFamily   string  `json:"stone_family"`
	WeightTon     float64 `json:"weight_ton"`
	LengthCm      float64 `json:"length_cm"`
	WidthCm       float64 `json:"width_cm"`
	HeightCm      float64 `json:"height_cm"`
	GrossCost     float64 `json:"gross_cost"`
	TransportCost float64 `json:"transport_cost"`
	OtherCost     float64 `json:"other_cost"`
	SplitCap      int     `json:"split_cap" binding:"required,gt=0"`
	Notes         string  `json:"notes"`
}

func (s *LotService) Create(ctx context.Context, input *CreateLotInput, createdBy string) (*entity.Lot, error) {
	now := time.Now()
	lot := &entity.Lot{
		ID:            input.QBID,
		SupplierID:    input.SupplierID,
		MaterialName:  input.MaterialName,
		StoneFamily:   input.StoneFamily,
		WeightTon:     input.WeightTon,
		LengthCm:      input.LengthCm,
		WidthCm:       input.WidthCm,
		HeightCm:      input.HeightCm,
		GrossCost:     input.GrossCost,
		TransportCost: input.TransportCost,
		OtherCost:     input.OtherCost,
		TotalCost:     input.GrossCost + input.TransportCost + input.OtherCost,
		SplitCap:      input.SplitCap,
		Notes:         input.Notes,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.lotRepo.Create(ctx, lot); err != nil {
		return nil, fmt.Errorf("创建批次失败: %w", err)
	}
	s.audit.record(ctx, "lot", lot.ID, "lot_created", createdBy, map[string]any{"split_cap": lot.SplitCap})
	return lot, nil
}

func (s *LotService) Get(ctx context.Context, id string) (*LotView, error) {
	lot, err := s.lotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, lot)
}

func (s *LotService) List(ctx context.Context, params repository.LotListParams) ([]LotView, int64, error) {
	lots, total, err := s.lotRepo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	views := make([]LotView, 0, len(lots))
	for i := range lots {
		v, err := s.decorate(ctx, &lots[i])
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *v)
	}
	return views, total, nil
}

func (s *LotService) decorate(ctx context.Context, lot *entity.Lot) (*LotView, error) {
	locked, blocks, err := s.guard.LotLocked(ctx, lot.ID)
	if err != nil {
		return nil, err
	}
	return &LotView{
		Lot:           *lot,
		Locked:        locked,
		ChildrenCount: int64(len(blocks)),
		CapacityText:  fmt.Sprintf("%d/%d", len(blocks), lot.SplitCap),
	}, nil
}

// UpdateLotInput 指针字段=未提交。锁定批次只接受三项成本字段。
type UpdateLotInput struct {
	SupplierID    *string  `json:"supplier_id"`
	MaterialName  *string  `json:"material_name"`
	StoneFamily   *string  `json:"stone_family"`
	WeightTon     *float64 `json:"weight_ton"`
	LengthCm      *float64 `json:"length_cm"`
	WidthCm       *float64 `json:"width_cm"`
	HeightCm      *float64 `json:"height_cm"`
	GrossCost     *float64 `json:"gross_cost"`
	TransportCost *float64 `json:"transport_cost"`
	OtherCost     *float64 `json:"other_cost"`
	SplitCap      *int     `json:"split_cap"`
	Notes         *string  `json:"notes"`
}

func (s *LotService) Update(ctx context.Context, id string, input *UpdateLotInput, updatedBy string) (*LotView, error) {
	lot, err := s.lotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	locked, blocks, err := s.guard.LotLocked(ctx, id)
	if err != nil {
		return nil, err
	}

	if locked {
		if field := lockedLotField(input); field != "" {
			return nil, &LockedEntityError{Kind: "lot", ID: id, Field: field}
		}
	} else {
		if input.SupplierID != nil {
			lot.SupplierID = *input.SupplierID
		}
		if input.MaterialName != nil {
			lot.MaterialName = *input.MaterialName
		}
		if input.StoneFamily != nil {
			lot.StoneFamily = *input.StoneFamily
		}
		if input.WeightTon != nil {
			lot.WeightTon = *input.WeightTon
		}
		if input.LengthCm != nil {
			lot.LengthCm = *input.LengthCm
		}
		if input.WidthCm != nil {
			lot.WidthCm = *input.WidthCm
		}
		if input.HeightCm != nil {
			lot.HeightCm = *input.HeightCm
		}
		if input.SplitCap != nil {
			if *input.SplitCap < len(blocks) {
				return nil, &ValidationError{Msg: fmt.Sprintf("切分上限不能低于已有块数 %d", len(blocks))}
			}
			lot.SplitCap = *input.SplitCap
		}
		if input.Notes != nil {
			lot.Notes = *input.Notes
		}
	}

	// 成本字段不受锁定限制，写入后重算总成本
	if input.GrossCost != nil {
		lot.GrossCost = *input.GrossCost
	}
	if input.TransportCost != nil {
		lot.TransportCost = *input.TransportCost
	}
	if input.OtherCost != nil {
		lot.OtherCost = *input.OtherCost
	}
	lot.TotalCost = lot.GrossCost + lot.TransportCost + lot.OtherCost
	lot.UpdatedAt = time.Now()

	if err := s.lotRepo.Update(ctx, lot); err != nil {
		return nil, fmt.Errorf("更新批次失败: %w", err)
	}
	s.audit.record(ctx, "lot", lot.ID, "lot_updated", updatedBy, nil)
	return s.decorate(ctx, lot)
}

// lockedLotField 返回锁定状态下第一个被非法提交的结构字段名
func lockedLotField(input *UpdateLotInput) string {
	switch {
	case input.SupplierID != nil:
		return "supplier_id"
	case input.MaterialName != nil:
		return "material_name"
	case input.StoneFamily != nil:
		return "stone_family"
	case input.WeightTon != nil:
		return "weight_ton"
	case input.LengthCm != nil:
		return "length_cm"
	case input.WidthCm != nil:
		return "width_cm"
	case input.HeightCm != nil:
		return "height_cm"
	case input.SplitCap != nil:
		return "split_cap"
	case input.Notes != nil:
		return "notes"
	}
	return ""
}

func (s *LotService) Delete(ctx context.Context, id string, deletedBy string) error {
	if _, err := s.lotRepo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.blockRepo.CountByParent(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &HasChildrenError{Kind: "lot", ID: id, Children: count}
	}
	if err := s.lotRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除批次失败: %w", err)
	}
	s.audit.record(ctx, "lot", id, "lot_deleted", deletedBy, nil)
	return nil
}

// GenerateBlocks 将批次一次性补齐到切分上限。
// 槽位按同胞块ID字典序计算，删除中间块后重新生成会先复用空出的槽位，
// 不使用单调递增计数器。
func (s *LotService) GenerateBlocks(ctx context.Context, lotID, createdBy string) ([]entity.Block, error) {
	unlock := s.genMu.Lock(lotID)
	defer unlock()

	lot, err := s.lotRepo.FindByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	siblings, err := s.blockRepo.ListByParent(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if len(siblings) >= lot.SplitCap {
		return nil, &CapacityExceededError{LotID: lotID, Cap: lot.SplitCap, Used: len(siblings)}
	}

	used := make(map[int]bool, len(siblings))
	for _, b := range siblings {
		if slot := slotOf(lotID, b.ID); slot > 0 {
			used[slot] = true
		}
	}

	now := time.Now()
	need := lot.SplitCap - len(siblings)
	blocks := make([]entity.Block, 0, need)
	for slot := 1; len(blocks) < need && slot <= lot.SplitCap+len(siblings); slot++ {
		if used[slot] {
			continue
		}
		blocks = append(blocks, entity.Block{
			ID:           blockIDForSlot(lotID, slot),
			ParentQBID:   lotID,
			MaterialName: lot.MaterialName,
			Status:       entity.BlockStatusInYard,
			CreatedBy:    createdBy,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if err := s.blockRepo.BatchCreate(ctx, blocks); err != nil {
		return nil, fmt.Errorf("生成荒料块失败: %w", err)
	}
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	s.audit.record(ctx, "lot", lotID, "blocks_generated", createdBy, map[string]any{"block_ids": ids})
	return blocks, nil
}

// blockIDForSlot 槽位n的块ID：n≤26用字母后缀（A..Z），超过用十进制槽位号
func blockIDForSlot(lotID string, slot int) string {
	if slot <= 26 {
		return lotID + "-" + string(rune('A'+slot-1))
	}
	return lotID + "-" + strconv.Itoa(slot)
}

// slotOf 从块ID解析槽位号，非生成格式返回0
func slotOf(lotID, blockID string) int {
	prefix := lotID + "-"
	if len(blockID) <= len(prefix) || blockID[:len(prefix)] != prefix {
		return 0
	}
	suffix := blockID[len(prefix):]
	if len(suffix) == 1 && suffix[0] >= 'A' && suffix[0] <= 'Z' {
		return int(suffix[0]-'A') + 1
	}
	if n, err := strconv.Atoi(suffix); err == nil && n > 26 {
		return n
	}
	return 0
}
