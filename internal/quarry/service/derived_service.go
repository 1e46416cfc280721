package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
	"github.com/google/uuid"
)

type DerivedService struct {
	derivedRepo  *repository.DerivedRepository
	slabRepo     *repository.SlabRepository
	blockRepo    *repository.BlockRepository
	dispatchRepo *repository.DispatchRepository
	audit        *auditor
	consumeMu    *keyedMutex // 按板材串行化消费检查
}

func NewDerivedService(
	derivedRepo *repository.DerivedRepository,
	slabRepo *repository.SlabRepository,
	blockRepo *repository.BlockRepository,
	dispatchRepo *repository.DispatchRepository,
	audit *auditor,
) *DerivedService {
	return &DerivedService{
		derivedRepo:  derivedRepo,
		slabRepo:     slabRepo,
		blockRepo:    blockRepo,
		dispatchRepo: dispatchRepo,
		audit:        audit,
		consumeMu:    newKeyedMutex(),
	}
}

type CreateDerivedInput struct {
	BlockID     string  `json:"block_id"`
	SLID        string  `json:"slid"` // 来源板材，空=直接从荒料块加工
	BatchNo     string  `json:"batch_no"`
	LengthCm    float64 `json:"length_cm"`
	WidthCm     float64 `json:"width_cm"`
	ThicknessCm float64 `json:"thickness_cm"`
	Finish      string  `json:"finish"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Yard        string  `json:"yard"`
}

// Create 创建衍生成品。来源板材的预留族必须为空或与目标族一致，
// 且该板材尚未被任何族的成品消费。
func (s *DerivedService) Create(ctx context.Context, itemType string, input *CreateDerivedInput, createdBy string) (*entity.DerivedProduct, error) {
	if !entity.IsDerivedFamily(itemType) {
		return nil, &ValidationError{Msg: fmt.Sprintf("非法的成品族: %s", itemType)}
	}

	blockID := input.BlockID
	if input.SLID != "" {
		unlock := s.consumeMu.Lock("slab:" + input.SLID)
		defer unlock()

		slab, err := s.slabRepo.FindByID(ctx, input.SLID)
		if err != nil {
			return nil, fmt.Errorf("来源板材不存在: %w", err)
		}
		if entity.IsDerivedFamily(slab.StoneType) && slab.StoneType != itemType {
			return nil, &ReservationConflictError{SourceID: slab.ID, Reserved: slab.StoneType, Requested: itemType}
		}
		consumed, err := s.derivedRepo.CountBySlab(ctx, input.SLID)
		if err != nil {
			return nil, err
		}
		if consumed > 0 {
			return nil, &ReservationConflictError{SourceID: slab.ID, Reserved: "consumed", Requested: itemType}
		}
		if blockID == "" {
			blockID = slab.BlockID
		}
	}
	if blockID == "" {
		return nil, &ValidationError{Msg: "block_id 与 slid 至少提交一个"}
	}
	if _, err := s.blockRepo.FindByID(ctx, blockID); err != nil {
		return nil, fmt.Errorf("荒料块不存在: %w", err)
	}

	qty := input.Quantity
	if qty <= 0 {
		qty = 1
	}
	now := time.Now()
	item := &entity.DerivedProduct{
		ID:          uuid.New().String(),
		ItemType:    itemType,
		BlockID:     blockID,
		SLID:        input.SLID,
		BatchNo:     input.BatchNo,
		LengthCm:    input.LengthCm,
		WidthCm:     input.WidthCm,
		ThicknessCm: input.ThicknessCm,
		Finish:      input.Finish,
		Quantity:    qty,
		UnitPrice:   input.UnitPrice,
		Yard:        input.Yard,
		Status:      "in_stock",
		QCStatus:    entity.QCStatusPending,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.derivedRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("创建成品失败: %w", err)
	}
	s.audit.record(ctx, "derived", item.ID, "derived_created", createdBy, map[string]any{
		"item_type": itemType, "block_id": blockID, "slid": input.SLID,
	})
	return item, nil
}

func (s *DerivedService) Get(ctx context.Context, itemType, id string) (*entity.DerivedProduct, error) {
	return s.derivedRepo.FindByID(ctx, itemType, id)
}

func (s *DerivedService) List(ctx context.Context, params repository.DerivedListParams) ([]entity.DerivedProduct, int64, error) {
	return s.derivedRepo.List(ctx, params)
}

type UpdateDerivedInput struct {
	BatchNo   *string  `json:"batch_no"`
	Finish    *string  `json:"finish"`
	Quantity  *float64 `json:"quantity"`
	UnitPrice *float64 `json:"unit_price"`
	Yard      *string  `json:"yard"`
	Status    *string  `json:"status"`
	QCStatus  *string  `json:"qc_status"`
}

func (s *DerivedService) Update(ctx context.Context, itemType, id string, input *UpdateDerivedInput, updatedBy string) (*entity.DerivedProduct, error) {
	item, err := s.derivedRepo.FindByID(ctx, itemType, id)
	if err != nil {
		return nil, err
	}
	if input.BatchNo != nil {
		item.BatchNo = *input.BatchNo
	}
	if input.Finish != nil {
		item.Finish = *input.Finish
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.UnitPrice != nil {
		item.UnitPrice = *input.UnitPrice
	}
	if input.Yard != nil {
		item.Yard = *input.Yard
	}
	if input.Status != nil {
		item.Status = *input.Status
	}
	if input.QCStatus != nil {
		item.QCStatus = *input.QCStatus
	}
	item.UpdatedAt = time.Now()

	if err := s.derivedRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("更新成品失败: %w", err)
	}
	s.audit.record(ctx, "derived", item.ID, "derived_updated", updatedBy, nil)
	return item, nil
}

func (s *DerivedService) Delete(ctx context.Context, itemType, id string, deletedBy string) error {
	if _, err := s.derivedRepo.FindByID(ctx, itemType, id); err != nil {
		return err
	}
	dispatches, err := s.dispatchRepo.CountByItem(ctx, itemType, id)
	if err != nil {
		return err
	}
	if dispatches > 0 {
		return &HasChildrenError{Kind: "derived", ID: id, Children: dispatches}
	}
	if err := s.derivedRepo.Delete(ctx, itemType, id); err != nil {
		return fmt.Errorf("删除成品失败: %w", err)
	}
	s.audit.record(ctx, "derived", id, "derived_deleted", deletedBy, nil)
	return nil
}
