package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
	"github.com/google/uuid"
)

type SlabService struct {
	slabRepo     *repository.SlabRepository
	blockRepo    *repository.BlockRepository
	derivedRepo  *repository.DerivedRepository
	dispatchRepo *repository.DispatchRepository
	audit        *auditor
}

func NewSlabService(
	slabRepo *repository.SlabRepository,
	blockRepo *repository.BlockRepository,
	derivedRepo *repository.DerivedRepository,
	dispatchRepo *repository.DispatchRepository,
	audit *auditor,
) *SlabService {
	return &SlabService{
		slabRepo:     slabRepo,
		blockRepo:    blockRepo,
		derivedRepo:  derivedRepo,
		dispatchRepo: dispatchRepo,
		audit:        audit,
	}
}

type CreateSlabInput struct {
	BlockID      string  `json:"block_id" binding:"required"`
	StoneType    string  `json:"stone_type"`
	ThicknessCm  float64 `json:"thickness_cm"`
	LengthCm     float64 `json:"length_cm"`
	WidthCm      float64 `json:"width_cm"`
	Finish       string  `json:"finish"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	WeightKg     float64 `json:"weight_kg"`
	Yard         string  `json:"yard"`
	MinQty       float64 `json:"min_qty"`
	LeadTimeDays int     `json:"lead_time_days"`
}

func (s *SlabService) Create(ctx context.Context, input *CreateSlabInput, createdBy string) (*entity.Slab, error) {
	if _, err := s.blockRepo.FindByID(ctx, input.BlockID); err != nil {
		return nil, fmt.Errorf("荒料块不存在: %w", err)
	}
	if input.StoneType != "" && !validStoneType(input.StoneType) {
		return nil, &ValidationError{Msg: fmt.Sprintf("非法的 stone_type: %s", input.StoneType)}
	}
	qty := input.Quantity
	if qty <= 0 {
		qty = 1
	}
	now := time.Now()
	slab := &entity.Slab{
		ID:           uuid.New().String(),
		BlockID:      input.BlockID,
		StoneType:    input.StoneType,
		ThicknessCm:  input.ThicknessCm,
		LengthCm:     input.LengthCm,
		WidthCm:      input.WidthCm,
		Finish:       input.Finish,
		Quantity:     qty,
		UnitPrice:    input.UnitPrice,
		WeightKg:     input.WeightKg,
		Yard:         input.Yard,
		Status:       "in_stock",
		MinQty:       input.MinQty,
		LeadTimeDays: input.LeadTimeDays,
		ReceivedAt:   &now,
		LastMovedAt:  &now,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.slabRepo.Create(ctx, slab); err != nil {
		return nil, fmt.Errorf("创建板材失败: %w", err)
	}
	s.audit.record(ctx, "slab", slab.ID, "slab_created", createdBy, map[string]any{"block_id": slab.BlockID, "stone_type": slab.StoneType})
	return slab, nil
}

// validStoneType 原料分类或衍生品族预留
func validStoneType(t string) bool {
	switch t {
	case entity.StoneFamilyGranite, entity.StoneFamilyMarble, entity.StoneFamilyQuartz:
		return true
	}
	return entity.IsDerivedFamily(t)
}

func (s *SlabService) Get(ctx context.Context, id string) (*entity.Slab, error) {
	return s.slabRepo.FindByID(ctx, id)
}

func (s *SlabService) List(ctx context.Context, params repository.SlabListParams) ([]entity.Slab, int64, error) {
	return s.slabRepo.List(ctx, params)
}

type UpdateSlabInput struct {
	StoneType    *string  `json:"stone_type"`
	ThicknessCm  *float64 `json:"thickness_cm"`
	LengthCm     *float64 `json:"length_cm"`
	WidthCm      *float64 `json:"width_cm"`
	Finish       *string  `json:"finish"`
	Quantity     *float64 `json:"quantity"`
	UnitPrice    *float64 `json:"unit_price"`
	WeightKg     *float64 `json:"weight_kg"`
	Yard         *string  `json:"yard"`
	Status       *string  `json:"status"`
	MinQty       *float64 `json:"min_qty"`
	LeadTimeDays *int     `json:"lead_time_days"`
}

func (s *SlabService) Update(ctx context.Context, id string, input *UpdateSlabInput, updatedBy string) (*entity.Slab, error) {
	slab, err := s.slabRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.StoneType != nil {
		if *input.StoneType != "" && !validStoneType(*input.StoneType) {
			return nil, &ValidationError{Msg: fmt.Sprintf("非法的 stone_type: %s", *input.StoneType)}
		}
		// 已被成品消费后不允许改预留
		if *input.StoneType != slab.StoneType {
			consumed, err := s.derivedRepo.CountBySlab(ctx, id)
			if err != nil {
				return nil, err
			}
			if consumed > 0 {
				return nil, &ReservationConflictError{SourceID: id, Reserved: "consumed"}
			}
		}
		slab.StoneType = *input.StoneType
	}
	if input.ThicknessCm != nil {
		slab.ThicknessCm = *input.ThicknessCm
	}
	if input.LengthCm != nil {
		slab.LengthCm = *input.LengthCm
	}
	if input.WidthCm != nil {
		slab.WidthCm = *input.WidthCm
	}
	if input.Finish != nil {
		slab.Finish = *input.Finish
	}
	if input.Quantity != nil {
		slab.Quantity = *input.Quantity
	}
	if input.UnitPrice != nil {
		slab.UnitPrice = *input.UnitPrice
	}
	if input.WeightKg != nil {
		slab.WeightKg = *input.WeightKg
	}
	if input.Yard != nil && *input.Yard != slab.Yard {
		slab.Yard = *input.Yard
		now := time.Now()
		slab.LastMovedAt = &now
	}
	if input.Status != nil {
		slab.Status = *input.Status
	}
	if input.MinQty != nil {
		slab.MinQty = *input.MinQty
	}
	if input.LeadTimeDays != nil {
		slab.LeadTimeDays = *input.LeadTimeDays
	}
	slab.UpdatedAt = time.Now()

	if err := s.slabRepo.Update(ctx, slab); err != nil {
		return nil, fmt.Errorf("更新板材失败: %w", err)
	}
	s.audit.record(ctx, "slab", slab.ID, "slab_updated", updatedBy, nil)
	return slab, nil
}

func (s *SlabService) Delete(ctx context.Context, id string, deletedBy string) error {
	if _, err := s.slabRepo.FindByID(ctx, id); err != nil {
		return err
	}
	derived, err := s.derivedRepo.CountBySlab(ctx, id)
	if err != nil {
		return err
	}
	dispatches, err := s.dispatchRepo.CountBySlab(ctx, id)
	if err != nil {
		return err
	}
	if children := derived + dispatches; children > 0 {
		return &HasChildrenError{Kind: "slab", ID: id, Children: children}
	}
	if err := s.slabRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除板材失败: %w", err)
	}
	s.audit.record(ctx, "slab", id, "slab_deleted", deletedBy, nil)
	return nil
}
