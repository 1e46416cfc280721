package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
	"github.com/google/uuid"
)

type DispatchService struct {
	dispatchRepo *repository.DispatchRepository
	slabRepo     *repository.SlabRepository
	derivedRepo  *repository.DerivedRepository
	audit        *auditor
	sourceMu     *keyedMutex // 按来源串行化重复检查
}

func NewDispatchService(
	dispatchRepo *repository.DispatchRepository,
	slabRepo *repository.SlabRepository,
	derivedRepo *repository.DerivedRepository,
	audit *auditor,
) *DispatchService {
	return &DispatchService{
		dispatchRepo: dispatchRepo,
		slabRepo:     slabRepo,
		derivedRepo:  derivedRepo,
		audit:        audit,
		sourceMu:     newKeyedMutex(),
	}
}

type CreateDispatchInput struct {
	SLID         string  `json:"slid"`
	ItemType     string  `json:"item_type"`
	ItemID       string  `json:"item_id"`
	Customer     string  `json:"customer" binding:"required"`
	BundleNo     string  `json:"bundle_no"`
	ContainerNo  string  `json:"container_no"`
	VehicleNo    string  `json:"vehicle_no"`
	Destination  string  `json:"destination"`
	Quantity     float64 `json:"quantity"`
	DispatchedAt string  `json:"dispatched_at"` // RFC3339，空=当前时间
	Notes        string  `json:"notes"`
}

// Create 创建发运记录。来源必须且只能提交一个：
// 板材（slid）或衍生成品（item_type+item_id）；同一来源最多一条在案发运。
func (s *DispatchService) Create(ctx context.Context, input *CreateDispatchInput, createdBy string) (*entity.Dispatch, error) {
	hasSlab := input.SLID != ""
	hasItem := input.ItemType != "" || input.ItemID != ""
	if hasSlab == hasItem {
		return nil, &ValidationError{Msg: "发运来源必须且只能提交 slid 或 item_type+item_id 之一"}
	}
	if hasItem && (input.ItemType == "" || input.ItemID == "") {
		return nil, &ValidationError{Msg: "item_type 与 item_id 必须同时提交"}
	}
	if hasItem && !entity.IsDerivedFamily(input.ItemType) {
		return nil, &ValidationError{Msg: fmt.Sprintf("非法的成品族: %s", input.ItemType)}
	}

	sourceKey := "slab:" + input.SLID
	if hasItem {
		sourceKey = "item:" + input.ItemType + ":" + input.ItemID
	}
	unlock := s.sourceMu.Lock(sourceKey)
	defer unlock()

	// 来源存在性 + 重复发运检查。排除规则按现存发运记录实时计算，
	// 因此删除发运会重新放开该来源。
	if hasSlab {
		if _, err := s.slabRepo.FindByID(ctx, input.SLID); err != nil {
			return nil, fmt.Errorf("来源板材不存在: %w", err)
		}
		count, err := s.dispatchRepo.CountBySlab(ctx, input.SLID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, &ReservationConflictError{SourceID: input.SLID, Reserved: "dispatched"}
		}
	} else {
		if _, err := s.derivedRepo.FindByID(ctx, input.ItemType, input.ItemID); err != nil {
			return nil, fmt.Errorf("来源成品不存在: %w", err)
		}
		count, err := s.dispatchRepo.CountByItem(ctx, input.ItemType, input.ItemID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, &ReservationConflictError{SourceID: input.ItemID, Reserved: "dispatched"}
		}
	}

	dispatchedAt := time.Now()
	if input.DispatchedAt != "" {
		t, err := time.Parse(time.RFC3339, input.DispatchedAt)
		if err != nil {
			return nil, &ValidationError{Msg: fmt.Sprintf("非法的发运时间: %s", input.DispatchedAt)}
		}
		dispatchedAt = t
	}
	qty := input.Quantity
	if qty <= 0 {
		qty = 1
	}

	d := &entity.Dispatch{
		ID:           uuid.New().String(),
		SLID:         input.SLID,
		ItemType:     input.ItemType,
		ItemID:       input.ItemID,
		Customer:     input.Customer,
		BundleNo:     input.BundleNo,
		ContainerNo:  input.ContainerNo,
		VehicleNo:    input.VehicleNo,
		Destination:  input.Destination,
		Quantity:     qty,
		DispatchedAt: dispatchedAt,
		Notes:        input.Notes,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now(),
	}
	if err := s.dispatchRepo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("创建发运记录失败: %w", err)
	}
	s.audit.record(ctx, "dispatch", d.ID, "dispatch_created", createdBy, map[string]any{
		"slid": d.SLID, "item_type": d.ItemType, "item_id": d.ItemID, "customer": d.Customer,
	})
	return d, nil
}

func (s *DispatchService) Get(ctx context.Context, id string) (*entity.Dispatch, error) {
	return s.dispatchRepo.FindByID(ctx, id)
}

func (s *DispatchService) List(ctx context.Context, params repository.DispatchListParams) ([]entity.Dispatch, int64, error) {
	return s.dispatchRepo.List(ctx, params)
}

// Delete 删除发运记录并重新放开其来源
func (s *DispatchService) Delete(ctx context.Context, id string, deletedBy string) error {
	d, err := s.dispatchRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.dispatchRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除发运记录失败: %w", err)
	}
	s.audit.record(ctx, "dispatch", id, "dispatch_deleted", deletedBy, map[string]any{
		"slid": d.SLID, "item_type": d.ItemType, "item_id": d.ItemID,
	})
	return nil
}
