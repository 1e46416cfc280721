package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Services 服务集合
type Services struct {
	Supplier *SupplierService
	Lot      *LotService
	Block    *BlockService
	Slab     *SlabService
	Derived  *DerivedService
	Dispatch *DispatchService
	Event    *EventService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, logger *zap.Logger) *Services {
	auditor := newAuditor(repos.Event, logger)
	lockGuard := newLockGuard(repos.Block, repos.Slab)

	return &Services{
		Supplier: NewSupplierService(repos.Supplier, auditor),
		Lot:      NewLotService(repos.Lot, repos.Block, repos.Slab, lockGuard, auditor),
		Block:    NewBlockService(repos.Block, repos.Slab, repos.Derived, lockGuard, auditor),
		Slab:     NewSlabService(repos.Slab, repos.Block, repos.Derived, repos.Dispatch, auditor),
		Derived:  NewDerivedService(repos.Derived, repos.Slab, repos.Block, repos.Dispatch, auditor),
		Dispatch: NewDispatchService(repos.Dispatch, repos.Slab, repos.Derived, auditor),
		Event:    NewEventService(repos.Event),
	}
}

// auditor 审计事件写入器。写入失败只记录日志，不影响主流程。
type auditor struct {
	events *repository.EventRepository
	logger *zap.Logger
}

func newAuditor(events *repository.EventRepository, logger *zap.Logger) *auditor {
	return &auditor{events: events, logger: logger}
}

func (a *auditor) record(ctx context.Context, refType, refID, eventType, createdBy string, payload map[string]any) {
	var body string
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			body = string(b)
		}
	}
	e := &entity.Event{
		ID:        uuid.New().String(),
		RefType:   refType,
		RefID:     refID,
		EventType: eventType,
		Payload:   body,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}
	if err := a.events.Create(ctx, e); err != nil && a.logger != nil {
		a.logger.Warn("审计事件写入失败",
			zap.String("ref_type", refType),
			zap.String("ref_id", refID),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
