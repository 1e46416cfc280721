package service

import (
	"context"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
)

// EventService 审计事件只读查询
type EventService struct {
	eventRepo *repository.EventRepository
}

func NewEventService(eventRepo *repository.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

func (s *EventService) ListByRef(ctx context.Context, refType, refID string, page, size int) ([]entity.Event, int64, error) {
	return s.eventRepo.ListByRef(ctx, refType, refID, page, size)
}
