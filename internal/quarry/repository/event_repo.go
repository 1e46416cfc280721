package repository

import (
	"context"

	"github.com/bitfantasy/quarry-erp/internal/quarry/entity"
	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, e *entity.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) ListByRef(ctx context.Context, refType, refID string, page, size int) ([]entity.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Event{})
	if refType != "" {
		query = query.Where("ref_type = ?", refType)
	}
	if refID != "" {
		query = query.Where("ref_id = ?", refID)
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	var events []entity.Event
	err := query.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&events).Error
	return events, total, err
}
