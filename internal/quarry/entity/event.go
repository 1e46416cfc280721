package entity

import (
	"time"
)

// Event 审计事件，只追加不校验。
// Payload 为自由格式JSON文本。
type Event struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	RefType   string    `json:"ref_type" gorm:"size:32;not null;index:idx_qry_events_ref"`
	RefID     string    `json:"ref_id" gorm:"size:40;not null;index:idx_qry_events_ref"`
	EventType string    `json:"event_type" gorm:"size:50;not null"`
	Payload   string    `json:"payload" gorm:"type:text"`
	CreatedBy string    `json:"created_by" gorm:"size:64"`
	CreatedAt time.Time `json:"created_at"`
}

func (Event) TableName() string {
	return "qry_events"
}
