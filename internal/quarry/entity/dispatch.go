package entity

import (
	"time"
)

// Dispatch 发运记录，消费且仅消费一个来源：
// 板材（SLID）或衍生成品（ItemType+ItemID），二者互斥。
type Dispatch struct {
	ID           string    `json:"dispatch_id" gorm:"primaryKey;size:36"`
	SLID         string    `json:"slid" gorm:"size:36;index"`
	ItemType     string    `json:"item_type" gorm:"size:16;index"`
	ItemID       string    `json:"item_id" gorm:"size:36;index"`
	Customer     string    `json:"customer" gorm:"size:128;not null"`
	BundleNo     string    `json:"bundle_no" gorm:"size:50"`
	ContainerNo  string    `json:"container_no" gorm:"size:50"`
	VehicleNo    string    `json:"vehicle_no" gorm:"size:32"`
	Destination  string    `json:"destination" gorm:"size:128"`
	Quantity     float64   `json:"quantity" gorm:"type:decimal(12,3);default:1"`
	DispatchedAt time.Time `json:"dispatched_at"`
	Notes        string    `json:"notes" gorm:"type:text"`
	CreatedBy    string    `json:"created_by" gorm:"size:64"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Dispatch) TableName() string {
	return "qry_dispatches"
}
