package entity

import (
	"time"
)

// BlockStatus 荒料块状态
const (
	BlockStatusInYard  = "in_yard"
	BlockStatusSawing  = "sawing"
	BlockStatusSawn    = "sawn"
	BlockStatusOnHold  = "on_hold"
	BlockStatusScrapped = "scrapped"
)

// Block 从荒料批次切出的荒料块。
// ParentQBID 为空表示人工登记、不占用任何批次的切分槽位。
// 批次生成的块ID形如 <qbid>-A、<qbid>-B，后缀即槽位标识。
type Block struct {
	ID           string    `json:"block_id" gorm:"primaryKey;size:40"`
	ParentQBID   string    `json:"parent_qbid" gorm:"size:32;index"`
	MaterialName string    `json:"material_name" gorm:"size:128"`
	Grade        string    `json:"grade" gorm:"size:16"`
	LengthCm     float64   `json:"length_cm" gorm:"type:decimal(10,2);default:0"`
	WidthCm      float64   `json:"width_cm" gorm:"type:decimal(10,2);default:0"`
	HeightCm     float64   `json:"height_cm" gorm:"type:decimal(10,2);default:0"`
	WeightTon    float64   `json:"weight_ton" gorm:"type:decimal(12,3);default:0"`
	Yard         string    `json:"yard" gorm:"size:64;index"`
	Status       string    `json:"status" gorm:"size:20;not null;default:in_yard"`
	Notes        string    `json:"notes" gorm:"type:text"`
	CreatedBy    string    `json:"created_by" gorm:"size:64"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Block) TableName() string {
	return "qry_blocks"
}
