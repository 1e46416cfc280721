package entity

import (
	"time"
)

// 衍生品族，亦作板材的预留标记（stone_type）。
// 板材的 stone_type 为原料分类（granite/marble/quartz）时未预留；
// 为衍生品族时只能被该族的创建流程消费。
const (
	FamilyTiles     = "tiles"
	FamilyCobbles   = "cobbles"
	FamilyMonuments = "monuments"
	FamilyPavers    = "pavers"
)

// DerivedFamilies 全部衍生品族，按固定顺序
var DerivedFamilies = []string{FamilyTiles, FamilyCobbles, FamilyMonuments, FamilyPavers}

// IsDerivedFamily 判断 stone_type 是否为衍生品族预留
func IsDerivedFamily(stoneType string) bool {
	for _, f := range DerivedFamilies {
		if stoneType == f {
			return true
		}
	}
	return false
}

// Slab 从荒料块锯出的板材
type Slab struct {
	ID           string     `json:"slid" gorm:"primaryKey;size:36"`
	BlockID      string     `json:"block_id" gorm:"size:40;not null;index"`
	StoneType    string     `json:"stone_type" gorm:"size:20"` // 原料分类或衍生品族预留
	ThicknessCm  float64    `json:"thickness_cm" gorm:"type:decimal(8,2);default:0"`
	LengthCm     float64    `json:"length_cm" gorm:"type:decimal(10,2);default:0"`
	WidthCm      float64    `json:"width_cm" gorm:"type:decimal(10,2);default:0"`
	Finish       string     `json:"finish" gorm:"size:32"`
	Quantity     float64    `json:"quantity" gorm:"type:decimal(12,3);default:1"`
	UnitPrice    float64    `json:"unit_price" gorm:"type:decimal(14,2);default:0"`
	WeightKg     float64    `json:"weight_kg" gorm:"type:decimal(12,3);default:0"`
	Yard         string     `json:"yard" gorm:"size:64;index"`
	Status       string     `json:"status" gorm:"size:20;not null;default:in_stock"`
	MinQty       float64    `json:"min_qty" gorm:"type:decimal(12,3);default:0"`
	LeadTimeDays int        `json:"lead_time_days" gorm:"default:0"`
	ReceivedAt   *time.Time `json:"received_at"`
	LastMovedAt  *time.Time `json:"last_moved_at"`
	CreatedBy    string     `json:"created_by" gorm:"size:64"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Slab) TableName() string {
	return "qry_slabs"
}
