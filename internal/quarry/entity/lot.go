package entity

import (
	"time"
)

// StoneFamily 原料石材分类
const (
	StoneFamilyGranite = "granite"
	StoneFamilyMarble  = "marble"
	StoneFamilyQuartz  = "quartz"
)

// Lot 采购荒料批次（QBID），库存层级树的根。
// 一旦派生出荒料块即被锁定：除三项成本字段外全部只读。
type Lot struct {
	ID            string    `json:"qbid" gorm:"primaryKey;size:32"`
	SupplierID    string    `json:"supplier_id" gorm:"size:36;index"`
	MaterialName  string    `json:"material_name" gorm:"size:128;not null"`
	StoneFamily   string    `json:"stone_family" gorm:"size:20"`
	WeightTon     float64   `json:"weight_ton" gorm:"type:decimal(12,3);default:0"`
	LengthCm      float64   `json:"length_cm" gorm:"type:decimal(10,2);default:0"`
	WidthCm       float64   `json:"width_cm" gorm:"type:decimal(10,2);default:0"`
	HeightCm      float64   `json:"height_cm" gorm:"type:decimal(10,2);default:0"`
	GrossCost     float64   `json:"gross_cost" gorm:"type:decimal(14,2);default:0"`
	TransportCost float64   `json:"transport_cost" gorm:"type:decimal(14,2);default:0"`
	OtherCost     float64   `json:"other_cost" gorm:"type:decimal(14,2);default:0"`
	TotalCost     float64   `json:"total_cost" gorm:"type:decimal(14,2);default:0"` // = gross + transport + other
	SplitCap      int       `json:"split_cap" gorm:"not null;default:1"`            // 本批次最多可切分的荒料块数
	Notes         string    `json:"notes" gorm:"type:text"`
	CreatedBy     string    `json:"created_by" gorm:"size:64"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Lot) TableName() string {
	return "qry_lots"
}
