package entity

import (
	"time"
)

// QCStatus 质检状态
const (
	QCStatusPending  = "pending"
	QCStatusPassed   = "passed"
	QCStatusRejected = "rejected"
)

// DerivedProduct 衍生成品（瓷砖/小方石/墓碑石/铺路石），
// 由预留板材切出，或直接从荒料块加工（SLID 为空）。
// 每件成品最多被一条发运记录消费。
type DerivedProduct struct {
	ID          string    `json:"item_id" gorm:"primaryKey;size:36"`
	ItemType    string    `json:"item_type" gorm:"size:16;not null;index"` // tiles/cobbles/monuments/pavers
	BlockID     string    `json:"block_id" gorm:"size:40;not null;index"`
	SLID        string    `json:"slid" gorm:"size:36;index"` // 来源板材，可为空
	BatchNo     string    `json:"batch_no" gorm:"size:50"`
	LengthCm    float64   `json:"length_cm" gorm:"type:decimal(10,2);default:0"`
	WidthCm     float64   `json:"width_cm" gorm:"type:decimal(10,2);default:0"`
	ThicknessCm float64   `json:"thickness_cm" gorm:"type:decimal(8,2);default:0"`
	Finish      string    `json:"finish" gorm:"size:32"`
	Quantity    float64   `json:"quantity" gorm:"type:decimal(12,3);default:1"`
	UnitPrice   float64   `json:"unit_price" gorm:"type:decimal(14,2);default:0"`
	Yard        string    `json:"yard" gorm:"size:64;index"`
	Status      string    `json:"status" gorm:"size:20;not null;default:in_stock"`
	QCStatus    string    `json:"qc_status" gorm:"size:16;not null;default:pending"`
	CreatedBy   string    `json:"created_by" gorm:"size:64"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (DerivedProduct) TableName() string {
	return "qry_derived_products"
}
