package entity

import (
	"time"
)

// SupplierStatus 供应商状态
const (
	SupplierStatusActive   = "active"
	SupplierStatusInactive = "inactive"
)

// Supplier 荒料供应商
type Supplier struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Code         string    `json:"code" gorm:"size:50;uniqueIndex"`
	Name         string    `json:"name" gorm:"size:200;not null"`
	ContactName  string    `json:"contact_name" gorm:"size:100"`
	Phone        string    `json:"phone" gorm:"size:20"`
	Email        string    `json:"email" gorm:"size:100"`
	Address      string    `json:"address" gorm:"size:500"`
	LeadTimeDays int       `json:"lead_time_days" gorm:"default:0"` // 补货周期（天）
	Status       string    `json:"status" gorm:"size:20;not null;default:active"`
	Notes        string    `json:"notes" gorm:"type:text"`
	CreatedBy    string    `json:"created_by" gorm:"size:64"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Supplier) TableName() string {
	return "qry_suppliers"
}
