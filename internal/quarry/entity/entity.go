package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移所有库存表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 基础数据
		&Supplier{},

		// 库存层级
		&Lot{},
		&Block{},
		&Slab{},
		&DerivedProduct{},
		&Dispatch{},

		// 审计
		&Event{},
	)
}
