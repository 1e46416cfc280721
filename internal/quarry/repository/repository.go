package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
)

// wrapNotFound 将gorm未找到错误统一映射为 ErrNotFound
func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Repositories 仓库集合
type Repositories struct {
	Supplier *SupplierRepository
	Lot      *LotRepository
	Block    *BlockRepository
	Slab     *SlabRepository
	Derived  *DerivedRepository
	Dispatch *DispatchRepository
	Event    *EventRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Supplier: NewSupplierRepository(db),
		Lot:      NewLotRepository(db),
		Block:    NewBlockRepository(db),
		Slab:     NewSlabRepository(db),
		Derived:  NewDerivedRepository(db),
		Dispatch: NewDispatchRepository(db),
		Event:    NewEventRepository(db),
	}
}
