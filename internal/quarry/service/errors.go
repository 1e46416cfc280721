package service

import (
	"fmt"
)

// 分配引擎错误分类。每个错误都携带渲染用户提示所需的上下文
// （出错的ID、当前上限/锁定/子记录数），调用方不做自动重试。

// ValidationError 请求字段缺失或非法
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// CapacityExceededError 批次已达切分上限
type CapacityExceededError struct {
	LotID string
	Cap   int
	Used  int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("批次 %s 已达切分上限: %d/%d", e.LotID, e.Used, e.Cap)
}

// LockedEntityError 对已锁定的批次/荒料块写入
type LockedEntityError struct {
	Kind  string // lot / block
	ID    string
	Field string // 被拒绝的字段，可为空
}

func (e *LockedEntityError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %s 已锁定，字段 %s 不可修改", e.Kind, e.ID, e.Field)
	}
	return fmt.Sprintf("%s %s 已锁定，存在下级记录时结构字段只读", e.Kind, e.ID)
}

// ReservationConflictError 板材预留冲突或来源已被消费
type ReservationConflictError struct {
	SourceID  string
	Reserved  string // 板材当前预留的族，或 "consumed" / "dispatched"
	Requested string
}

func (e *ReservationConflictError) Error() string {
	switch e.Reserved {
	case "consumed":
		return fmt.Sprintf("板材 %s 已被其他成品消费", e.SourceID)
	case "dispatched":
		return fmt.Sprintf("来源 %s 已有发运记录", e.SourceID)
	default:
		return fmt.Sprintf("板材 %s 已预留给 %s，不能创建 %s", e.SourceID, e.Reserved, e.Requested)
	}
}

// HasChildrenError 存在下级记录时禁止删除
type HasChildrenError struct {
	Kind     string
	ID       string
	Children int64
}

func (e *HasChildrenError) Error() string {
	return fmt.Sprintf("%s %s 存在 %d 条下级记录，禁止删除", e.Kind, e.ID, e.Children)
}
