package insight

import (
	"context"
	"sort"
)

// SlowMovingItem 滞销明细。DaysSince为距最近一次活动的天数。
type SlowMovingItem struct {
	ID        string  `json:"id"`
	Material  string  `json:"material"`
	Yard      string  `json:"yard"`
	Quantity  float64 `json:"quantity"`
	DaysSince int     `json:"days_since"`
	Value     float64 `json:"value"`
}

// SlowMoving 滞销库存：最近活动超过阈值天数的记录。
// 无任何可解析时间戳的记录跳过，不做臆测。
func (e *Engine) SlowMoving(ctx context.Context, thresholdDays int) []SlowMovingItem {
	if thresholdDays <= 0 {
		thresholdDays = e.slowDays
	}
	now := e.now()

	var out []SlowMovingItem
	for _, s := range e.stocks(ctx) {
		if s.LastActivity == nil {
			continue
		}
		days := int(now.Sub(*s.LastActivity).Hours() / 24)
		if days <= thresholdDays {
			continue
		}
		out = append(out, SlowMovingItem{
			ID:        s.ID,
			Material:  s.Material,
			Yard:      s.Yard,
			Quantity:  s.Quantity,
			DaysSince: days,
			Value:     s.ResolvedValue(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DaysSince > out[j].DaysSince })
	return out
}
