package insight

import (
	"context"
	"math"
)

// ForecastReport 需求预测。简单移动平均，不保证统计严谨。
type ForecastReport struct {
	ItemID       string  `json:"item_id"`
	Days         int     `json:"days"`
	LookbackDays int     `json:"lookback_days"`
	Matched      int     `json:"matched_dispatches"`
	TotalQty     float64 `json:"total_qty"`
	PerDay       float64 `json:"per_day"`
	Predicted    int     `json:"predicted"`
}

// Forecast 对指定标识做需求预测：
// 用子串匹配从发运历史里筛出相关记录（无日期的视为永远在窗内），
// perDay = 窗内总量 / 回看天数，predicted = round(perDay × 预测天数)。
func (e *Engine) Forecast(ctx context.Context, itemID string, days, lookbackDays int) *ForecastReport {
	if days <= 0 {
		days = 30
	}
	if lookbackDays <= 0 {
		lookbackDays = e.lookback
	}
	report := &ForecastReport{ItemID: itemID, Days: days, LookbackDays: lookbackDays}

	now := e.now()
	for _, d := range e.dispatches(ctx) {
		if !d.mentions(itemID) || !d.inWindow(now, lookbackDays) {
			continue
		}
		report.Matched++
		report.TotalQty += d.Quantity
	}

	report.PerDay = report.TotalQty / float64(lookbackDays)
	report.Predicted = int(math.Round(report.PerDay * float64(days)))
	return report
}
