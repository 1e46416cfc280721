package insight

import (
	"context"

	"github.com/shopspring/decimal"
)

// VisibilityReport 库存总览
type VisibilityReport struct {
	TotalUnits  float64            `json:"total_units"`
	ByThickness map[string]float64 `json:"by_thickness"`
	ByFinish    map[string]float64 `json:"by_finish"`
	ByYard      map[string]float64 `json:"by_yard"`
	ValueByYard map[string]float64 `json:"value_by_yard"`
	TotalValue  float64            `json:"total_value"`
}

// Visibility 板材库存总览：总件数、按厚度/饰面/货场分组、分货场价值
func (e *Engine) Visibility(ctx context.Context) *VisibilityReport {
	return cachedReport(ctx, e, "insight:visibility", func() *VisibilityReport {
		return e.computeVisibility(ctx)
	})
}

func (e *Engine) computeVisibility(ctx context.Context) *VisibilityReport {
	report := &VisibilityReport{
		ByThickness: map[string]float64{},
		ByFinish:    map[string]float64{},
		ByYard:      map[string]float64{},
		ValueByYard: map[string]float64{},
	}
	valueByYard := map[string]decimal.Decimal{}
	totalValue := decimal.Zero

	for _, s := range e.stocks(ctx) {
		report.TotalUnits += s.Quantity
		report.ByThickness[orUnknown(s.Thickness)] += s.Quantity
		report.ByFinish[orUnknown(s.Finish)] += s.Quantity
		yard := orUnknown(s.Yard)
		report.ByYard[yard] += s.Quantity

		v := decimal.NewFromFloat(s.ResolvedValue())
		valueByYard[yard] = valueByYard[yard].Add(v)
		totalValue = totalValue.Add(v)
	}

	for yard, v := range valueByYard {
		report.ValueByYard[yard] = v.Round(2).InexactFloat64()
	}
	report.TotalValue = totalValue.Round(2).InexactFloat64()
	return report
}

// ValuationReport 库存估值
type ValuationReport struct {
	Total  float64            `json:"total"`
	ByYard map[string]float64 `json:"by_yard"`
}

// Valuation 库存估值：单条价值解析与总览相同，聚合为总额与分货场明细
func (e *Engine) Valuation(ctx context.Context) *ValuationReport {
	return cachedReport(ctx, e, "insight:valuation", func() *ValuationReport {
		return e.computeValuation(ctx)
	})
}

func (e *Engine) computeValuation(ctx context.Context) *ValuationReport {
	byYard := map[string]decimal.Decimal{}
	total := decimal.Zero
	for _, s := range e.stocks(ctx) {
		v := decimal.NewFromFloat(s.ResolvedValue())
		yard := orUnknown(s.Yard)
		byYard[yard] = byYard[yard].Add(v)
		total = total.Add(v)
	}
	report := &ValuationReport{Total: total.Round(2).InexactFloat64(), ByYard: map[string]float64{}}
	for yard, v := range byYard {
		report.ByYard[yard] = v.Round(2).InexactFloat64()
	}
	return report
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
