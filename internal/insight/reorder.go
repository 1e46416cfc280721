package insight

import (
	"context"
	"math"
	"sort"
	"strings"
)

// ReorderSuggestion 单个SKU组的补货建议
type ReorderSuggestion struct {
	SKU          string  `json:"sku"`
	Material     string  `json:"material"`
	Thickness    string  `json:"thickness"`
	Finish       string  `json:"finish"`
	Stock        float64 `json:"stock"`
	MinQty       float64 `json:"min_qty"`
	RecentDemand float64 `json:"recent_demand"`
	AvgDaily     float64 `json:"avg_daily"`
	LeadTimeDays int     `json:"lead_time_days"`
	SafetyStock  int     `json:"safety_stock"`
	ReorderPoint int     `json:"reorder_point"`
	Suggested    int     `json:"suggested"`
}

type skuGroup struct {
	material  string
	thickness string
	finish    string
	stock     float64
	minQty    float64
	lead      float64
	ids       []string
}

// Reorder 补货建议。SKU组键为 (材质或颜色, 厚度, 饰面) 小写；
// 近期需求用子串匹配发运历史得出（同一条发运最多计入一次）。
func (e *Engine) Reorder(ctx context.Context, lookbackDays int) []ReorderSuggestion {
	if lookbackDays <= 0 {
		lookbackDays = e.lookback
	}

	groups := map[string]*skuGroup{}
	var keys []string
	for _, s := range e.stocks(ctx) {
		key := s.skuKey()
		g, ok := groups[key]
		if !ok {
			material := s.Material
			if material == "" {
				material = s.Color
			}
			g = &skuGroup{
				material:  strings.ToLower(material),
				thickness: strings.ToLower(s.Thickness),
				finish:    strings.ToLower(s.Finish),
			}
			groups[key] = g
			keys = append(keys, key)
		}
		g.stock += s.Quantity
		if s.MinQty > g.minQty {
			g.minQty = s.MinQty
		}
		// 补货周期取组内第一个提供该值的记录
		if g.lead == 0 {
			if s.LeadTimeDays > 0 {
				g.lead = s.LeadTimeDays
			} else if s.SupplierLead > 0 {
				g.lead = s.SupplierLead
			}
		}
		if s.ID != "" {
			g.ids = append(g.ids, s.ID)
		}
	}

	dispatches := e.dispatches(ctx)
	now := e.now()
	sort.Strings(keys)

	var out []ReorderSuggestion
	for _, key := range keys {
		g := groups[key]

		var demand float64
		for _, d := range dispatches {
			if !d.inWindow(now, lookbackDays) {
				continue
			}
			for _, id := range g.ids {
				if d.mentions(id) {
					demand += d.Quantity
					break
				}
			}
		}

		avgDaily := demand / float64(lookbackDays)
		lead := g.lead
		if lead == 0 {
			lead = 14
		}
		lead = math.Max(7, lead)
		safety := int(math.Ceil(avgDaily * math.Min(14, lead)))
		reorderPoint := int(math.Ceil(avgDaily*lead + float64(safety)))
		suggestedRaw := int(math.Ceil(math.Max(0, float64(reorderPoint)-g.stock)))

		// 仅在库存已低于最小量时才抬到minQty，避免健康小SKU被过量建议
		suggested := suggestedRaw
		if float64(suggestedRaw) < g.minQty && g.stock <= g.minQty {
			suggested = int(g.minQty)
		}

		if g.stock <= g.minQty || g.stock <= float64(reorderPoint) || suggested > 0 {
			out = append(out, ReorderSuggestion{
				SKU:          key,
				Material:     g.material,
				Thickness:    g.thickness,
				Finish:       g.finish,
				Stock:        g.stock,
				MinQty:       g.minQty,
				RecentDemand: demand,
				AvgDaily:     avgDaily,
				LeadTimeDays: int(lead),
				SafetyStock:  safety,
				ReorderPoint: reorderPoint,
				Suggested:    suggested,
			})
		}
	}
	return out
}

// LowStock 低库存SKU组：库存不高于最小量的组
func (e *Engine) LowStock(ctx context.Context) []ReorderSuggestion {
	var out []ReorderSuggestion
	for _, s := range e.Reorder(ctx, e.lookback) {
		if s.MinQty > 0 && s.Stock <= s.MinQty {
			out = append(out, s)
		}
	}
	return out
}
