package insight

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Record 实体存储返回的松散记录。字段名在不同端点之间并不统一，
// 读取时按候选名顺序取第一个存在的值，一次性归一化为强类型记录，
// 后续计算不再接触原始map。
type Record map[string]any

// str 返回第一个存在且非空的字符串字段
func (r Record) str(keys ...string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		case float64:
			return strings.TrimSuffix(strings.TrimSuffix(fmt.Sprintf("%.2f", s), "0"), ".")
		}
	}
	return ""
}

// num 返回第一个存在的数值字段
func (r Record) num(keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		case json.Number:
			if f, err := n.Float64(); err == nil {
				return f, true
			}
		case string:
			var f float64
			if _, err := fmt.Sscanf(n, "%f", &f); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func (r Record) numOr(def float64, keys ...string) float64 {
	if v, ok := r.num(keys...); ok {
		return v
	}
	return def
}

// date 返回第一个可解析的时间字段。解析失败视为缺失，不报错。
func (r Record) date(keys ...string) *time.Time {
	layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	}
	return nil
}

// StockRecord 库存侧归一化记录（板材为主）
type StockRecord struct {
	ID           string
	Material     string
	Color        string
	Thickness    string
	Finish       string
	Yard         string
	Quantity     float64
	UnitPrice    float64
	WeightKg     float64
	Value        float64 // 显式价值字段，0=未提供
	MinQty       float64
	LeadTimeDays float64 // 0=未提供
	SupplierLead float64 // 0=未提供
	LastActivity *time.Time
}

// normalizeStock 按候选字段名链归一化一条库存记录
func normalizeStock(r Record) StockRecord {
	return StockRecord{
		ID:           r.str("slid", "id", "slab_id", "item_id", "code"),
		Material:     r.str("material", "material_name", "stone", "stone_type"),
		Color:        r.str("color", "colour", "shade"),
		Thickness:    r.str("thickness_cm", "thickness", "thick"),
		Finish:       r.str("finish", "surface", "polish"),
		Yard:         r.str("yard", "location", "warehouse", "site"),
		Quantity:     r.numOr(1, "quantity", "qty", "stock_qty", "pieces"),
		UnitPrice:    r.numOr(0, "unit_price", "price", "rate"),
		WeightKg:     r.numOr(0, "weight_kg", "weight"),
		Value:        r.numOr(0, "value", "total_value", "amount"),
		MinQty:       r.numOr(0, "min_qty", "minimum_qty", "reorder_min"),
		LeadTimeDays: r.numOr(0, "lead_time_days", "lead_days"),
		SupplierLead: r.numOr(0, "supplier_lead", "supplier_lead_days"),
		LastActivity: r.date("last_moved_at", "last_moved", "last_dispatched_at", "last_dispatched", "received_at", "received", "updated_at", "updated"),
	}
}

// ResolvedValue 单条记录价值，固定优先级：
// 显式value → 单价×数量 → 重量×单价 → 0
func (s StockRecord) ResolvedValue() float64 {
	v := s.Value
	if v == 0 {
		v = s.UnitPrice * s.Quantity
	}
	if v == 0 {
		v = s.WeightKg * s.UnitPrice
	}
	return v
}

// skuKey 补货分组键：(材质或颜色, 厚度, 饰面)，全小写
func (s StockRecord) skuKey() string {
	material := s.Material
	if material == "" {
		material = s.Color
	}
	return strings.ToLower(material + "|" + s.Thickness + "|" + s.Finish)
}

// DispatchRecord 发运侧归一化记录。保留小写序列化文本用于子串匹配——
// 这是刻意为之的廉价启发式联接，不是外键，短ID有误匹配风险。
type DispatchRecord struct {
	Quantity float64
	Date     *time.Time
	text     string
}

func normalizeDispatch(r Record) DispatchRecord {
	raw, _ := json.Marshal(r)
	return DispatchRecord{
		Quantity: r.numOr(1, "quantity", "qty"),
		Date:     r.date("dispatched_at", "dispatch_date", "date", "created_at"),
		text:     strings.ToLower(string(raw)),
	}
}

// mentions 序列化文本是否包含指定标识（大小写不敏感）
func (d DispatchRecord) mentions(id string) bool {
	if id == "" {
		return false
	}
	return strings.Contains(d.text, strings.ToLower(id))
}

// inWindow 发运日期是否落在回看窗口内，无日期视为永远在窗内
func (d DispatchRecord) inWindow(now time.Time, lookbackDays int) bool {
	if d.Date == nil {
		return true
	}
	cutoff := now.AddDate(0, 0, -lookbackDays)
	return !d.Date.Before(cutoff)
}
