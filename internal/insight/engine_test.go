package insight

import (
	"context"
	"testing"
	"time"

	"github.com/bitfantasy/quarry-erp/internal/config"
	"go.uber.org/zap"
)

// fakeSource serves canned records per collection
type fakeSource struct {
	data map[string][]Record
}

func (f *fakeSource) List(_ context.Context, collection string) []Record {
	return f.data[collection]
}

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(data map[string][]Record) *Engine {
	e := NewEngine(&fakeSource{data: data}, nil, config.InsightConfig{}, zap.NewNop())
	e.now = func() time.Time { return testNow }
	return e
}

func daysAgo(n int) string {
	return testNow.AddDate(0, 0, -n).Format(time.RFC3339)
}

func TestVisibilityTotalsAndGroups(t *testing.T) {
	e := newTestEngine(map[string][]Record{
		"slabs": {
			{"slid": "SL-1", "thickness_cm": "2", "finish": "polished", "yard": "north", "quantity": 3.0, "unit_price": 10.0},
			{"slid": "SL-2", "thickness_cm": "3", "finish": "polished", "yard": "south"}, // quantity defaults to 1
			{"slid": "SL-3", "yard": "north", "quantity": 2.0, "value": 99.5},
		},
	})

	v := e.Visibility(context.Background())
	if v.TotalUnits != 6 {
		t.Errorf("expected 6 total units, got %v", v.TotalUnits)
	}
	if v.ByFinish["polished"] != 4 {
		t.Errorf("expected 4 polished, got %v", v.ByFinish["polished"])
	}
	if v.ByFinish["unknown"] != 2 {
		t.Errorf("expected 2 unknown finish, got %v", v.ByFinish["unknown"])
	}
	if v.ByYard["north"] != 5 {
		t.Errorf("expected 5 in north, got %v", v.ByYard["north"])
	}
	// SL-1: 10×3=30; SL-2: no price → 0; SL-3: explicit value 99.5
	if v.TotalValue != 129.5 {
		t.Errorf("expected total value 129.5, got %v", v.TotalValue)
	}
	if v.ValueByYard["north"] != 129.5 {
		t.Errorf("expected north value 129.5, got %v", v.ValueByYard["north"])
	}
}

func TestValueResolutionPriority(t *testing.T) {
	// explicit value beats unit_price×quantity
	r := normalizeStock(Record{"value": 50.0, "unit_price": 10.0, "quantity": 3.0})
	if got := r.ResolvedValue(); got != 50 {
		t.Errorf("explicit value: expected 50, got %v", got)
	}
	// then unit_price×quantity
	r = normalizeStock(Record{"unit_price": 10.0, "quantity": 3.0})
	if got := r.ResolvedValue(); got != 30 {
		t.Errorf("price×qty: expected 30, got %v", got)
	}
	// then weight×price when quantity resolves to a zero product
	r = StockRecord{WeightKg: 100, UnitPrice: 2}
	if got := r.ResolvedValue(); got != 200 {
		t.Errorf("weight×price: expected 200, got %v", got)
	}
	r = StockRecord{}
	if got := r.ResolvedValue(); got != 0 {
		t.Errorf("empty record: expected 0, got %v", got)
	}
}

func TestForecastMovingAverage(t *testing.T) {
	e := newTestEngine(map[string][]Record{
		"dispatches": {
			{"slid": "SL-9", "quantity": 10.0, "dispatched_at": daysAgo(10)},
			{"slid": "SL-9", "quantity": 10.0, "dispatched_at": daysAgo(40)},
			{"slid": "SL-9", "quantity": 10.0, "dispatched_at": daysAgo(80)},
			{"slid": "SL-9", "quantity": 99.0, "dispatched_at": daysAgo(200)}, // outside lookback
			{"slid": "SL-other", "quantity": 99.0, "dispatched_at": daysAgo(10)},
		},
	})

	f := e.Forecast(context.Background(), "SL-9", 30, 90)
	if f.Matched != 3 {
		t.Errorf("expected 3 matched dispatches, got %d", f.Matched)
	}
	if f.TotalQty != 30 {
		t.Errorf("expected total 30, got %v", f.TotalQty)
	}
	if f.Predicted != 10 {
		t.Errorf("expected predicted 10, got %d", f.Predicted)
	}
}

func TestForecastUndatedDispatchAlwaysInWindow(t *testing.T) {
	e := newTestEngine(map[string][]Record{
		"dispatches": {
			{"slid": "SL-5", "quantity": 9.0}, // no date field at all
		},
	})
	f := e.Forecast(context.Background(), "SL-5", 30, 90)
	if f.Matched != 1 || f.TotalQty != 9 {
		t.Errorf("undated dispatch should count: matched=%d qty=%v", f.Matched, f.TotalQty)
	}
}

func TestReorderSuggestion(t *testing.T) {
	// stock=2, demand 90 units over 90 days → avgDaily=1, lead=14, minQty=5:
	// safety=14, reorderPoint=28, suggested=26 (floor not applied, 26 ≥ 5)
	dispatches := make([]Record, 0, 9)
	for i := 0; i < 9; i++ {
		dispatches = append(dispatches, Record{
			"slid": "SL-R1", "quantity": 10.0, "dispatched_at": daysAgo(i*9 + 1),
		})
	}
	e := newTestEngine(map[string][]Record{
		"slabs": {
			{"slid": "SL-R1", "material": "granite", "thickness_cm": "2", "finish": "polished",
				"quantity": 2.0, "min_qty": 5.0, "lead_time_days": 14.0},
		},
		"dispatches": dispatches,
	})

	out := e.Reorder(context.Background(), 90)
	if len(out) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(out))
	}
	s := out[0]
	if s.AvgDaily != 1 {
		t.Errorf("expected avgDaily 1, got %v", s.AvgDaily)
	}
	if s.SafetyStock != 14 {
		t.Errorf("expected safety 14, got %d", s.SafetyStock)
	}
	if s.ReorderPoint != 28 {
		t.Errorf("expected reorder point 28, got %d", s.ReorderPoint)
	}
	if s.Suggested != 26 {
		t.Errorf("expected suggested 26, got %d", s.Suggested)
	}
}

func TestReorderMinQtyFloorOnlyWhenCritical(t *testing.T) {
	// no demand, stock 1 ≤ minQty 10 → suggestedRaw 0 < 10 and stock critical → floor to 10
	e := newTestEngine(map[string][]Record{
		"slabs": {
			{"slid": "SL-F1", "material": "marble", "thickness_cm": "3", "finish": "honed",
				"quantity": 1.0, "min_qty": 10.0},
		},
	})
	out := e.Reorder(context.Background(), 90)
	if len(out) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(out))
	}
	if out[0].Suggested != 10 {
		t.Errorf("expected floor to min_qty 10, got %d", out[0].Suggested)
	}
}

func TestReorderHealthyGroupExcluded(t *testing.T) {
	// no demand, plenty of stock, no minQty → nothing to suggest
	e := newTestEngine(map[string][]Record{
		"slabs": {
			{"slid": "SL-OK", "material": "quartz", "thickness_cm": "2", "finish": "polished",
				"quantity": 500.0},
		},
	})
	if out := e.Reorder(context.Background(), 90); len(out) != 0 {
		t.Errorf("expected no suggestions for healthy group, got %d", len(out))
	}
}

func TestSlowMovingDetection(t *testing.T) {
	e := newTestEngine(map[string][]Record{
		"slabs": {
			{"slid": "SL-OLD", "quantity": 1.0, "last_moved_at": daysAgo(120)},
			{"slid": "SL-NEW", "quantity": 1.0, "last_moved_at": daysAgo(5)},
			{"slid": "SL-NODATE", "quantity": 1.0}, // no timestamp, skipped
		},
	})

	items := e.SlowMoving(context.Background(), 90)
	if len(items) != 1 {
		t.Fatalf("expected 1 slow-moving item, got %d", len(items))
	}
	if items[0].ID != "SL-OLD" {
		t.Errorf("expected SL-OLD, got %s", items[0].ID)
	}
	if items[0].DaysSince != 120 {
		t.Errorf("expected 120 days since, got %d", items[0].DaysSince)
	}
}

func TestYardBalanceDeviation(t *testing.T) {
	e := newTestEngine(map[string][]Record{
		"slabs": {
			{"slid": "a", "yard": "north", "quantity": 10.0},
			{"slid": "b", "yard": "south", "quantity": 4.0},
		},
	})

	report := e.YardBalanceView(context.Background())
	if report.Mean != 7 {
		t.Errorf("expected mean 7, got %v", report.Mean)
	}
	if len(report.Yards) != 2 {
		t.Fatalf("expected 2 yards, got %d", len(report.Yards))
	}
	// sorted by name: north first
	if report.Yards[0].Yard != "north" || report.Yards[0].Deviation != 3 {
		t.Errorf("north: expected deviation +3, got %+v", report.Yards[0])
	}
	if report.Yards[1].Yard != "south" || report.Yards[1].Deviation != -3 {
		t.Errorf("south: expected deviation -3, got %+v", report.Yards[1])
	}
}
