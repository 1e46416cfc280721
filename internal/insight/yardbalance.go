package insight

import (
	"context"
	"math"
	"sort"
)

// YardBalance 堆场分布：各堆场件数、均值以及相对均值的有符号偏差
type YardBalance struct {
	Yard      string  `json:"yard"`
	Units     float64 `json:"units"`
	Deviation float64 `json:"deviation"` // 正=高于均值
}

type YardBalanceReport struct {
	Mean  float64       `json:"mean"`
	Yards []YardBalance `json:"yards"`
}

// YardBalanceView 统计各堆场件数并标出偏离均值的程度，
// 用于判断是否需要在堆场之间调拨。
func (e *Engine) YardBalanceView(ctx context.Context) *YardBalanceReport {
	return cachedReport(ctx, e, "insight:yard-balance", func() *YardBalanceReport {
		counts := map[string]float64{}
		for _, s := range e.stocks(ctx) {
			counts[orUnknown(s.Yard)] += s.Quantity
		}
		report := &YardBalanceReport{}
		if len(counts) == 0 {
			return report
		}

		var total float64
		var yards []string
		for yard, n := range counts {
			total += n
			yards = append(yards, yard)
		}
		sort.Strings(yards)
		mean := total / float64(len(counts))
		report.Mean = math.Round(mean*100) / 100
		for _, yard := range yards {
			report.Yards = append(report.Yards, YardBalance{
				Yard:      yard,
				Units:     counts[yard],
				Deviation: math.Round(counts[yard] - mean),
			})
		}
		return report
	})
}
