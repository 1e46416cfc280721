package insight

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

const helpReply = `可用问题示例：
- 库存总览 / inventory summary
- 库存价值 / total value
- 低库存 / low stock
- 补货建议 / reorder
- 滞销库存 / slow moving
- 需求预测 SL-0001 / forecast SL-0001
- 堆场分布 / yard balance`

const fallbackReply = "没听懂这个问题。回复 help 查看支持的问法。"

// idToken 匹配类似 QB-12、SL-0001、BLK-a1b2 的标识符
var idToken = regexp.MustCompile(`\b[a-z]{2,}[-_]?\d[\w-]*\b`)

type entityRule struct {
	words      []string
	collection string
	label      string
	hint       string
}

// 实体提及规则，先于任何重计算短路返回计数
var entityRules = []entityRule{
	{[]string{"qbid", "lot", "批次", "荒料"}, "lots", "荒料批次", "可继续问某个批次的出块情况"},
	{[]string{"block", "块石"}, "blocks", "块石", "可继续问某个块石的切板情况"},
	{[]string{"slab", "板材"}, "slabs", "板材", "可用 '库存总览' 查看分布"},
	{[]string{"dispatch", "发运", "出货"}, "dispatches", "发运单", "可用 '需求预测 <编号>' 估算销量"},
	{[]string{"supplier", "供应商"}, "suppliers", "供应商", "供应商详情请在管理页面查看"},
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// AnswerQuestion 将自由文本问题映射到唯一一个报表计算。
// 规则按固定顺序匹配：help → 实体提及 → 低库存 → 补货 →
// 滞销 → 价值 → 预测 → 总览 → 兜底。顺序不可调整，
// 否则 "slow moving slabs" 这类问题的归属会改变。
func (e *Engine) AnswerQuestion(ctx context.Context, text string) string {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return fallbackReply
	}

	if containsAny(q, "help", "帮助", "怎么用") {
		return helpReply
	}

	for _, rule := range entityRules {
		if containsAny(q, rule.words...) {
			n := len(e.src.List(ctx, rule.collection))
			return fmt.Sprintf("当前共有 %d 条%s记录。%s。", n, rule.label, rule.hint)
		}
	}

	if containsAny(q, "low stock", "running low", "低库存", "缺货") {
		items := e.LowStock(ctx)
		if len(items) == 0 {
			return "没有低于最小库存量的SKU。"
		}
		return fmt.Sprintf("有 %d 个SKU低于最小库存量，最紧缺：%s（库存 %.0f / 最小 %.0f）。", len(items), items[0].SKU, items[0].Stock, items[0].MinQty)
	}

	if containsAny(q, "reorder", "restock", "补货", "采购建议") {
		items := e.Reorder(ctx, e.lookback)
		if len(items) == 0 {
			return "当前没有需要补货的SKU。"
		}
		return fmt.Sprintf("共 %d 个SKU建议补货，例如 %s 建议补 %d 件（补货点 %d）。", len(items), items[0].SKU, items[0].Suggested, items[0].ReorderPoint)
	}

	if containsAny(q, "slow", "stale", "滞销", "呆滞") {
		items := e.SlowMoving(ctx, e.slowDays)
		if len(items) == 0 {
			return fmt.Sprintf("没有超过 %d 天未动的库存。", e.slowDays)
		}
		return fmt.Sprintf("有 %d 条滞销记录，最久的是 %s，已 %d 天未动。", len(items), items[0].ID, items[0].DaysSince)
	}

	if containsAny(q, "value", "worth", "价值", "总值") {
		v := e.Valuation(ctx)
		return fmt.Sprintf("当前库存总价值约 %.2f。", v.Total)
	}

	if containsAny(q, "forecast", "predict", "demand", "预测", "销量") {
		id := idToken.FindString(q)
		if id == "" {
			return "请在问题中带上要预测的编号，例如：需求预测 SL-0001。"
		}
		f := e.Forecast(ctx, id, 30, e.lookback)
		return fmt.Sprintf("%s 近 %d 天出货 %.0f 件，预计未来 30 天约 %d 件。", id, e.lookback, f.TotalQty, f.Predicted)
	}

	// 总览只响应明确的词，避免把所有未命中问题都落到重聚合上
	if containsAny(q, "inventory", "summary", "visibility", "stock", "总览", "库存情况", "分布") {
		v := e.Visibility(ctx)
		return fmt.Sprintf("库存共 %.0f 件，分布在 %d 个堆场，总价值约 %.2f。", v.TotalUnits, len(v.ByYard), v.TotalValue)
	}

	return fallbackReply
}
