package insight

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bitfantasy/quarry-erp/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Engine 推荐/分析引擎。全部操作为纯读取，可与写入并发执行，
// 代价是聚合结果可能轻微滞后。
type Engine struct {
	src      Source
	rdb      *redis.Client // 可为nil，降级为直接计算
	cacheTTL time.Duration
	lookback int
	slowDays int
	logger   *zap.Logger
	now      func() time.Time
}

func NewEngine(src Source, rdb *redis.Client, cfg config.InsightConfig, logger *zap.Logger) *Engine {
	lookback := cfg.LookbackDays
	if lookback <= 0 {
		lookback = 90
	}
	slowDays := cfg.SlowMovingDays
	if slowDays <= 0 {
		slowDays = 90
	}
	return &Engine{
		src:      src,
		rdb:      rdb,
		cacheTTL: cfg.CacheTTL,
		lookback: lookback,
		slowDays: slowDays,
		logger:   logger,
		now:      time.Now,
	}
}

func (e *Engine) stocks(ctx context.Context) []StockRecord {
	raw := e.src.List(ctx, "slabs")
	records := make([]StockRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, normalizeStock(r))
	}
	return records
}

func (e *Engine) dispatches(ctx context.Context) []DispatchRecord {
	raw := e.src.List(ctx, "dispatches")
	records := make([]DispatchRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, normalizeDispatch(r))
	}
	return records
}

// cachedReport 读穿缓存：redis不可用或未命中时直接计算。
// 缓存层的任何错误只降级，不向调用方暴露。
func cachedReport[T any](ctx context.Context, e *Engine, key string, compute func() *T) *T {
	if e.rdb != nil && e.cacheTTL > 0 {
		if cached, err := e.rdb.Get(ctx, key).Result(); err == nil {
			var out T
			if err := json.Unmarshal([]byte(cached), &out); err == nil {
				return &out
			}
		}
	}
	report := compute()
	if e.rdb != nil && e.cacheTTL > 0 {
		if b, err := json.Marshal(report); err == nil {
			if err := e.rdb.Set(ctx, key, b, e.cacheTTL).Err(); err != nil && e.logger != nil {
				e.logger.Debug("报表缓存写入失败", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return report
}
