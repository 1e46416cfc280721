package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Source 实体存储读取接口。推荐引擎只读不写，
// 数据质量问题一律返回空序列而不是错误。
type Source interface {
	// List 返回指定集合的全部记录，集合名用规范复数（lots/blocks/slabs/...）
	List(ctx context.Context, collection string) []Record
}

// HTTPSource 经HTTP读取实体存储。对每个集合按固定顺序尝试
// 多种路径拼法（复数/单数/带版本/带命名空间），取第一个非空结果。
type HTTPSource struct {
	base       string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHTTPSource(base, token string, logger *zap.Logger) *HTTPSource {
	return &HTTPSource{
		base:  strings.TrimRight(base, "/"),
		token: token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// pathVariants 候选路径，顺序固定
func pathVariants(collection string) []string {
	singular := strings.TrimSuffix(collection, "s")
	if collection == "dispatches" {
		singular = "dispatch"
	}
	return []string{
		"/api/v1/" + collection,
		"/api/" + collection,
		"/api/" + singular,
		"/api/quarry/" + collection,
		"/" + collection,
	}
}

func (s *HTTPSource) List(ctx context.Context, collection string) []Record {
	for _, path := range pathVariants(collection) {
		records, err := s.fetch(ctx, path)
		if err != nil {
			if s.logger != nil {
				s.logger.Debug("端点读取失败", zap.String("path", path), zap.Error(err))
			}
			continue
		}
		if len(records) > 0 {
			return records
		}
	}
	return nil
}

func (s *HTTPSource) fetch(ctx context.Context, path string) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+path+"?size=10000", nil)
	if err != nil {
		return nil, err
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodeRecords(body)
}

// decodeRecords 容忍多种载荷形态，按固定顺序识别：
// 裸数组 → {"rows":[...]} → {"items":[...]} → {"data":...}（递归一层）
func decodeRecords(body []byte) ([]Record, error) {
	var asArray []Record
	if err := json.Unmarshal(body, &asArray); err == nil {
		return asArray, nil
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(body, &asObject); err != nil {
		return nil, fmt.Errorf("unrecognized payload: %w", err)
	}
	for _, key := range []string{"rows", "items"} {
		raw, ok := asObject[key]
		if !ok {
			continue
		}
		var records []Record
		if err := json.Unmarshal(raw, &records); err == nil {
			return records, nil
		}
	}
	if raw, ok := asObject["data"]; ok {
		return decodeRecords(raw)
	}
	return nil, fmt.Errorf("no record collection in payload")
}
