package insight

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler 推荐引擎HTTP处理器。全部为只读报表端点，
// 错误只会来自参数校验，数据质量问题在引擎内部降级。
type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes 注册分析报表路由
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	insight := api.Group("/insight")
	{
		insight.GET("/visibility", h.Visibility)
		insight.GET("/visibility/export", h.ExportVisibility)
		insight.GET("/valuation", h.Valuation)
		insight.GET("/forecast", h.Forecast)
		insight.GET("/reorder", h.Reorder)
		insight.GET("/low-stock", h.LowStock)
		insight.GET("/slow-moving", h.SlowMoving)
		insight.GET("/yard-balance", h.YardBalance)
		insight.POST("/ask", h.Ask)
	}
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": data})
}

// Visibility GET /insight/visibility
func (h *Handler) Visibility(c *gin.Context) {
	ok(c, h.engine.Visibility(c.Request.Context()))
}

// ExportVisibility GET /insight/visibility/export
func (h *Handler) ExportVisibility(c *gin.Context) {
	f, filename, err := h.engine.VisibilityXLSX(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": "write excel: " + err.Error()})
	}
}

// Valuation GET /insight/valuation
func (h *Handler) Valuation(c *gin.Context) {
	ok(c, h.engine.Valuation(c.Request.Context()))
}

// Forecast GET /insight/forecast?item_id=SL-0001&days=30&lookback_days=90
func (h *Handler) Forecast(c *gin.Context) {
	itemID := c.Query("item_id")
	if itemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "item_id不能为空"})
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	lookback, _ := strconv.Atoi(c.DefaultQuery("lookback_days", "0"))
	ok(c, h.engine.Forecast(c.Request.Context(), itemID, days, lookback))
}

// Reorder GET /insight/reorder?lookback_days=90
func (h *Handler) Reorder(c *gin.Context) {
	lookback, _ := strconv.Atoi(c.DefaultQuery("lookback_days", "0"))
	ok(c, h.engine.Reorder(c.Request.Context(), lookback))
}

// LowStock GET /insight/low-stock
func (h *Handler) LowStock(c *gin.Context) {
	ok(c, h.engine.LowStock(c.Request.Context()))
}

// SlowMoving GET /insight/slow-moving?threshold_days=90
func (h *Handler) SlowMoving(c *gin.Context) {
	threshold, _ := strconv.Atoi(c.DefaultQuery("threshold_days", "0"))
	ok(c, h.engine.SlowMoving(c.Request.Context(), threshold))
}

// YardBalance GET /insight/yard-balance
func (h *Handler) YardBalance(c *gin.Context) {
	ok(c, h.engine.YardBalanceView(c.Request.Context()))
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

// Ask POST /insight/ask —— 聊天式问答入口
func (h *Handler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "question不能为空"})
		return
	}
	ok(c, gin.H{"answer": h.engine.AnswerQuestion(c.Request.Context(), req.Question)})
}
