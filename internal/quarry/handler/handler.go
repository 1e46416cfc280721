package handler

import (
	"errors"
	"net/http"

	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
	"github.com/bitfantasy/quarry-erp/internal/quarry/service"
	"github.com/gin-gonic/gin"
)

// Handlers HTTP处理器集合
type Handlers struct {
	Supplier *SupplierHandler
	Lot      *LotHandler
	Block    *BlockHandler
	Slab     *SlabHandler
	Derived  *DerivedHandler
	Dispatch *DispatchHandler
	Event    *EventHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Supplier: NewSupplierHandler(services.Supplier),
		Lot:      NewLotHandler(services.Lot),
		Block:    NewBlockHandler(services.Block),
		Slab:     NewSlabHandler(services.Slab),
		Derived:  NewDerivedHandler(services.Derived),
		Dispatch: NewDispatchHandler(services.Dispatch),
		Event:    NewEventHandler(services.Event),
	}
}

// RegisterRoutes 注册库存相关路由
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup) {
	suppliers := api.Group("/suppliers")
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Delete)
	}

	lots := api.Group("/lots")
	{
		lots.GET("", h.Lot.List)
		lots.POST("", h.Lot.Create)
		lots.GET("/:id", h.Lot.Get)
		lots.PUT("/:id", h.Lot.Update)
		lots.DELETE("/:id", h.Lot.Delete)
		lots.POST("/:id/generate-blocks", h.Lot.GenerateBlocks)
	}

	blocks := api.Group("/blocks")
	{
		blocks.GET("", h.Block.List)
		blocks.POST("", h.Block.Create)
		blocks.GET("/:id", h.Block.Get)
		blocks.PUT("/:id", h.Block.Update)
		blocks.DELETE("/:id", h.Block.Delete)
	}

	slabs := api.Group("/slabs")
	{
		slabs.GET("", h.Slab.List)
		slabs.POST("", h.Slab.Create)
		slabs.GET("/:id", h.Slab.Get)
		slabs.PUT("/:id", h.Slab.Update)
		slabs.DELETE("/:id", h.Slab.Delete)
	}

	derived := api.Group("/derived/:type")
	{
		derived.GET("", h.Derived.List)
		derived.POST("", h.Derived.Create)
		derived.GET("/:id", h.Derived.Get)
		derived.PUT("/:id", h.Derived.Update)
		derived.DELETE("/:id", h.Derived.Delete)
	}

	dispatches := api.Group("/dispatches")
	{
		dispatches.GET("", h.Dispatch.List)
		dispatches.POST("", h.Dispatch.Create)
		dispatches.GET("/:id", h.Dispatch.Get)
		dispatches.DELETE("/:id", h.Dispatch.Delete)
	}

	api.GET("/events", h.Event.List)
}

// respondOK 统一成功响应
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": data})
}

// respondError 按错误分类映射HTTP状态与业务码
func respondError(c *gin.Context, err error) {
	var (
		validationErr  *service.ValidationError
		capacityErr    *service.CapacityExceededError
		lockedErr      *service.LockedEntityError
		reservationErr *service.ReservationConflictError
		childrenErr    *service.HasChildrenError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
	case errors.As(err, &lockedErr):
		c.JSON(http.StatusConflict, gin.H{"code": 10003, "message": err.Error()})
	case errors.As(err, &capacityErr):
		c.JSON(http.StatusConflict, gin.H{"code": 10004, "message": err.Error()})
	case errors.As(err, &reservationErr):
		c.JSON(http.StatusConflict, gin.H{"code": 10005, "message": err.Error()})
	case errors.As(err, &childrenErr):
		c.JSON(http.StatusConflict, gin.H{"code": 10006, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString("user_id")
}
