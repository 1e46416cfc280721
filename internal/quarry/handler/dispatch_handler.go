package handler

import (
	"net/http"
	"strconv"

	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
	"github.com/bitfantasy/quarry-erp/internal/quarry/service"
	"github.com/gin-gonic/gin"
)

type DispatchHandler struct {
	svc *service.DispatchService
}

func NewDispatchHandler(svc *service.DispatchService) *DispatchHandler {
	return &DispatchHandler{svc: svc}
}

func (h *DispatchHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.DispatchListParams{
		Customer: c.Query("customer"),
		SLID:     c.Query("slid"),
		ItemType: c.Query("item_type"),
		Page:     page,
		Size:     size,
	}
	dispatches, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"items": dispatches, "total": total, "page": page, "size": size})
}

func (h *DispatchHandler) Create(c *gin.Context) {
	var input service.CreateDispatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	d, err := h.svc.Create(c.Request.Context(), &input, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, d)
}

func (h *DispatchHandler) Get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, d)
}

func (h *DispatchHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
