package handler

import (
	"net/http"
	"strconv"

	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
	"github.com/bitfantasy/quarry-erp/internal/quarry/service"
	"github.com/gin-gonic/gin"
)

type SlabHandler struct {
	svc *service.SlabService
}

func NewSlabHandler(svc *service.SlabService) *SlabHandler {
	return &SlabHandler{svc: svc}
}

func (h *SlabHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.SlabListParams{
		BlockID:   c.Query("block_id"),
		StoneType: c.Query("stone_type"),
		Yard:      c.Query("yard"),
		Status:    c.Query("status"),
		Page:      page,
		Size:      size,
	}
	slabs, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"items": slabs, "total": total, "page": page, "size": size})
}

func (h *SlabHandler) Create(c *gin.Context) {
	var input service.CreateSlabInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	slab, err := h.svc.Create(c.Request.Context(), &input, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, slab)
}

func (h *SlabHandler) Get(c *gin.Context) {
	slab, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, slab)
}

func (h *SlabHandler) Update(c *gin.Context) {
	var input service.UpdateSlabInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	slab, err := h.svc.Update(c.Request.Context(), c.Param("id"), &input, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, slab)
}

func (h *SlabHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
