package handler

import (
	"net/http"
	"strconv"

	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
	"github.com/bitfantasy/quarry-erp/internal/quarry/service"
	"github.com/gin-gonic/gin"
)

type LotHandler struct {
	svc *service.LotService
}

func NewLotHandler(svc *service.LotService) *LotHandler {
	return &LotHandler{svc: svc}
}

func (h *LotHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.LotListParams{
		SupplierID:  c.Query("supplier_id"),
		StoneFamily: c.Query("stone_family"),
		Keyword:     c.Query("keyword"),
		Page:        page,
		Size:        size,
	}
	lots, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"items": lots, "total": total, "page": page, "size": size})
}

func (h *LotHandler) Create(c *gin.Context) {
	var input service.CreateLotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	lot, err := h.svc.Create(c.Request.Context(), &input, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, lot)
}

func (h *LotHandler) Get(c *gin.Context) {
	lot, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, lot)
}

func (h *LotHandler) Update(c *gin.Context) {
	var input service.UpdateLotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	lot, err := h.svc.Update(c.Request.Context(), c.Param("id"), &input, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, lot)
}

func (h *LotHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *LotHandler) GenerateBlocks(c *gin.Context) {
	blocks, err := h.svc.GenerateBlocks(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"created": len(blocks), "blocks": blocks})
}
