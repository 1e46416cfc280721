package handler

import (
	"net/http"
	"strconv"

	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
	"github.com/bitfantasy/quarry-erp/internal/quarry/service"
	"github.com/gin-gonic/gin"
)

type BlockHandler struct {
	svc *service.BlockService
}

func NewBlockHandler(svc *service.BlockService) *BlockHandler {
	return &BlockHandler{svc: svc}
}

func (h *BlockHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.BlockListParams{
		ParentQBID: c.Query("parent_qbid"),
		Yard:       c.Query("yard"),
		Status:     c.Query("status"),
		Keyword:    c.Query("keyword"),
		Page:       page,
		Size:       size,
	}
	blocks, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"items": blocks, "total": total, "page": page, "size": size})
}

func (h *BlockHandler) Create(c *gin.Context) {
	var input service.CreateBlockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	block, err := h.svc.Create(c.Request.Context(), &input, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, block)
}

func (h *BlockHandler) Get(c *gin.Context) {
	block, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, block)
}

func (h *BlockHandler) Update(c *gin.Context) {
	var input service.UpdateBlockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	block, err := h.svc.Update(c.Request.Context(), c.Param("id"), &input, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, block)
}

func (h *BlockHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
