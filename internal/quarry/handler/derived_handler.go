package handler

import (
	"net/http"
	"strconv"

	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
	"github.com/bitfantasy/quarry-erp/internal/quarry/service"
	"github.com/gin-gonic/gin"
)

type DerivedHandler struct {
	svc *service.DerivedService
}

func NewDerivedHandler(svc *service.DerivedService) *DerivedHandler {
	return &DerivedHandler{svc: svc}
}

func (h *DerivedHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.DerivedListParams{
		ItemType: c.Param("type"),
		BlockID:  c.Query("block_id"),
		SLID:     c.Query("slid"),
		Yard:     c.Query("yard"),
		Status:   c.Query("status"),
		QCStatus: c.Query("qc_status"),
		Page:     page,
		Size:     size,
	}
	items, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"items": items, "total": total, "page": page, "size": size})
}

func (h *DerivedHandler) Create(c *gin.Context) {
	var input service.CreateDerivedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	item, err := h.svc.Create(c.Request.Context(), c.Param("type"), &input, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, item)
}

func (h *DerivedHandler) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("type"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, item)
}

func (h *DerivedHandler) Update(c *gin.Context) {
	var input service.UpdateDerivedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	item, err := h.svc.Update(c.Request.Context(), c.Param("type"), c.Param("id"), &input, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, item)
}

func (h *DerivedHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("type"), c.Param("id"), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
