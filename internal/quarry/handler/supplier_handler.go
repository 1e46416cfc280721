package handler

import (
	"net/http"
	"strconv"

	"github.com/bitfantasy/quarry-erp/internal/quarry/service"
	"github.com/gin-gonic/gin"
)

type SupplierHandler struct {
	svc *service.SupplierService
}

func NewSupplierHandler(svc *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

func (h *SupplierHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	suppliers, total, err := h.svc.List(c.Request.Context(), c.Query("keyword"), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"items": suppliers, "total": total, "page": page, "size": size})
}

func (h *SupplierHandler) Create(c *gin.Context) {
	var input service.CreateSupplierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	supplier, err := h.svc.Create(c.Request.Context(), &input, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, supplier)
}

func (h *SupplierHandler) Get(c *gin.Context) {
	supplier, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, supplier)
}

func (h *SupplierHandler) Update(c *gin.Context) {
	var input service.UpdateSupplierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	supplier, err := h.svc.Update(c.Request.Context(), c.Param("id"), &input, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, supplier)
}

func (h *SupplierHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
