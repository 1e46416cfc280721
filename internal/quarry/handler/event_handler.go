package handler

import (
	"strconv"

	"github.com/bitfantasy/quarry-erp/internal/quarry/service"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	svc *service.EventService
}

func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	events, total, err := h.svc.ListByRef(c.Request.Context(), c.Query("ref_type"), c.Query("ref_id"), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"items": events, "total": total, "page": page, "size": size})
}
