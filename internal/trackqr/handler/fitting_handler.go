package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/service"
)

// FittingHandler 扣件目录
type FittingHandler struct {
	svc *service.FittingService
}

func NewFittingHandler(svc *service.FittingService) *FittingHandler {
	return &FittingHandler{svc: svc}
}

// List 目录查询
// GET /api/fittings?q=&manufacturer=&limit=
func (h *FittingHandler) List(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	items, err := h.svc.ListFittings(c.Request.Context(), limit, queryFilters(c, "q", "manufacturer"))
	if err != nil {
		respondError(c, err)
		return
	}
	List(c, items, len(items))
}

// Upsert 手工录入或更新目录条目
// POST /api/fittings
func (h *FittingHandler) Upsert(c *gin.Context) {
	var req service.FittingInput
	if !bindJSON(c, &req) {
		return
	}
	fitting, err := h.svc.UpsertFitting(c.Request.Context(), &req, GetUserID(c), "manual")
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessMessage(c, fitting, "Track fitting saved successfully")
}
