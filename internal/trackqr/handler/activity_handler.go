package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/service"
)

type ActivityHandler struct {
	svc *service.ActivityService
}

func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

// List 审计日志
// GET /api/activity?action=&qr_code_id=&user_id=&limit=
func (h *ActivityHandler) List(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	items, err := h.svc.ListActivity(c.Request.Context(), GetSession(c), limit, queryFilters(c, "action", "qr_code_id", "user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	List(c, items, len(items))
}
