package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/service"
)

// InspectionHandler 检验记录
type InspectionHandler struct {
	svc *service.InspectionService
}

func NewInspectionHandler(svc *service.InspectionService) *InspectionHandler {
	return &InspectionHandler{svc: svc}
}

// List 检验列表
// GET /api/inspections?status=&inspection_type=&inspector_id=&qr_code_id=&date_from=&date_to=&limit=
func (h *InspectionHandler) List(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	dates, err := service.ParseDateRange(c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		respondError(c, err)
		return
	}

	filters := queryFilters(c, "status", "inspection_type", "inspector_id", "qr_code_id")
	items, err := h.svc.ListInspections(c.Request.Context(), limit, filters, dates)
	if err != nil {
		respondError(c, err)
		return
	}
	List(c, items, len(items))
}

// Create 录入检验
// POST /api/inspections
func (h *InspectionHandler) Create(c *gin.Context) {
	var req service.CreateInspectionRequest
	if !bindJSON(c, &req) {
		return
	}

	inspection, err := h.svc.CreateInspection(c.Request.Context(), GetSession(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, inspection, "Inspection recorded successfully")
}
