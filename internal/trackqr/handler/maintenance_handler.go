package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/service"
)

// MaintenanceHandler 维修记录
type MaintenanceHandler struct {
	svc *service.MaintenanceService
}

func NewMaintenanceHandler(svc *service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{svc: svc}
}

// List 维修列表
// GET /api/maintenance?status=&maintenance_type=&technician_id=&qr_code_id=&date_from=&date_to=&limit=
func (h *MaintenanceHandler) List(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	dates, err := service.ParseDateRange(c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		respondError(c, err)
		return
	}

	filters := queryFilters(c, "status", "maintenance_type", "technician_id", "qr_code_id")
	items, err := h.svc.ListMaintenance(c.Request.Context(), limit, filters, dates)
	if err != nil {
		respondError(c, err)
		return
	}
	List(c, items, len(items))
}

// Create 录入维修
// POST /api/maintenance
func (h *MaintenanceHandler) Create(c *gin.Context) {
	var req service.CreateMaintenanceRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.svc.CreateMaintenance(c.Request.Context(), GetSession(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, record, "Maintenance record created successfully")
}
