package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/service"
)

type AnalyticsHandler struct {
	svc *service.AnalyticsService
}

func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Get 看板统计
// GET /api/analytics?zone=&division=&date_from=&date_to=
func (h *AnalyticsHandler) Get(c *gin.Context) {
	dates, err := service.ParseDateRange(c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		respondError(c, err)
		return
	}

	filter := repository.StatsFilter{
		Zone:     c.Query("zone"),
		Division: c.Query("division"),
		Dates:    dates,
	}
	result, err := h.svc.GetAnalytics(c.Request.Context(), GetSession(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, result)
}
