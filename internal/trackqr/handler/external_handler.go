package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/service"
)

// ExternalHandler 外部系统接口，X-API-Key 认证
type ExternalHandler struct {
	svc *service.SyncService
}

func NewExternalHandler(svc *service.SyncService) *ExternalHandler {
	return &ExternalHandler{svc: svc}
}

// IRCEPT 线路管理系统
// POST /api/external/ircept
func (h *ExternalHandler) IRCEPT(c *gin.Context) {
	var req service.ExternalRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.HandleIRCEPT(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondExternal(c, result)
}

// IREPS 电子采购系统
// POST /api/external/ireps
func (h *ExternalHandler) IREPS(c *gin.Context) {
	var req service.ExternalRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.HandleIREPS(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondExternal(c, result)
}

func respondExternal(c *gin.Context, result *service.ExternalResult) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    result.Data,
		Message: result.Message,
		Count:   result.Count,
	})
}
