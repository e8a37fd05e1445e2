package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/service"
)

// ExportHandler 台账导出
type ExportHandler struct {
	svc *service.ExportService
}

func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Export 导出二维码台账 xlsx
// GET /api/qr-codes/export?status=&zone=&division=&section=
func (h *ExportHandler) Export(c *gin.Context) {
	file, err := h.svc.ExportQRCodes(c.Request.Context(), GetSession(c), queryFilters(c, "status", "zone", "division", "section"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, service.XLSXContentType, file.Content)
}
