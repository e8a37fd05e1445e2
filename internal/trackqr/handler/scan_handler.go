package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/service"
)

// ScanHandler 扫码
type ScanHandler struct {
	svc *service.ScanService
}

func NewScanHandler(svc *service.ScanService) *ScanHandler {
	return &ScanHandler{svc: svc}
}

// Scan 扫码解析
// POST /api/qr-codes/scan
func (h *ScanHandler) Scan(c *gin.Context) {
	var req service.ScanRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Scan(c.Request.Context(), GetSession(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessMessage(c, result, "QR code scanned successfully")
}
