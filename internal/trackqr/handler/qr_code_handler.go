package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/service"
)

// QRCodeHandler 二维码登记与维护
type QRCodeHandler struct {
	svc *service.QRCodeService
}

func NewQRCodeHandler(svc *service.QRCodeService) *QRCodeHandler {
	return &QRCodeHandler{svc: svc}
}

// List 二维码列表
// GET /api/qr-codes?status=&zone=&division=&section=&limit=&offset=
func (h *QRCodeHandler) List(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		return
	}

	items, err := h.svc.ListQRCodes(c.Request.Context(), limit, offset, queryFilters(c, "status", "zone", "division", "section"))
	if err != nil {
		respondError(c, err)
		return
	}
	List(c, items, len(items))
}

// Get 二维码详情
// GET /api/qr-codes/:id
func (h *QRCodeHandler) Get(c *gin.Context) {
	qr, err := h.svc.GetQRCode(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, qr)
}

// Create 登记二维码
// POST /api/qr-codes
func (h *QRCodeHandler) Create(c *gin.Context) {
	var req service.RegisterQRCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	qr, err := h.svc.RegisterQRCode(c.Request.Context(), GetSession(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, qr, "QR code created successfully")
}

// Update 修改状态或位置
// PUT /api/qr-codes/:id
func (h *QRCodeHandler) Update(c *gin.Context) {
	var req service.UpdateQRCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	qr, err := h.svc.UpdateQRCode(c.Request.Context(), GetSession(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessMessage(c, qr, "QR code updated successfully")
}
