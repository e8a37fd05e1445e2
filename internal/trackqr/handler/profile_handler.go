package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/service"
)

// ProfileHandler 个人档案与用户管理
type ProfileHandler struct {
	svc *service.ProfileService
}

func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Me 当前用户档案
// GET /api/profile
func (h *ProfileHandler) Me(c *gin.Context) {
	profile, err := h.svc.GetMe(c.Request.Context(), GetSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, profile)
}

// Register 首次登录建档
// POST /api/profile
func (h *ProfileHandler) Register(c *gin.Context) {
	var req service.RegisterProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.svc.RegisterSelf(c.Request.Context(), GetSession(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, profile, "Profile created, awaiting approval")
}

// ListUsers 用户列表
// GET /api/admin/users?role=&status=&limit=
func (h *ProfileHandler) ListUsers(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	users, err := h.svc.ListUsers(c.Request.Context(), GetSession(c), limit, queryFilters(c, "role", "status"))
	if err != nil {
		respondError(c, err)
		return
	}
	List(c, users, len(users))
}

// UpdateRole 修改角色
// PUT /api/admin/users/:id/role
func (h *ProfileHandler) UpdateRole(c *gin.Context) {
	var req struct {
		Role string `json:"role"`
	}
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.svc.SetRole(c.Request.Context(), GetSession(c), c.Param("id"), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessMessage(c, profile, "User role updated successfully")
}

// UpdateStatus 审核或停用账号
// PUT /api/admin/users/:id/status
func (h *ProfileHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.svc.SetStatus(c.Request.Context(), GetSession(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessMessage(c, profile, "User status updated successfully")
}
