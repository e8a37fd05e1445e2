package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/service"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/sse"
)

// Handlers 处理器集合
type Handlers struct {
	QRCode      *QRCodeHandler
	Scan        *ScanHandler
	Inspection  *InspectionHandler
	Maintenance *MaintenanceHandler
	Analytics   *AnalyticsHandler
	Health      *HealthHandler
	Fitting     *FittingHandler
	Profile     *ProfileHandler
	Activity    *ActivityHandler
	SSE         *SSEHandler
	External    *ExternalHandler
	Export      *ExportHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services, hub *sse.Hub) *Handlers {
	return &Handlers{
		QRCode:      NewQRCodeHandler(svc.QRCode),
		Scan:        NewScanHandler(svc.Scan),
		Inspection:  NewInspectionHandler(svc.Inspection),
		Maintenance: NewMaintenanceHandler(svc.Maintenance),
		Analytics:   NewAnalyticsHandler(svc.Analytics),
		Health:      NewHealthHandler(svc.Health),
		Fitting:     NewFittingHandler(svc.Fitting),
		Profile:     NewProfileHandler(svc.Profile),
		Activity:    NewActivityHandler(svc.Activity),
		SSE:         NewSSEHandler(hub),
		External:    NewExternalHandler(svc.Sync),
		Export:      NewExportHandler(svc.Export),
	}
}

// Response 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// SuccessMessage 成功响应并附带提示
func SuccessMessage(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Message: message})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data, Message: message})
}

// List 列表响应，count 为本次返回条数
func List(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Count: &count})
}

// Error 错误响应
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Error: message})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden 禁止访问响应
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict 冲突响应
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// respondError 把服务层错误映射为 HTTP 状态码
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var validationErr *service.ValidationError
	var notFoundErr *service.NotFoundError
	var storeErr *repository.StoreError

	switch {
	case errors.As(err, &validationErr):
		BadRequest(c, validationErr.Message)
	case errors.As(err, &notFoundErr):
		NotFound(c, notFoundErr.Message)
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, "Not found")
	case errors.Is(err, service.ErrForbidden):
		Forbidden(c, "Insufficient permissions")
	case errors.Is(err, service.ErrDuplicateCode):
		Conflict(c, "Could not generate a unique QR code, please retry")
	case errors.Is(err, service.ErrConflict), errors.Is(err, repository.ErrDuplicate):
		Conflict(c, "Record already exists")
	case errors.As(err, &storeErr):
		InternalError(c, storeErr.Error())
	default:
		InternalError(c, "Internal server error")
	}
}

// bindJSON 请求体解析失败时返回 400
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// GetSession 从上下文获取会话，由 LoadSession 写入
func GetSession(c *gin.Context) *service.Session {
	if v, ok := c.Get("session"); ok {
		if s, ok := v.(*service.Session); ok {
			return s
		}
	}
	return &service.Session{UserID: GetUserID(c)}
}

// LoadSession 根据已认证身份加载档案与角色
func LoadSession(sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == "" {
			Unauthorized(c, "Unauthorized")
			return
		}
		session, err := sessions.Load(c.Request.Context(), userID, c.GetString("user_name"), c.GetString("user_email"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set("session", session)
		c.Set("role", session.Role)
		c.Next()
	}
}

// queryLimit 解析 limit，缺省返回 0 由仓库取默认值
func queryLimit(c *gin.Context) (int, bool) {
	return queryInt(c, "limit")
}

func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		BadRequest(c, "Invalid "+name+": "+raw)
		return 0, false
	}
	return v, true
}

// queryFilters 收集非空查询参数
func queryFilters(c *gin.Context, names ...string) map[string]string {
	filters := make(map[string]string, len(names))
	for _, name := range names {
		if v := c.Query(name); v != "" {
			filters[name] = v
		}
	}
	return filters
}
