package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mrbharat03/Indian-Railway/internal/middleware"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/service"
)

// RouteConfig 路由所需的密钥
type RouteConfig struct {
	JWTSecret    string
	IRCEPTAPIKey string
	IREPSAPIKey  string
}

// RegisterRoutes 注册 /api 下全部业务路由
func RegisterRoutes(r gin.IRouter, h *Handlers, sessions *service.SessionService, cfg RouteConfig) {
	api := r.Group("/api")

	// 公开
	api.GET("/health", h.Health.Check)

	// 外部系统（共享密钥）
	external := api.Group("/external")
	{
		external.POST("/ircept", middleware.APIKey(cfg.IRCEPTAPIKey), h.External.IRCEPT)
		external.POST("/ireps", middleware.APIKey(cfg.IREPSAPIKey), h.External.IREPS)
	}

	// 需要登录
	authed := api.Group("")
	authed.Use(middleware.JWTAuth(cfg.JWTSecret), LoadSession(sessions))

	manage := middleware.RequireRole(entity.RoleAdmin, entity.RoleSupervisor)
	admin := middleware.RequireRole(entity.RoleAdmin)

	qr := authed.Group("/qr-codes")
	{
		qr.GET("", h.QRCode.List)
		qr.POST("", manage, h.QRCode.Create)
		qr.GET("/export", manage, h.Export.Export)
		qr.POST("/scan", h.Scan.Scan)
		qr.GET("/:id", h.QRCode.Get)
		qr.PUT("/:id", manage, h.QRCode.Update)
	}

	authed.GET("/inspections", h.Inspection.List)
	authed.POST("/inspections", h.Inspection.Create)
	authed.GET("/maintenance", h.Maintenance.List)
	authed.POST("/maintenance", h.Maintenance.Create)

	authed.GET("/analytics", manage, h.Analytics.Get)

	authed.GET("/fittings", h.Fitting.List)
	authed.POST("/fittings", manage, h.Fitting.Upsert)

	authed.GET("/profile", h.Profile.Me)
	authed.POST("/profile", h.Profile.Register)

	users := authed.Group("/admin/users", admin)
	{
		users.GET("", h.Profile.ListUsers)
		users.PUT("/:id/role", h.Profile.UpdateRole)
		users.PUT("/:id/status", h.Profile.UpdateStatus)
	}

	activity := authed.Group("/activity", manage)
	{
		activity.GET("", h.Activity.List)
		activity.GET("/stream", h.SSE.Stream)
	}
}
