package api

import (
	"github.com/gin-gonic/gin"
	"github.com/ticney/archi-planning/internal/auth"
	"github.com/ticney/archi-planning/internal/config"
	"github.com/ticney/archi-planning/internal/model"
	"github.com/ticney/archi-planning/internal/service"
	"github.com/ticney/archi-planning/internal/websocket"
	"gorm.io/gorm"
)

// RouterDeps 路由依赖
type RouterDeps struct {
	DB             *gorm.DB
	Config         *config.Config
	Validator      *auth.KeycloakTokenValidator
	Hub            *websocket.Hub
	RequestService service.RequestService
	QueryService   service.QueryService
	BookingService service.BookingService
	AgendaService  service.AgendaService
	CatalogService service.CatalogService
	AdminService   service.AdminService
}

// SetupRoutes 配置路由
func SetupRoutes(deps *RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// 中间件
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(SecurityHeadersMiddleware())
	if deps.Config != nil {
		router.Use(CORSMiddleware(deps.Config.CORS.AllowedOrigins))
		if deps.Config.Tracing.Enabled {
			router.Use(TracingMiddleware())
		}
	}
	router.Use(ErrorHandlerMiddleware())

	// 健康检查
	healthController := NewHealthController(deps.DB)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", MetricsHandler)

	// WebSocket 路由: 排期看板实时订阅预订事件
	if deps.Hub != nil && deps.Validator != nil {
		router.GET("/ws/board", websocket.WebSocketHandler(deps.Hub, deps.Validator))
	}

	requestController := NewRequestController(deps.RequestService, deps.QueryService)
	schedulingController := NewSchedulingController(deps.BookingService, deps.AgendaService)
	adminController := NewAdminController(deps.CatalogService, deps.AdminService)

	authMW := auth.KeycloakAuthMiddleware(deps.Validator)
	reviewerOnly := auth.RequireRole(deps.AdminService, model.RoleReviewer, model.RoleAdmin)
	organizerOnly := auth.RequireRole(deps.AdminService, model.RoleOrganizer, model.RoleAdmin)
	adminOnly := auth.RequireRole(deps.AdminService, model.RoleAdmin)

	// API v1 路由组
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(100, 200))
	v1.Use(authMW)
	{
		// 治理请求路由
		requests := v1.Group("/requests")
		{
			requests.POST("", requestController.Create)
			requests.GET("/mine", requestController.MyRequests)
			requests.GET("/pending-review", reviewerOnly, requestController.PendingReview)
			requests.GET("/:id", requestController.Get)
			requests.PUT("/:id/topic", requestController.SetTopic)
			requests.GET("/:id/attachments", requestController.Attachments)
			requests.POST("/:id/attachments", requestController.RecordAttachment)
			requests.DELETE("/:id/attachments/:attachment_id", requestController.DeleteAttachment)
			requests.GET("/:id/missing-proofs", requestController.MissingProofs)
			requests.POST("/:id/submit", requestController.Submit)
			requests.POST("/:id/validate", reviewerOnly, requestController.Validate)
			requests.POST("/:id/reject", reviewerOnly, requestController.Reject)
		}

		// 评审预订路由
		scheduling := v1.Group("/scheduling")
		{
			scheduling.GET("/slots", schedulingController.Slots)
			scheduling.GET("/schedule", schedulingController.Schedule)
			scheduling.GET("/agenda", schedulingController.Agenda)
			scheduling.POST("/requests/:id/book", schedulingController.Book)
			scheduling.POST("/requests/:id/confirm", organizerOnly, schedulingController.Confirm)
		}

		// 管理路由
		admin := v1.Group("/admin")
		admin.Use(adminOnly)
		{
			admin.GET("/topics", adminController.Topics)
			admin.GET("/topics/:topic/requirements", adminController.TopicRequirements)
			admin.POST("/topics/:topic/requirements", adminController.AddRequirement)
			admin.DELETE("/topics/:topic/requirements/:proof_kind", adminController.RemoveRequirement)
			admin.GET("/roles", adminController.ListRoles)
			admin.PUT("/roles/:user_id", adminController.UpdateRole)
		}
	}

	return router
}
