package container

import (
	"fmt"
	"time"

	"github.com/ticney/archi-planning/internal/auth"
	"github.com/ticney/archi-planning/internal/config"
	"github.com/ticney/archi-planning/internal/database"
	"github.com/ticney/archi-planning/internal/repository"
	"github.com/ticney/archi-planning/internal/service"
	"github.com/ticney/archi-planning/internal/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 管理所有应用依赖,包括数据库、服务、实时推送等
type Container struct {
	db                *gorm.DB
	logger            *logrus.Logger
	hub               *websocket.Hub
	keycloakValidator *auth.KeycloakTokenValidator
	catalogService    service.CatalogService
	checklistService  service.ChecklistService
	auditLogService   service.AuditLogService
	requestService    service.RequestService
	bookingService    service.BookingService
	agendaService     service.AgendaService
	queryService      service.QueryService
	adminService      service.AdminService
}

// NewContainer 创建依赖注入容器
// 根据配置初始化所有依赖组件
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	// 1. 初始化数据库（带重试机制）
	// 默认重试 3 次，初始间隔 1 秒，指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// 执行数据库迁移
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return NewContainerWithDB(cfg, logger, db), nil
}

// NewContainerWithDB 基于已有数据库连接组装容器
// 集成测试用 sqlite 内存库时走这条路径
func NewContainerWithDB(cfg *config.Config, logger *logrus.Logger, db *gorm.DB) *Container {
	// 仓储层
	requestRepo := repository.NewRequestRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	requirementRepo := repository.NewRequirementRepository(db)
	userRoleRepo := repository.NewUserRoleRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// 实时推送
	hub := websocket.NewHub()

	// 服务层
	catalogService := service.NewCatalogService(requirementRepo)
	checklistService := service.NewChecklistService(catalogService)
	auditLogService := service.NewAuditLogService(auditLogRepo)
	notifier := service.NewLogNotifier(logger)
	requestService := service.NewRequestService(
		db, requestRepo, attachmentRepo,
		checklistService, catalogService, auditLogService, notifier, logger,
	)
	bookingService := service.NewBookingService(
		db, requestRepo, userRoleRepo,
		catalogService, auditLogService, notifier, hub, logger,
	)
	agendaService := service.NewAgendaService(bookingService)
	queryService := service.NewQueryService(requestRepo, attachmentRepo, checklistService)
	adminService := service.NewAdminService(userRoleRepo, auditLogService)

	// Keycloak Token 验证器
	keycloakValidator := auth.NewKeycloakTokenValidator(cfg.Keycloak.Issuer)

	return &Container{
		db:                db,
		logger:            logger,
		hub:               hub,
		keycloakValidator: keycloakValidator,
		catalogService:    catalogService,
		checklistService:  checklistService,
		auditLogService:   auditLogService,
		requestService:    requestService,
		bookingService:    bookingService,
		agendaService:     agendaService,
		queryService:      queryService,
		adminService:      adminService,
	}
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Hub 获取 WebSocket Hub
func (c *Container) Hub() *websocket.Hub {
	return c.hub
}

// KeycloakValidator 获取 Keycloak Token 验证器
func (c *Container) KeycloakValidator() *auth.KeycloakTokenValidator {
	return c.keycloakValidator
}

// CatalogService 获取议题目录服务
func (c *Container) CatalogService() service.CatalogService {
	return c.catalogService
}

// ChecklistService 获取证明清单评估服务
func (c *Container) ChecklistService() service.ChecklistService {
	return c.checklistService
}

// AuditLogService 获取审计日志服务
func (c *Container) AuditLogService() service.AuditLogService {
	return c.auditLogService
}

// RequestService 获取治理请求服务
func (c *Container) RequestService() service.RequestService {
	return c.requestService
}

// BookingService 获取预订引擎服务
func (c *Container) BookingService() service.BookingService {
	return c.bookingService
}

// AgendaService 获取议程导出服务
func (c *Container) AgendaService() service.AgendaService {
	return c.agendaService
}

// QueryService 获取查询服务
func (c *Container) QueryService() service.QueryService {
	return c.queryService
}

// AdminService 获取管理服务
func (c *Container) AdminService() service.AdminService {
	return c.adminService
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	return nil
}
