package service_test

import (
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/ticney/archi-planning/internal/model"
	"github.com/ticney/archi-planning/internal/repository"
	"github.com/ticney/archi-planning/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv 服务层测试环境
type testEnv struct {
	db              *gorm.DB
	requestRepo     repository.RequestRepository
	attachmentRepo  repository.AttachmentRepository
	requirementRepo repository.RequirementRepository
	userRoleRepo    repository.UserRoleRepository
	catalog         service.CatalogService
	checklist       service.ChecklistService
	requestSvc      service.RequestService
	bookingSvc      service.BookingService
	agendaSvc       service.AgendaService
	querySvc        service.QueryService
	adminSvc        service.AdminService
}

// newTestEnv 创建内存数据库并组装全部服务
func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// 内存库的每个连接都是独立数据库,收紧连接池保证全部操作共用同一实例;
	// 并发事务在连接池层面串行化
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.GovernanceRequestModel{},
		&model.AttachmentModel{},
		&model.ProofRequirementModel{},
		&model.UserRoleModel{},
		&model.AuditLogModel{},
	)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	requestRepo := repository.NewRequestRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	requirementRepo := repository.NewRequirementRepository(db)
	userRoleRepo := repository.NewUserRoleRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	catalog := service.NewCatalogService(requirementRepo)
	checklist := service.NewChecklistService(catalog)
	auditLogSvc := service.NewAuditLogService(auditLogRepo)
	notifier := service.NewLogNotifier(logger)

	requestSvc := service.NewRequestService(
		db, requestRepo, attachmentRepo,
		checklist, catalog, auditLogSvc, notifier, logger,
	)
	bookingSvc := service.NewBookingService(
		db, requestRepo, userRoleRepo,
		catalog, auditLogSvc, notifier, nil, logger,
	)
	agendaSvc := service.NewAgendaService(bookingSvc)
	querySvc := service.NewQueryService(requestRepo, attachmentRepo, checklist)
	adminSvc := service.NewAdminService(userRoleRepo, auditLogSvc)

	return &testEnv{
		db:              db,
		requestRepo:     requestRepo,
		attachmentRepo:  attachmentRepo,
		requirementRepo: requirementRepo,
		userRoleRepo:    userRoleRepo,
		catalog:         catalog,
		checklist:       checklist,
		requestSvc:      requestSvc,
		bookingSvc:      bookingSvc,
		agendaSvc:       agendaSvc,
		querySvc:        querySvc,
		adminSvc:        adminSvc,
	}
}

// seedRequest 直接落库一条治理请求
func (e *testEnv) seedRequest(t *testing.T, status model.RequestStatus, topic string) *model.GovernanceRequestModel {
	now := time.Now()
	req := &model.GovernanceRequestModel{
		ID:          uuid.New().String(),
		Title:       "NextGen Platform",
		ProjectCode: "PX-1",
		Status:      status,
		Topic:       topic,
		CreatedBy:   "user-001",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if topic != "" {
		proofs, duration, err := e.catalog.RequirementsForTopic(topic)
		require.NoError(t, err)
		require.NoError(t, req.SetSnapshot(proofs))
		req.EstimatedDuration = duration
	}
	require.NoError(t, e.db.Create(req).Error)
	return req
}

// seedAttachment 直接落库一份附件
func (e *testEnv) seedAttachment(t *testing.T, requestID string, proofKind string) *model.AttachmentModel {
	att := &model.AttachmentModel{
		ID:             uuid.New().String(),
		RequestID:      requestID,
		ProofKind:      proofKind,
		StorageLocator: "uploads/" + requestID + "/" + proofKind + ".pdf",
		OriginalName:   proofKind + ".pdf",
		UploadedBy:     "user-001",
		UploadedAt:     time.Now(),
	}
	require.NoError(t, e.db.Create(att).Error)
	return att
}

// mustFriday 返回一个固定的周五 14:00 之前的本地时间(2026-01-09 为周五)
func mustFriday(hour, minute int) time.Time {
	return time.Date(2026, time.January, 9, hour, minute, 0, 0, time.Local)
}
