package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/ticney/archi-planning/internal/metrics"
	"github.com/ticney/archi-planning/internal/model"
	"github.com/ticney/archi-planning/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// minRejectionReasonLen 驳回原因最小长度
const minRejectionReasonLen = 10

// RequestService 治理请求生命周期服务接口
// 状态机: draft → pending_review → validated → tentative → confirmed
// 驳回为 pending_review → draft 并携带原因
type RequestService interface {
	Create(ctx context.Context, req *CreateRequestInput) (*model.GovernanceRequestModel, error)
	Get(ctx context.Context, id string) (*model.GovernanceRequestModel, error)
	SetTopic(ctx context.Context, id string, topic string) (*model.GovernanceRequestModel, error)
	RecordAttachment(ctx context.Context, input *RecordAttachmentInput) (*model.AttachmentModel, error)
	DeleteAttachment(ctx context.Context, attachmentID string) error
	Attachments(ctx context.Context, id string) ([]*model.AttachmentModel, error)
	MissingProofs(ctx context.Context, id string) ([]string, error)
	Submit(ctx context.Context, id string) error
	Validate(ctx context.Context, id string, reviewerID string) error
	Reject(ctx context.Context, id string, reviewerID string, reason string) error
}

// CreateRequestInput 创建治理请求的参数
// @Description 创建治理请求的请求参数
type CreateRequestInput struct {
	Title       string `json:"title" example:"NextGen Platform" binding:"required,max=100"` // 请求标题
	ProjectCode string `json:"project_code" example:"PX-1" binding:"required,max=20"` // 项目编码
	Description string `json:"description" example:"Platform re-architecture review"` // 描述(可选)
	RequesterID string `json:"-"` // 申请人 ID,取自认证上下文
}

// RecordAttachmentInput 登记附件的参数
// @Description 登记证明文件附件的请求参数
type RecordAttachmentInput struct {
	RequestID      string `json:"-"`
	ProofKind      string `json:"proof_kind" example:"dat_sheet" binding:"required"` // 证明类型
	StorageLocator string `json:"storage_locator" example:"uploads/px-1/dat.pdf" binding:"required"` // 存储定位符
	Filename       string `json:"filename" example:"dat.pdf"` // 原始文件名
	UploaderID     string `json:"-"` // 上传人 ID,取自认证上下文
}

// requestService 治理请求生命周期服务实现
type requestService struct {
	db             *gorm.DB
	requestRepo    repository.RequestRepository
	attachmentRepo repository.AttachmentRepository
	checklist      ChecklistService
	catalog        CatalogService
	auditLogSvc    AuditLogService
	notifier       Notifier
	logger         *logrus.Logger
}

// NewRequestService 创建治理请求生命周期服务
func NewRequestService(
	db *gorm.DB,
	requestRepo repository.RequestRepository,
	attachmentRepo repository.AttachmentRepository,
	checklist ChecklistService,
	catalog CatalogService,
	auditLogSvc AuditLogService,
	notifier Notifier,
	logger *logrus.Logger,
) RequestService {
	return &requestService{
		db:             db,
		requestRepo:    requestRepo,
		attachmentRepo: attachmentRepo,
		checklist:      checklist,
		catalog:        catalog,
		auditLogSvc:    auditLogSvc,
		notifier:       notifier,
		logger:         logger,
	}
}

// Create 创建治理请求,初始状态为 draft
func (s *requestService) Create(ctx context.Context, input *CreateRequestInput) (*model.GovernanceRequestModel, error) {
	now := time.Now()
	req := &model.GovernanceRequestModel{
		ID:          uuid.New().String(),
		Title:       input.Title,
		ProjectCode: input.ProjectCode,
		Description: input.Description,
		Status:      model.StatusDraft,
		CreatedBy:   input.RequesterID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(req); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	metrics.RecordRequestCreated()
	s.audit(ctx, "create", req.ID, map[string]string{"title": req.Title, "project_code": req.ProjectCode})

	return req, nil
}

// Get 获取治理请求详情
func (s *requestService) Get(ctx context.Context, id string) (*model.GovernanceRequestModel, error) {
	req, err := s.requestRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

// SetTopic 为草稿请求选定议题
// 选题时固化必交证明清单与评审时长;请求离开 draft 后快照不再变更
func (s *requestService) SetTopic(ctx context.Context, id string, topic string) (*model.GovernanceRequestModel, error) {
	proofs, duration, err := s.catalog.RequirementsForTopic(topic)
	if err != nil {
		return nil, err
	}

	var updated *model.GovernanceRequestModel
	err = s.db.Transaction(func(tx *gorm.DB) error {
		req, err := lockRequest(tx, id)
		if err != nil {
			return err
		}
		// 写前复核持久化状态,不信任调用方
		if req.Status != model.StatusDraft {
			return ErrInvalidState
		}

		req.Topic = topic
		req.EstimatedDuration = duration
		if err := req.SetSnapshot(proofs); err != nil {
			return err
		}
		req.UpdatedAt = time.Now()

		if err := tx.Save(req).Error; err != nil {
			return fmt.Errorf("failed to set topic: %w", err)
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, "set_topic", id, map[string]interface{}{"topic": topic, "duration": duration, "snapshot": proofs})

	return updated, nil
}

// RecordAttachment 登记已上传的证明文件
// 仅草稿阶段可补充材料
func (s *requestService) RecordAttachment(ctx context.Context, input *RecordAttachmentInput) (*model.AttachmentModel, error) {
	req, err := s.Get(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}
	if req.Status != model.StatusDraft {
		return nil, ErrInvalidState
	}

	att := &model.AttachmentModel{
		ID:             uuid.New().String(),
		RequestID:      input.RequestID,
		ProofKind:      input.ProofKind,
		StorageLocator: input.StorageLocator,
		OriginalName:   input.Filename,
		UploadedBy:     input.UploaderID,
		UploadedAt:     time.Now(),
	}
	if err := att.Validate(); err != nil {
		return nil, err
	}
	if err := s.attachmentRepo.Save(att); err != nil {
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}

	s.audit(ctx, "record_attachment", att.ID, map[string]string{"request_id": input.RequestID, "proof_kind": input.ProofKind})

	return att, nil
}

// DeleteAttachment 删除附件
// 删除互不影响,其余附件保持不变
func (s *requestService) DeleteAttachment(ctx context.Context, attachmentID string) error {
	att, err := s.attachmentRepo.FindByID(attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return err
	}

	if err := s.attachmentRepo.Delete(attachmentID); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	s.audit(ctx, "delete_attachment", attachmentID, map[string]string{"request_id": att.RequestID, "proof_kind": att.ProofKind})

	return nil
}

// Attachments 获取治理请求的附件列表
func (s *requestService) Attachments(ctx context.Context, id string) ([]*model.AttachmentModel, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.attachmentRepo.FindByRequestID(id)
}

// MissingProofs 计算治理请求当前缺失的证明类型
func (s *requestService) MissingProofs(ctx context.Context, id string) ([]string, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	atts, err := s.attachmentRepo.FindByRequestID(id)
	if err != nil {
		return nil, err
	}
	return s.checklist.MissingProofsForRequest(req, atts)
}

// Submit 提交评审: draft → pending_review
// 清单未满足时返回 MissingDocumentsError,携带全部缺失类型
func (s *requestService) Submit(ctx context.Context, id string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		req, err := lockRequest(tx, id)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(model.StatusPendingReview) {
			return ErrInvalidState
		}

		// 清单复核必须与状态写入走同一事务连接
		var atts []*model.AttachmentModel
		if err := tx.Where("request_id = ?", id).
			Order("uploaded_at ASC").
			Find(&atts).Error; err != nil {
			return err
		}
		missing, err := s.checklist.MissingProofsForRequest(req, atts)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return &MissingDocumentsError{Kinds: missing}
		}

		now := time.Now()
		req.Status = model.StatusPendingReview
		req.SubmittedAt = &now
		req.UpdatedAt = now

		if err := tx.Save(req).Error; err != nil {
			return fmt.Errorf("failed to submit request: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordTransition("submit")
	s.audit(ctx, "submit", id, nil)

	return nil
}

// Validate 评审通过: pending_review → validated
func (s *requestService) Validate(ctx context.Context, id string, reviewerID string) error {
	var validated *model.GovernanceRequestModel
	err := s.db.Transaction(func(tx *gorm.DB) error {
		req, err := lockRequest(tx, id)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(model.StatusValidated) {
			return ErrInvalidState
		}

		now := time.Now()
		req.Status = model.StatusValidated
		req.ValidatedBy = reviewerID
		req.ValidatedAt = &now
		req.UpdatedAt = now

		if err := tx.Save(req).Error; err != nil {
			return fmt.Errorf("failed to validate request: %w", err)
		}
		validated = req
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordTransition("validate")
	s.audit(ctx, "validate", id, map[string]string{"reviewer_id": reviewerID})

	// 通知为尽力而为,失败不回滚状态
	if s.notifier != nil {
		if err := s.notifier.NotifyValidated(ctx, validated); err != nil {
			s.logger.WithError(err).WithField("request_id", id).Warn("validated notification failed")
		}
	}

	return nil
}

// Reject 驳回: pending_review → draft,记录驳回原因
// 原因不足 10 字符时无论当前状态一律拒绝
func (s *requestService) Reject(ctx context.Context, id string, reviewerID string, reason string) error {
	if len(strings.TrimSpace(reason)) < minRejectionReasonLen {
		return ErrInvalidReason
	}

	var rejected *model.GovernanceRequestModel
	err := s.db.Transaction(func(tx *gorm.DB) error {
		req, err := lockRequest(tx, id)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(model.StatusDraft) {
			return ErrInvalidState
		}

		// 仅回退状态并记录原因,快照保留作历史
		req.Status = model.StatusDraft
		req.RejectionReason = reason
		req.UpdatedAt = time.Now()

		if err := tx.Save(req).Error; err != nil {
			return fmt.Errorf("failed to reject request: %w", err)
		}
		rejected = req
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordTransition("reject")
	s.audit(ctx, "reject", id, map[string]string{"reviewer_id": reviewerID, "reason": reason})

	if s.notifier != nil {
		if err := s.notifier.NotifyRejected(ctx, rejected, reason); err != nil {
			s.logger.WithError(err).WithField("request_id", id).Warn("rejection notification failed")
		}
	}

	return nil
}

// audit 记录审计日志,失败仅告警
func (s *requestService) audit(ctx context.Context, action string, resourceID string, details interface{}) {
	if s.auditLogSvc == nil {
		return
	}
	userID := getUserIDFromContext(ctx)
	if userID == "" {
		return
	}
	resourceType := "request"
	if action == "record_attachment" || action == "delete_attachment" {
		resourceType = "attachment"
	}
	if err := s.auditLogSvc.RecordAction(ctx, userID, action, resourceType, resourceID, details); err != nil {
		s.logger.WithError(err).WithField("action", action).Warn("failed to record audit log")
	}
}

// lockRequest 在事务内加行锁读取治理请求
// 所有状态迁移写前都经由此复核,两个并发迁移至多一个成功
func lockRequest(tx *gorm.DB, id string) (*model.GovernanceRequestModel, error) {
	var req model.GovernanceRequestModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}
