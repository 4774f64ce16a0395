package service

import (
	"context"

	"github.com/ticney/archi-planning/internal/model"
	"github.com/ticney/archi-planning/internal/repository"
)

// ReviewItem 评审工作台条目: 请求 + 当前成熟度评分
type ReviewItem struct {
	*model.GovernanceRequestModel
	MaturityScore int `json:"maturity_score"`
}

// QueryService 查询服务接口
// 面向工作台的只读投影,不做状态迁移
type QueryService interface {
	PendingReview(ctx context.Context) ([]ReviewItem, error)
	MyRequests(ctx context.Context, userID string) ([]*model.GovernanceRequestModel, error)
}

// queryService 查询服务实现
type queryService struct {
	requestRepo    repository.RequestRepository
	attachmentRepo repository.AttachmentRepository
	checklist      ChecklistService
}

// NewQueryService 创建查询服务
func NewQueryService(
	requestRepo repository.RequestRepository,
	attachmentRepo repository.AttachmentRepository,
	checklist ChecklistService,
) QueryService {
	return &queryService{
		requestRepo:    requestRepo,
		attachmentRepo: attachmentRepo,
		checklist:      checklist,
	}
}

// PendingReview 查询待评审请求及各自的成熟度评分
// 附件按请求批量拉取,避免逐条 N+1 查询
func (s *queryService) PendingReview(ctx context.Context) ([]ReviewItem, error) {
	reqs, err := s.requestRepo.FindByStatus(model.StatusPendingReview)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.ID)
	}
	attachments, err := s.attachmentRepo.FindByRequestIDs(ids)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewItem, 0, len(reqs))
	for _, req := range reqs {
		score, err := s.checklist.MaturityScoreForRequest(req, attachments[req.ID])
		if err != nil {
			return nil, err
		}
		items = append(items, ReviewItem{
			GovernanceRequestModel: req,
			MaturityScore:          score,
		})
	}
	return items, nil
}

// MyRequests 查询用户创建的全部请求
func (s *queryService) MyRequests(ctx context.Context, userID string) ([]*model.GovernanceRequestModel, error) {
	return s.requestRepo.FindByCreator(userID)
}
