package service

import (
	"math"

	"github.com/ticney/archi-planning/internal/model"
)

// ChecklistService 证明清单评估服务接口
type ChecklistService interface {
	MissingProofs(required []string, attachments []*model.AttachmentModel) []string
	MissingProofsForRequest(req *model.GovernanceRequestModel, attachments []*model.AttachmentModel) ([]string, error)
	MaturityScore(required []string, attachments []*model.AttachmentModel) int
	MaturityScoreForRequest(req *model.GovernanceRequestModel, attachments []*model.AttachmentModel) (int, error)
}

// checklistService 证明清单评估服务实现
type checklistService struct {
	catalog CatalogService
}

// NewChecklistService 创建证明清单评估服务
func NewChecklistService(catalog CatalogService) ChecklistService {
	return &checklistService{catalog: catalog}
}

// MissingProofs 计算缺失的证明类型,保持 required 的顺序
// 同类型多个附件只计一次,不会过度满足
func (s *checklistService) MissingProofs(required []string, attachments []*model.AttachmentModel) []string {
	if len(required) == 0 {
		return []string{}
	}

	uploaded := make(map[string]bool, len(attachments))
	for _, att := range attachments {
		uploaded[att.ProofKind] = true
	}

	missing := []string{}
	for _, kind := range required {
		if !uploaded[kind] {
			missing = append(missing, kind)
		}
	}
	return missing
}

// MissingProofsForRequest 计算治理请求当前缺失的证明类型
// 优先使用选题时固化的快照;早于快照机制的历史请求回退为按议题实时解析
func (s *checklistService) MissingProofsForRequest(req *model.GovernanceRequestModel, attachments []*model.AttachmentModel) ([]string, error) {
	required, err := s.requiredFor(req)
	if err != nil {
		return nil, err
	}
	return s.MissingProofs(required, attachments), nil
}

// MaturityScore 计算成熟度评分(0-100)
// 未选题或清单为空时恒为 0: 未配置的请求不能显示为"100% 完成"
func (s *checklistService) MaturityScore(required []string, attachments []*model.AttachmentModel) int {
	if len(required) == 0 {
		return 0
	}
	missing := s.MissingProofs(required, attachments)
	satisfied := len(required) - len(missing)
	return int(math.Round(100 * float64(satisfied) / float64(len(required))))
}

// MaturityScoreForRequest 计算治理请求的成熟度评分
func (s *checklistService) MaturityScoreForRequest(req *model.GovernanceRequestModel, attachments []*model.AttachmentModel) (int, error) {
	required, err := s.requiredFor(req)
	if err != nil {
		return 0, err
	}
	return s.MaturityScore(required, attachments), nil
}

// requiredFor 解析治理请求的必交证明清单
func (s *checklistService) requiredFor(req *model.GovernanceRequestModel) ([]string, error) {
	kinds, err := req.SnapshotKinds()
	if err != nil {
		return nil, err
	}
	if kinds != nil {
		return kinds, nil
	}

	// 无快照的兼容路径
	if req.Topic == "" {
		return nil, nil
	}
	proofs, _, err := s.catalog.RequirementsForTopic(req.Topic)
	if err != nil {
		return nil, err
	}
	return proofs, nil
}
