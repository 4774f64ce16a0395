package repository

import (
	"github.com/ticney/archi-planning/internal/model"
	"gorm.io/gorm"
)

// AttachmentRepository 附件仓储接口
type AttachmentRepository interface {
	Save(att *model.AttachmentModel) error
	FindByID(id string) (*model.AttachmentModel, error)
	FindByRequestID(requestID string) ([]*model.AttachmentModel, error)
	FindByRequestIDs(requestIDs []string) (map[string][]*model.AttachmentModel, error)
	Delete(id string) error
}

// attachmentRepository 附件仓储实现
type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository 创建附件仓储
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

// Save 保存附件
func (r *attachmentRepository) Save(att *model.AttachmentModel) error {
	return r.db.Save(att).Error
}

// FindByID 根据 ID 查找附件
func (r *attachmentRepository) FindByID(id string) (*model.AttachmentModel, error) {
	var att model.AttachmentModel
	if err := r.db.Where("id = ?", id).First(&att).Error; err != nil {
		return nil, err
	}
	return &att, nil
}

// FindByRequestID 查找治理请求的所有附件
func (r *attachmentRepository) FindByRequestID(requestID string) ([]*model.AttachmentModel, error) {
	var atts []*model.AttachmentModel
	err := r.db.Where("request_id = ?", requestID).Order("uploaded_at ASC").Find(&atts).Error
	return atts, err
}

// FindByRequestIDs 批量查找多个治理请求的附件
// 按请求 ID 分组返回,避免调用方逐请求查询
func (r *attachmentRepository) FindByRequestIDs(requestIDs []string) (map[string][]*model.AttachmentModel, error) {
	result := make(map[string][]*model.AttachmentModel, len(requestIDs))
	if len(requestIDs) == 0 {
		return result, nil
	}

	var atts []*model.AttachmentModel
	if err := r.db.Where("request_id IN ?", requestIDs).Order("uploaded_at ASC").Find(&atts).Error; err != nil {
		return nil, err
	}

	for _, att := range atts {
		result[att.RequestID] = append(result[att.RequestID], att)
	}
	return result, nil
}

// Delete 删除附件
// 删除单个附件不影响同请求下的其他附件
func (r *attachmentRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.AttachmentModel{}).Error
}
