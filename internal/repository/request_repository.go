package repository

import (
	"time"

	"github.com/ticney/archi-planning/internal/model"
	"gorm.io/gorm"
)

// RequestRepository 治理请求仓储接口
type RequestRepository interface {
	Save(req *model.GovernanceRequestModel) error
	FindByID(id string) (*model.GovernanceRequestModel, error)
	FindByStatus(status model.RequestStatus) ([]*model.GovernanceRequestModel, error)
	FindByCreator(userID string) ([]*model.GovernanceRequestModel, error)
	FindBookedBetween(start, end time.Time) ([]*model.GovernanceRequestModel, error)
}

// requestRepository 治理请求仓储实现
type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository 创建治理请求仓储
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

// Save 保存治理请求
func (r *requestRepository) Save(req *model.GovernanceRequestModel) error {
	return r.db.Save(req).Error
}

// FindByID 根据 ID 查找治理请求
func (r *requestRepository) FindByID(id string) (*model.GovernanceRequestModel, error) {
	var req model.GovernanceRequestModel
	if err := r.db.Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindByStatus 根据状态查找治理请求
func (r *requestRepository) FindByStatus(status model.RequestStatus) ([]*model.GovernanceRequestModel, error) {
	var reqs []*model.GovernanceRequestModel
	err := r.db.Where("status = ?", status).Order("submitted_at ASC, created_at ASC").Find(&reqs).Error
	return reqs, err
}

// FindByCreator 根据创建人查找治理请求
func (r *requestRepository) FindByCreator(userID string) ([]*model.GovernanceRequestModel, error) {
	var reqs []*model.GovernanceRequestModel
	err := r.db.Where("created_by = ?", userID).Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

// FindBookedBetween 查找时间范围内已预订的治理请求
func (r *requestRepository) FindBookedBetween(start, end time.Time) ([]*model.GovernanceRequestModel, error) {
	var reqs []*model.GovernanceRequestModel
	err := r.db.Where("booking_start_at IS NOT NULL").
		Where("booking_start_at >= ? AND booking_start_at <= ?", start, end).
		Order("booking_start_at ASC").
		Find(&reqs).Error
	return reqs, err
}
