package repository

import (
	"errors"

	"github.com/ticney/archi-planning/internal/model"
	"gorm.io/gorm"
)

// RequirementRepository 议题证明配置仓储接口
type RequirementRepository interface {
	FindByTopic(topic string) ([]*model.ProofRequirementModel, error)
	FindAll() ([]*model.ProofRequirementModel, error)
	Exists(topic string, proofKind string) (bool, error)
	MaxPosition(topic string) (int, error)
	Save(req *model.ProofRequirementModel) error
	Remove(topic string, proofKind string) error
}

// requirementRepository 议题证明配置仓储实现
type requirementRepository struct {
	db *gorm.DB
}

// NewRequirementRepository 创建议题证明配置仓储
func NewRequirementRepository(db *gorm.DB) RequirementRepository {
	return &requirementRepository{db: db}
}

// FindByTopic 查找议题的证明配置,按清单顺序返回
func (r *requirementRepository) FindByTopic(topic string) ([]*model.ProofRequirementModel, error) {
	var reqs []*model.ProofRequirementModel
	err := r.db.Where("topic = ?", topic).Order("position ASC").Find(&reqs).Error
	return reqs, err
}

// FindAll 查找所有证明配置
func (r *requirementRepository) FindAll() ([]*model.ProofRequirementModel, error) {
	var reqs []*model.ProofRequirementModel
	err := r.db.Order("topic ASC, position ASC").Find(&reqs).Error
	return reqs, err
}

// Exists 判断议题下是否已配置某证明类型
func (r *requirementRepository) Exists(topic string, proofKind string) (bool, error) {
	var req model.ProofRequirementModel
	err := r.db.Where("topic = ? AND proof_kind = ?", topic, proofKind).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// MaxPosition 查找议题下当前最大的清单序号
func (r *requirementRepository) MaxPosition(topic string) (int, error) {
	var max *int
	err := r.db.Model(&model.ProofRequirementModel{}).
		Where("topic = ?", topic).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// Save 保存证明配置
func (r *requirementRepository) Save(req *model.ProofRequirementModel) error {
	return r.db.Save(req).Error
}

// Remove 删除议题下的某证明配置
func (r *requirementRepository) Remove(topic string, proofKind string) error {
	return r.db.Where("topic = ? AND proof_kind = ?", topic, proofKind).
		Delete(&model.ProofRequirementModel{}).Error
}
