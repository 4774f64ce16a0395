package model

import (
	"errors"
	"time"
)

// ProofRequirementModel 议题必交证明配置数据模型
// 每行表示一个议题下的一项必交证明,Position 决定清单顺序
type ProofRequirementModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)"`
	Topic     string    `gorm:"type:varchar(32);not null;index:idx_topic_proof,unique"`
	ProofKind string    `gorm:"type:varchar(64);not null;index:idx_topic_proof,unique"`
	Position  int       `gorm:"type:int;not null"` // 清单内顺序
	CreatedAt time.Time `gorm:"not null"`
}

// TableName 指定表名
func (ProofRequirementModel) TableName() string {
	return "proof_requirements"
}

// Validate 验证配置模型
func (m *ProofRequirementModel) Validate() error {
	if m.ID == "" {
		return errors.New("requirement ID is required")
	}
	if m.Topic == "" {
		return errors.New("topic is required")
	}
	if m.ProofKind == "" {
		return errors.New("proof kind is required")
	}
	return nil
}
