package model

import (
	"encoding/json"
	"errors"
	"time"
)

// RequestStatus 治理请求状态
type RequestStatus string

// 治理请求状态枚举
// rejected 不是独立状态: 驳回会携带 RejectionReason 回到 draft
const (
	StatusDraft         RequestStatus = "draft"          // 草稿
	StatusPendingReview RequestStatus = "pending_review" // 待评审
	StatusValidated     RequestStatus = "validated"      // 已通过评审
	StatusTentative     RequestStatus = "tentative"      // 已预订(待确认)
	StatusConfirmed     RequestStatus = "confirmed"      // 已确认(终态)
)

// validTransitions 状态迁移表
// 所有迁移守卫统一查询此表,非法状态不可达
var validTransitions = map[RequestStatus][]RequestStatus{
	StatusDraft:         {StatusPendingReview},
	StatusPendingReview: {StatusValidated, StatusDraft},
	StatusValidated:     {StatusTentative},
	StatusTentative:     {StatusConfirmed},
	StatusConfirmed:     {},
}

// CanTransitionTo 判断能否迁移到目标状态
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	for _, next := range validTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// GovernanceRequestModel 治理请求数据模型
type GovernanceRequestModel struct {
	ID                   string        `gorm:"primaryKey;type:varchar(64)"`
	Title                string        `gorm:"type:varchar(100);not null"`
	ProjectCode          string        `gorm:"type:varchar(20);not null;index"` // 项目编码
	Description          string        `gorm:"type:text"`
	Topic                string        `gorm:"type:varchar(32);index"` // 议题类型,选题前为空
	Status               RequestStatus `gorm:"type:varchar(32);not null;index"`
	EstimatedDuration    int           `gorm:"type:int"` // 评审时长(分钟),由议题决定
	RequirementsSnapshot []byte        `gorm:"type:jsonb"` // 选题时固化的必交证明清单(JSON 数组)
	BookingStartAt       *time.Time    `gorm:"index"` // 预订开始时间
	RejectionReason      string        `gorm:"type:text"`
	CreatedBy            string        `gorm:"type:varchar(64);not null;index"` // 创建人 ID
	ValidatedBy          string        `gorm:"type:varchar(64)"` // 评审人 ID
	CreatedAt            time.Time     `gorm:"not null;index"`
	UpdatedAt            time.Time     `gorm:"not null"`
	SubmittedAt          *time.Time    `gorm:"index"` // 提交时间
	ValidatedAt          *time.Time    // 评审通过时间
}

// TableName 指定表名
func (GovernanceRequestModel) TableName() string {
	return "governance_requests"
}

// Validate 验证治理请求模型
func (m *GovernanceRequestModel) Validate() error {
	if m.ID == "" {
		return errors.New("request ID is required")
	}
	if m.Title == "" {
		return errors.New("request title is required")
	}
	if m.ProjectCode == "" {
		return errors.New("project code is required")
	}
	if m.Status == "" {
		return errors.New("request status is required")
	}
	if m.CreatedBy == "" {
		return errors.New("creator ID is required")
	}
	return nil
}

// SetSnapshot 固化必交证明清单
// 快照一经写入不再变更,后续目录调整不影响在途请求
func (m *GovernanceRequestModel) SetSnapshot(kinds []string) error {
	data, err := json.Marshal(kinds)
	if err != nil {
		return err
	}
	m.RequirementsSnapshot = data
	return nil
}

// SnapshotKinds 解码必交证明清单快照
// 未选题的历史请求返回 nil
func (m *GovernanceRequestModel) SnapshotKinds() ([]string, error) {
	if len(m.RequirementsSnapshot) == 0 {
		return nil, nil
	}
	var kinds []string
	if err := json.Unmarshal(m.RequirementsSnapshot, &kinds); err != nil {
		return nil, err
	}
	return kinds, nil
}
