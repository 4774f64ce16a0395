package model

import (
	"errors"
	"time"
)

// 角色枚举
const (
	RoleRequester = "requester" // 申请人
	RoleReviewer  = "reviewer"  // 评审人
	RoleOrganizer = "organizer" // 排期负责人
	RoleAdmin     = "admin"     // 管理员
)

// ValidRole 判断角色是否合法
func ValidRole(role string) bool {
	switch role {
	case RoleRequester, RoleReviewer, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// UserRoleModel 用户角色数据模型
type UserRoleModel struct {
	UserID    string    `gorm:"primaryKey;type:varchar(64)"`
	Role      string    `gorm:"type:varchar(32);not null;index"`
	UpdatedBy string    `gorm:"type:varchar(64)"` // 最后修改人 ID
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName 指定表名
func (UserRoleModel) TableName() string {
	return "user_roles"
}

// Validate 验证角色模型
func (m *UserRoleModel) Validate() error {
	if m.UserID == "" {
		return errors.New("user ID is required")
	}
	if !ValidRole(m.Role) {
		return errors.New("invalid role")
	}
	return nil
}
