package repository

import (
	"errors"

	"github.com/ticney/archi-planning/internal/model"
	"gorm.io/gorm"
)

// UserRoleRepository 用户角色仓储接口
type UserRoleRepository interface {
	Save(role *model.UserRoleModel) error
	FindByUserID(userID string) (*model.UserRoleModel, error)
	FindByRole(role string) ([]*model.UserRoleModel, error)
	FindAll() ([]*model.UserRoleModel, error)
}

// userRoleRepository 用户角色仓储实现
type userRoleRepository struct {
	db *gorm.DB
}

// NewUserRoleRepository 创建用户角色仓储
func NewUserRoleRepository(db *gorm.DB) UserRoleRepository {
	return &userRoleRepository{db: db}
}

// Save 保存用户角色
func (r *userRoleRepository) Save(role *model.UserRoleModel) error {
	return r.db.Save(role).Error
}

// FindByUserID 根据用户 ID 查找角色
// 未分配角色时返回 nil 而非错误
func (r *userRoleRepository) FindByUserID(userID string) (*model.UserRoleModel, error) {
	var role model.UserRoleModel
	err := r.db.Where("user_id = ?", userID).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// FindByRole 查找持有指定角色的所有用户
func (r *userRoleRepository) FindByRole(role string) ([]*model.UserRoleModel, error) {
	var roles []*model.UserRoleModel
	err := r.db.Where("role = ?", role).Find(&roles).Error
	return roles, err
}

// FindAll 查找所有用户角色
func (r *userRoleRepository) FindAll() ([]*model.UserRoleModel, error) {
	var roles []*model.UserRoleModel
	err := r.db.Order("user_id ASC").Find(&roles).Error
	return roles, err
}
