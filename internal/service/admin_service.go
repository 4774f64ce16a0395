package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ticney/archi-planning/internal/model"
	"github.com/ticney/archi-planning/internal/repository"
)

// AdminService 管理服务接口
// 角色解析与分配;核心流程通过 RoleOf 消费已认证身份的角色
type AdminService interface {
	RoleOf(ctx context.Context, userID string) (string, error)
	UpdateRole(ctx context.Context, actorID string, userID string, role string) error
	ListRoles(ctx context.Context) ([]*model.UserRoleModel, error)
}

// adminService 管理服务实现
type adminService struct {
	roleRepo    repository.UserRoleRepository
	auditLogSvc AuditLogService
}

// NewAdminService 创建管理服务
func NewAdminService(roleRepo repository.UserRoleRepository, auditLogSvc AuditLogService) AdminService {
	return &adminService{
		roleRepo:    roleRepo,
		auditLogSvc: auditLogSvc,
	}
}

// RoleOf 解析用户角色,未分配时返回空串
func (s *adminService) RoleOf(ctx context.Context, userID string) (string, error) {
	role, err := s.roleRepo.FindByUserID(userID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve role: %w", err)
	}
	if role == nil {
		return "", nil
	}
	return role.Role, nil
}

// UpdateRole 分配或变更用户角色
// 自锁保护: 管理员不能撤销自己的管理员角色
func (s *adminService) UpdateRole(ctx context.Context, actorID string, userID string, role string) error {
	if !model.ValidRole(role) {
		return fmt.Errorf("invalid role: %s", role)
	}
	if actorID == userID && role != model.RoleAdmin {
		return ErrSelfLockout
	}

	existing, err := s.roleRepo.FindByUserID(userID)
	if err != nil {
		return fmt.Errorf("failed to load role: %w", err)
	}

	now := time.Now()
	record := existing
	if record == nil {
		record = &model.UserRoleModel{
			UserID:    userID,
			CreatedAt: now,
		}
	}
	record.Role = role
	record.UpdatedBy = actorID
	record.UpdatedAt = now

	if err := s.roleRepo.Save(record); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	if s.auditLogSvc != nil {
		details := map[string]string{"role": role}
		_ = s.auditLogSvc.RecordAction(ctx, actorID, "update_role", "role", userID, details)
	}
	return nil
}

// ListRoles 列出全部用户角色
func (s *adminService) ListRoles(ctx context.Context) ([]*model.UserRoleModel, error) {
	return s.roleRepo.FindAll()
}
