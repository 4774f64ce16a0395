package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticney/archi-planning/internal/model"
	"github.com/ticney/archi-planning/internal/service"
)

// TestAdmin_RoleOfUnassigned 测试未分配角色的用户
func TestAdmin_RoleOfUnassigned(t *testing.T) {
	env := newTestEnv(t)

	role, err := env.adminSvc.RoleOf(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, role)
}

// TestAdmin_UpdateRole 测试分配与变更角色
func TestAdmin_UpdateRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.adminSvc.UpdateRole(ctx, "admin-001", "user-001", model.RoleReviewer))

	role, err := env.adminSvc.RoleOf(ctx, "user-001")
	require.NoError(t, err)
	assert.Equal(t, model.RoleReviewer, role)

	// 变更到另一角色
	require.NoError(t, env.adminSvc.UpdateRole(ctx, "admin-001", "user-001", model.RoleOrganizer))
	role, err = env.adminSvc.RoleOf(ctx, "user-001")
	require.NoError(t, err)
	assert.Equal(t, model.RoleOrganizer, role)
}

// TestAdmin_UpdateRoleInvalid 测试非法角色被拒
func TestAdmin_UpdateRoleInvalid(t *testing.T) {
	env := newTestEnv(t)

	err := env.adminSvc.UpdateRole(context.Background(), "admin-001", "user-001", "superuser")
	assert.Error(t, err)
}

// TestAdmin_SelfLockout 测试管理员不能摘除自己的管理员角色
func TestAdmin_SelfLockout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.adminSvc.UpdateRole(ctx, "boot", "admin-001", model.RoleAdmin))

	err := env.adminSvc.UpdateRole(ctx, "admin-001", "admin-001", model.RoleRequester)
	assert.ErrorIs(t, err, service.ErrSelfLockout)

	// 自我保持 admin 可行
	require.NoError(t, env.adminSvc.UpdateRole(ctx, "admin-001", "admin-001", model.RoleAdmin))

	// 摘除他人的 admin 角色可行
	require.NoError(t, env.adminSvc.UpdateRole(ctx, "boot", "admin-002", model.RoleAdmin))
	require.NoError(t, env.adminSvc.UpdateRole(ctx, "admin-001", "admin-002", model.RoleRequester))
}

// TestAdmin_ListRoles 测试角色列表
func TestAdmin_ListRoles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.adminSvc.UpdateRole(ctx, "admin-001", "user-001", model.RoleRequester))
	require.NoError(t, env.adminSvc.UpdateRole(ctx, "admin-001", "user-002", model.RoleReviewer))

	roles, err := env.adminSvc.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}
