package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticney/archi-planning/internal/model"
	"github.com/ticney/archi-planning/internal/repository"
	"github.com/ticney/archi-planning/internal/service"
)

// TestAuditLog_RecordAction 测试记录操作审计日志
func TestAuditLog_RecordAction(t *testing.T) {
	env := newTestEnv(t)
	auditRepo := repository.NewAuditLogRepository(env.db)
	auditSvc := service.NewAuditLogService(auditRepo)

	ctx := context.Background()
	err := auditSvc.RecordAction(ctx, "user-001", "submit", "request", "req-001", map[string]string{"topic": "standard"})
	require.NoError(t, err)

	logs, err := auditRepo.FindByUserID("user-001")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "submit", logs[0].Action)
	assert.Equal(t, "request", logs[0].ResourceType)
	assert.Equal(t, "req-001", logs[0].ResourceID)
	assert.JSONEq(t, `{"topic":"standard"}`, string(logs[0].Details))
}

// TestAuditLog_ContextMetadata 测试从 context 提取请求元信息
func TestAuditLog_ContextMetadata(t *testing.T) {
	env := newTestEnv(t)
	auditRepo := repository.NewAuditLogRepository(env.db)
	auditSvc := service.NewAuditLogService(auditRepo)

	ctx := context.WithValue(context.Background(), "request_id", "http-req-001")
	ctx = context.WithValue(ctx, "ip", "10.0.0.1")
	ctx = context.WithValue(ctx, "user_agent", "test-agent")

	err := auditSvc.RecordAction(ctx, "user-001", "book", "request", "req-001", nil)
	require.NoError(t, err)

	var saved model.AuditLogModel
	require.NoError(t, env.db.First(&saved).Error)
	assert.Equal(t, "http-req-001", saved.RequestID)
	assert.Equal(t, "10.0.0.1", saved.IP)
	assert.Equal(t, "test-agent", saved.UserAgent)
}
