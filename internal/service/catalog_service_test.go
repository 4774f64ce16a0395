package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticney/archi-planning/internal/service"
)

// TestCatalog_StaticRules 测试内置议题规则
func TestCatalog_StaticRules(t *testing.T) {
	env := newTestEnv(t)

	proofs, duration, err := env.catalog.RequirementsForTopic("standard")
	require.NoError(t, err)
	assert.Equal(t, []string{"dat_sheet", "architecture_diagram"}, proofs)
	assert.Equal(t, 30, duration)

	proofs, duration, err = env.catalog.RequirementsForTopic("strategic")
	require.NoError(t, err)
	assert.Equal(t, []string{"dat_sheet", "security_signoff", "finops_approval"}, proofs)
	assert.Equal(t, 60, duration)
}

// TestCatalog_UnknownTopic 测试未配置议题
func TestCatalog_UnknownTopic(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.catalog.RequirementsForTopic("express")
	assert.ErrorIs(t, err, service.ErrTopicNotConfigured)

	_, err = env.catalog.DurationForTopic("express")
	assert.ErrorIs(t, err, service.ErrTopicNotConfigured)
}

// TestCatalog_MaxDuration 测试最长评审时长
func TestCatalog_MaxDuration(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, 60, env.catalog.MaxDuration())
}

// TestCatalog_Topics 测试议题枚举
func TestCatalog_Topics(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, []string{"standard", "strategic"}, env.catalog.Topics())
}

// TestCatalog_AddRequirement 测试追加必交证明
func TestCatalog_AddRequirement(t *testing.T) {
	env := newTestEnv(t)

	err := env.catalog.AddRequirement("standard", "security_signoff")
	require.NoError(t, err)

	// 数据库配置覆盖内置清单,且保持内置项
	proofs, duration, err := env.catalog.RequirementsForTopic("standard")
	require.NoError(t, err)
	assert.Equal(t, []string{"dat_sheet", "architecture_diagram", "security_signoff"}, proofs)
	assert.Equal(t, 30, duration)

	// 其他议题不受影响
	proofs, _, err = env.catalog.RequirementsForTopic("strategic")
	require.NoError(t, err)
	assert.Equal(t, []string{"dat_sheet", "security_signoff", "finops_approval"}, proofs)
}

// TestCatalog_AddRequirementIdempotent 测试重复追加幂等
func TestCatalog_AddRequirementIdempotent(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.catalog.AddRequirement("standard", "security_signoff"))
	require.NoError(t, env.catalog.AddRequirement("standard", "security_signoff"))

	proofs, _, err := env.catalog.RequirementsForTopic("standard")
	require.NoError(t, err)
	assert.Equal(t, []string{"dat_sheet", "architecture_diagram", "security_signoff"}, proofs)
}

// TestCatalog_AddRequirementUnknownTopic 测试向未知议题追加证明
func TestCatalog_AddRequirementUnknownTopic(t *testing.T) {
	env := newTestEnv(t)

	err := env.catalog.AddRequirement("express", "dat_sheet")
	assert.ErrorIs(t, err, service.ErrTopicNotConfigured)
}

// TestCatalog_RemoveRequirement 测试移除必交证明
func TestCatalog_RemoveRequirement(t *testing.T) {
	env := newTestEnv(t)

	err := env.catalog.RemoveRequirement("strategic", "finops_approval")
	require.NoError(t, err)

	proofs, _, err := env.catalog.RequirementsForTopic("strategic")
	require.NoError(t, err)
	assert.Equal(t, []string{"dat_sheet", "security_signoff"}, proofs)

	// 移除不存在的项幂等
	require.NoError(t, env.catalog.RemoveRequirement("strategic", "finops_approval"))
	proofs, _, err = env.catalog.RequirementsForTopic("strategic")
	require.NoError(t, err)
	assert.Equal(t, []string{"dat_sheet", "security_signoff"}, proofs)
}

// TestCatalog_SnapshotUnaffectedByCatalogChange 测试目录调整不影响已固化的快照
func TestCatalog_SnapshotUnaffectedByCatalogChange(t *testing.T) {
	env := newTestEnv(t)

	// 选题时固化快照
	req := env.seedRequest(t, "draft", "standard")
	kinds, err := req.SnapshotKinds()
	require.NoError(t, err)
	assert.Equal(t, []string{"dat_sheet", "architecture_diagram"}, kinds)

	// 随后目录追加新要求
	require.NoError(t, env.catalog.AddRequirement("standard", "security_signoff"))

	// 在途请求仍按快照评估
	env.seedAttachment(t, req.ID, "dat_sheet")
	env.seedAttachment(t, req.ID, "architecture_diagram")
	atts, err := env.attachmentRepo.FindByRequestID(req.ID)
	require.NoError(t, err)

	missing, err := env.checklist.MissingProofsForRequest(req, atts)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
