package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticney/archi-planning/internal/model"
	"github.com/ticney/archi-planning/internal/service"
)

// TestRequest_Create 测试创建治理请求
func TestRequest_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req, err := env.requestSvc.Create(ctx, &service.CreateRequestInput{
		Title:       "NextGen Platform",
		ProjectCode: "PX-1",
		Description: "Platform re-architecture review",
		RequesterID: "user-001",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, model.StatusDraft, req.Status)
	assert.Equal(t, "user-001", req.CreatedBy)
	assert.Empty(t, req.Topic)
	assert.Nil(t, req.SubmittedAt)
}

// TestRequest_GetNotFound 测试查询不存在的请求
func TestRequest_GetNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.requestSvc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, service.ErrRequestNotFound)
}

// TestRequest_SetTopic 测试选题固化快照与时长
func TestRequest_SetTopic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := env.seedRequest(t, model.StatusDraft, "")

	updated, err := env.requestSvc.SetTopic(ctx, req.ID, "strategic")
	require.NoError(t, err)
	assert.Equal(t, "strategic", updated.Topic)
	assert.Equal(t, 60, updated.EstimatedDuration)

	kinds, err := updated.SnapshotKinds()
	require.NoError(t, err)
	assert.Equal(t, []string{"dat_sheet", "security_signoff", "finops_approval"}, kinds)
}

// TestRequest_SetTopicUnknown 测试选择未配置议题
func TestRequest_SetTopicUnknown(t *testing.T) {
	env := newTestEnv(t)
	req := env.seedRequest(t, model.StatusDraft, "")

	_, err := env.requestSvc.SetTopic(context.Background(), req.ID, "express")
	assert.ErrorIs(t, err, service.ErrTopicNotConfigured)
}

// TestRequest_SetTopicOutsideDraft 测试离开草稿后不可改选议题
func TestRequest_SetTopicOutsideDraft(t *testing.T) {
	env := newTestEnv(t)
	req := env.seedRequest(t, model.StatusPendingReview, "standard")

	_, err := env.requestSvc.SetTopic(context.Background(), req.ID, "strategic")
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

// TestRequest_RecordAttachmentDraftOnly 测试仅草稿阶段可登记附件
func TestRequest_RecordAttachmentDraftOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft := env.seedRequest(t, model.StatusDraft, "standard")
	att, err := env.requestSvc.RecordAttachment(ctx, &service.RecordAttachmentInput{
		RequestID:      draft.ID,
		ProofKind:      "dat_sheet",
		StorageLocator: "uploads/px-1/dat.pdf",
		Filename:       "dat.pdf",
		UploaderID:     "user-001",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, att.ID)

	pending := env.seedRequest(t, model.StatusPendingReview, "standard")
	_, err = env.requestSvc.RecordAttachment(ctx, &service.RecordAttachmentInput{
		RequestID:      pending.ID,
		ProofKind:      "dat_sheet",
		StorageLocator: "uploads/px-2/dat.pdf",
		UploaderID:     "user-001",
	})
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

// TestRequest_DeleteAttachment 测试删除附件互不影响
func TestRequest_DeleteAttachment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := env.seedRequest(t, model.StatusDraft, "standard")

	keep := env.seedAttachment(t, req.ID, "dat_sheet")
	gone := env.seedAttachment(t, req.ID, "architecture_diagram")

	require.NoError(t, env.requestSvc.DeleteAttachment(ctx, gone.ID))

	remaining, err := env.requestSvc.Attachments(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, keep.ID, remaining[0].ID)

	// 重复删除报不存在
	err = env.requestSvc.DeleteAttachment(ctx, gone.ID)
	assert.ErrorIs(t, err, service.ErrAttachmentNotFound)
}

// TestRequest_SubmitMissingDocuments 测试材料不齐时提交被拒
func TestRequest_SubmitMissingDocuments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := env.seedRequest(t, model.StatusDraft, "strategic")
	env.seedAttachment(t, req.ID, "dat_sheet")

	err := env.requestSvc.Submit(ctx, req.ID)
	require.Error(t, err)

	var missing *service.MissingDocumentsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"security_signoff", "finops_approval"}, missing.Kinds)

	// 状态保持 draft
	reloaded, err := env.requestSvc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, reloaded.Status)
}

// TestRequest_SubmitComplete 测试材料齐全时提交成功
func TestRequest_SubmitComplete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := env.seedRequest(t, model.StatusDraft, "standard")
	env.seedAttachment(t, req.ID, "dat_sheet")
	env.seedAttachment(t, req.ID, "architecture_diagram")

	require.NoError(t, env.requestSvc.Submit(ctx, req.ID))

	reloaded, err := env.requestSvc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingReview, reloaded.Status)
	assert.NotNil(t, reloaded.SubmittedAt)

	// 重复提交报状态错误
	err = env.requestSvc.Submit(ctx, req.ID)
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

// TestRequest_SubmitRecheckSeesLatestAttachments 测试提交守卫按写入时刻的附件复核清单
// 清单读取与状态写入共用同一事务连接,补交材料后立即重提应生效
func TestRequest_SubmitRecheckSeesLatestAttachments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := env.seedRequest(t, model.StatusDraft, "strategic")
	env.seedAttachment(t, req.ID, "dat_sheet")
	env.seedAttachment(t, req.ID, "security_signoff")

	err := env.requestSvc.Submit(ctx, req.ID)
	var missing *service.MissingDocumentsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"finops_approval"}, missing.Kinds)

	// 补齐最后一项后立即重提
	env.seedAttachment(t, req.ID, "finops_approval")
	require.NoError(t, env.requestSvc.Submit(ctx, req.ID))

	reloaded, err := env.requestSvc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingReview, reloaded.Status)
}

// TestRequest_Validate 测试评审通过
func TestRequest_Validate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := env.seedRequest(t, model.StatusPendingReview, "standard")

	require.NoError(t, env.requestSvc.Validate(ctx, req.ID, "reviewer-001"))

	reloaded, err := env.requestSvc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusValidated, reloaded.Status)
	assert.Equal(t, "reviewer-001", reloaded.ValidatedBy)
	assert.NotNil(t, reloaded.ValidatedAt)
}

// TestRequest_ValidateWrongState 测试非待评审状态不可通过
func TestRequest_ValidateWrongState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, status := range []model.RequestStatus{
		model.StatusDraft, model.StatusValidated, model.StatusTentative, model.StatusConfirmed,
	} {
		req := env.seedRequest(t, status, "standard")
		err := env.requestSvc.Validate(ctx, req.ID, "reviewer-001")
		assert.ErrorIs(t, err, service.ErrInvalidState, "status %s", status)
	}
}

// TestRequest_Reject 测试驳回回到草稿并携带原因
func TestRequest_Reject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := env.seedRequest(t, model.StatusPendingReview, "standard")
	env.seedAttachment(t, req.ID, "dat_sheet")

	reason := "DAT sheet is outdated, please refresh section 3"
	require.NoError(t, env.requestSvc.Reject(ctx, req.ID, "reviewer-001", reason))

	reloaded, err := env.requestSvc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, reloaded.Status)
	assert.Equal(t, reason, reloaded.RejectionReason)

	// 快照与附件保留作历史,申请人修订后可再次提交
	kinds, err := reloaded.SnapshotKinds()
	require.NoError(t, err)
	assert.Equal(t, []string{"dat_sheet", "architecture_diagram"}, kinds)

	atts, err := env.requestSvc.Attachments(ctx, req.ID)
	require.NoError(t, err)
	assert.Len(t, atts, 1)
}

// TestRequest_RejectShortReason 测试驳回原因不足 10 字符一律拒绝
func TestRequest_RejectShortReason(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := env.seedRequest(t, model.StatusPendingReview, "standard")
	err := env.requestSvc.Reject(ctx, req.ID, "reviewer-001", "too short")
	assert.ErrorIs(t, err, service.ErrInvalidReason)

	// 原因校验先于状态校验: 状态不对时同样报原因错误
	draft := env.seedRequest(t, model.StatusDraft, "standard")
	err = env.requestSvc.Reject(ctx, draft.ID, "reviewer-001", "short")
	assert.ErrorIs(t, err, service.ErrInvalidReason)

	// 纯空白不计入长度
	err = env.requestSvc.Reject(ctx, req.ID, "reviewer-001", "         \t  ")
	assert.ErrorIs(t, err, service.ErrInvalidReason)

	// 状态未变化
	reloaded, err := env.requestSvc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingReview, reloaded.Status)
}

// TestRequest_RejectWrongState 测试非待评审状态不可驳回
func TestRequest_RejectWrongState(t *testing.T) {
	env := newTestEnv(t)
	req := env.seedRequest(t, model.StatusValidated, "standard")

	err := env.requestSvc.Reject(context.Background(), req.ID, "reviewer-001", "architecture diagram missing key flows")
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

// TestRequest_ResubmitAfterRejection 测试驳回后修订再提交
func TestRequest_ResubmitAfterRejection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := env.seedRequest(t, model.StatusPendingReview, "standard")
	env.seedAttachment(t, req.ID, "dat_sheet")
	env.seedAttachment(t, req.ID, "architecture_diagram")

	require.NoError(t, env.requestSvc.Reject(ctx, req.ID, "reviewer-001", "please align the diagram with the DAT sheet"))

	// 材料已齐,修订后直接重新提交
	require.NoError(t, env.requestSvc.Submit(ctx, req.ID))

	reloaded, err := env.requestSvc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingReview, reloaded.Status)
}

// TestRequest_MissingProofs 测试缺失证明查询
func TestRequest_MissingProofs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := env.seedRequest(t, model.StatusDraft, "standard")

	missing, err := env.requestSvc.MissingProofs(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"dat_sheet", "architecture_diagram"}, missing)

	env.seedAttachment(t, req.ID, "dat_sheet")
	missing, err = env.requestSvc.MissingProofs(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"architecture_diagram"}, missing)
}

// TestRequest_AuditTrail 测试带用户上下文的操作落审计日志
func TestRequest_AuditTrail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.WithValue(context.Background(), "user_id", "user-001")

	req, err := env.requestSvc.Create(ctx, &service.CreateRequestInput{
		Title:       "NextGen Platform",
		ProjectCode: "PX-1",
		RequesterID: "user-001",
	})
	require.NoError(t, err)

	var count int64
	err = env.db.Model(&model.AuditLogModel{}).
		Where("user_id = ? AND action = ? AND resource_id = ?", "user-001", "create", req.ID).
		Count(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
