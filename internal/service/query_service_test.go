package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticney/archi-planning/internal/model"
)

// TestQuery_PendingReview 测试评审工作台列表与成熟度评分
func TestQuery_PendingReview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	complete := env.seedRequest(t, model.StatusPendingReview, "standard")
	env.seedAttachment(t, complete.ID, "dat_sheet")
	env.seedAttachment(t, complete.ID, "architecture_diagram")

	partial := env.seedRequest(t, model.StatusPendingReview, "strategic")
	env.seedAttachment(t, partial.ID, "dat_sheet")

	// draft 请求不进入工作台
	env.seedRequest(t, model.StatusDraft, "standard")

	items, err := env.querySvc.PendingReview(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	scores := map[string]int{}
	for _, item := range items {
		scores[item.ID] = item.MaturityScore
	}
	assert.Equal(t, 100, scores[complete.ID])
	assert.Equal(t, 33, scores[partial.ID])
}

// TestQuery_MyRequests 测试按创建人过滤
func TestQuery_MyRequests(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mine := env.seedRequest(t, model.StatusDraft, "")

	other := env.seedRequest(t, model.StatusDraft, "")
	require.NoError(t, env.db.Model(other).Update("created_by", "user-002").Error)

	reqs, err := env.querySvc.MyRequests(ctx, "user-001")
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, mine.ID, reqs[0].ID)
}
