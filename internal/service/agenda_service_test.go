package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticney/archi-planning/internal/model"
)

// TestAgenda_ConfirmedOnly 测试议程仅包含已确认的预订
func TestAgenda_ConfirmedOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	confirmed := env.seedRequest(t, model.StatusValidated, "standard")
	require.NoError(t, env.bookingSvc.Book(ctx, confirmed.ID, mustFriday(14, 30)))
	require.NoError(t, env.bookingSvc.Confirm(ctx, confirmed.ID, "organizer-001"))

	tentative := env.seedRequest(t, model.StatusValidated, "strategic")
	require.NoError(t, env.bookingSvc.Book(ctx, tentative.ID, mustFriday(15, 0)))

	csvText, err := env.agendaSvc.DailyAgenda(ctx, mustFriday(0, 0))
	require.NoError(t, err)

	assert.Equal(t, "Time,Project,Leader,Topic\n14:30,NextGen Platform,user-001,standard\n", csvText)
}

// TestAgenda_SortedByStartTime 测试议程按开始时间升序
func TestAgenda_SortedByStartTime(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	late := env.seedRequest(t, model.StatusValidated, "standard")
	require.NoError(t, env.bookingSvc.Book(ctx, late.ID, mustFriday(16, 0)))
	require.NoError(t, env.bookingSvc.Confirm(ctx, late.ID, "organizer-001"))

	early := env.seedRequest(t, model.StatusValidated, "standard")
	require.NoError(t, env.bookingSvc.Book(ctx, early.ID, mustFriday(14, 0)))
	require.NoError(t, env.bookingSvc.Confirm(ctx, early.ID, "organizer-001"))

	csvText, err := env.agendaSvc.DailyAgenda(ctx, mustFriday(0, 0))
	require.NoError(t, err)

	assert.Equal(t,
		"Time,Project,Leader,Topic\n"+
			"14:00,NextGen Platform,user-001,standard\n"+
			"16:00,NextGen Platform,user-001,standard\n",
		csvText)
}

// TestAgenda_EmptyDay 测试无预订的日期仍输出表头
func TestAgenda_EmptyDay(t *testing.T) {
	env := newTestEnv(t)

	csvText, err := env.agendaSvc.DailyAgenda(context.Background(), mustFriday(0, 0))
	require.NoError(t, err)
	assert.Equal(t, "Time,Project,Leader,Topic\n", csvText)
}

// TestAgenda_OtherDaysExcluded 测试跨天预订不混入
func TestAgenda_OtherDaysExcluded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := env.seedRequest(t, model.StatusValidated, "standard")
	require.NoError(t, env.bookingSvc.Book(ctx, req.ID, mustFriday(14, 0)))
	require.NoError(t, env.bookingSvc.Confirm(ctx, req.ID, "organizer-001"))

	// 下一周的同一时间无记录
	nextWeek := mustFriday(0, 0).AddDate(0, 0, 7)
	csvText, err := env.agendaSvc.DailyAgenda(ctx, nextWeek)
	require.NoError(t, err)
	assert.Equal(t, "Time,Project,Leader,Topic\n", csvText)
}
