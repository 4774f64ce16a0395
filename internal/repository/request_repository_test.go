package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticney/archi-planning/internal/model"
	"github.com/ticney/archi-planning/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDBForRequests 创建治理请求测试数据库
func setupTestDBForRequests(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// 内存库的每个连接都是独立数据库,收紧连接池保证共用同一实例
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&model.GovernanceRequestModel{})
	require.NoError(t, err)

	return db
}

// seedGovernanceRequest 落库一条治理请求
func seedGovernanceRequest(t *testing.T, db *gorm.DB, id string, status model.RequestStatus, bookedAt *time.Time) *model.GovernanceRequestModel {
	now := time.Now()
	req := &model.GovernanceRequestModel{
		ID:             id,
		Title:          "NextGen Platform",
		ProjectCode:    "PX-1",
		Status:         status,
		CreatedBy:      "user-001",
		BookingStartAt: bookedAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, db.Create(req).Error)
	return req
}

// TestRequestRepository_SaveAndFind 测试保存与查询
func TestRequestRepository_SaveAndFind(t *testing.T) {
	db := setupTestDBForRequests(t)
	repo := repository.NewRequestRepository(db)

	seedGovernanceRequest(t, db, "req-001", model.StatusDraft, nil)

	found, err := repo.FindByID("req-001")
	require.NoError(t, err)
	assert.Equal(t, "req-001", found.ID)
	assert.Equal(t, model.StatusDraft, found.Status)

	_, err = repo.FindByID("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// TestRequestRepository_FindByStatus 测试按状态查询
func TestRequestRepository_FindByStatus(t *testing.T) {
	db := setupTestDBForRequests(t)
	repo := repository.NewRequestRepository(db)

	seedGovernanceRequest(t, db, "req-001", model.StatusDraft, nil)
	seedGovernanceRequest(t, db, "req-002", model.StatusPendingReview, nil)
	seedGovernanceRequest(t, db, "req-003", model.StatusPendingReview, nil)

	pending, err := repo.FindByStatus(model.StatusPendingReview)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

// TestRequestRepository_FindBookedBetween 测试按预订时间窗口查询
func TestRequestRepository_FindBookedBetween(t *testing.T) {
	db := setupTestDBForRequests(t)
	repo := repository.NewRequestRepository(db)

	friday := time.Date(2026, time.January, 9, 14, 0, 0, 0, time.Local)
	nextFriday := friday.AddDate(0, 0, 7)

	seedGovernanceRequest(t, db, "req-001", model.StatusTentative, &friday)
	seedGovernanceRequest(t, db, "req-002", model.StatusConfirmed, &nextFriday)
	seedGovernanceRequest(t, db, "req-003", model.StatusValidated, nil) // 未预订

	dayStart := time.Date(2026, time.January, 9, 0, 0, 0, 0, time.Local)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	booked, err := repo.FindBookedBetween(dayStart, dayEnd)
	require.NoError(t, err)
	require.Len(t, booked, 1)
	assert.Equal(t, "req-001", booked[0].ID)
}

// TestRequestRepository_FindByCreator 测试按创建人查询
func TestRequestRepository_FindByCreator(t *testing.T) {
	db := setupTestDBForRequests(t)
	repo := repository.NewRequestRepository(db)

	seedGovernanceRequest(t, db, "req-001", model.StatusDraft, nil)
	other := seedGovernanceRequest(t, db, "req-002", model.StatusDraft, nil)
	require.NoError(t, db.Model(other).Update("created_by", "user-002").Error)

	mine, err := repo.FindByCreator("user-001")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "req-001", mine[0].ID)
}
