package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ticney/archi-planning/internal/metrics"
	"github.com/ticney/archi-planning/internal/model"
	"github.com/ticney/archi-planning/internal/repository"
	"github.com/ticney/archi-planning/internal/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 排期委员会的可预订窗口: 每周五 14:00 - 17:00,30 分钟一格
const (
	boardWeekday    = time.Friday
	boardOpenHour   = 14
	boardCloseHour  = 17
	slotSizeMinutes = 30
)

// sideEffectTimeout 确认后通知/审计等副作用的时间上限
const sideEffectTimeout = 5 * time.Second

// BookingSlot 可预订时段
// 按需从当日已预订请求推导,不落库
type BookingSlot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// ScheduledRequest 已排期请求及推导的结束时间
type ScheduledRequest struct {
	*model.GovernanceRequestModel
	BookingEndAt time.Time `json:"booking_end_at"`
}

// BookingService 预订引擎服务接口
type BookingService interface {
	AvailableSlots(ctx context.Context, day time.Time) ([]BookingSlot, error)
	Book(ctx context.Context, requestID string, start time.Time) error
	Confirm(ctx context.Context, requestID string, actorID string) error
	AllScheduled(ctx context.Context, from, to time.Time) ([]ScheduledRequest, error)
}

// bookingService 预订引擎服务实现
type bookingService struct {
	db           *gorm.DB
	requestRepo  repository.RequestRepository
	userRoleRepo repository.UserRoleRepository
	catalog      CatalogService
	auditLogSvc  AuditLogService
	notifier     Notifier
	hub          *websocket.Hub
	logger       *logrus.Logger
}

// NewBookingService 创建预订引擎服务
// hub 可为 nil,此时不广播实时事件
func NewBookingService(
	db *gorm.DB,
	requestRepo repository.RequestRepository,
	userRoleRepo repository.UserRoleRepository,
	catalog CatalogService,
	auditLogSvc AuditLogService,
	notifier Notifier,
	hub *websocket.Hub,
	logger *logrus.Logger,
) BookingService {
	return &bookingService{
		db:           db,
		requestRepo:  requestRepo,
		userRoleRepo: userRoleRepo,
		catalog:      catalog,
		auditLogSvc:  auditLogSvc,
		notifier:     notifier,
		hub:          hub,
		logger:       logger,
	}
}

// AvailableSlots 计算某天的可预订时段
// 非周五返回空;周五将窗口切为 30 分钟格,与当日已预订区间重叠的格标记不可用
func (s *bookingService) AvailableSlots(ctx context.Context, day time.Time) ([]BookingSlot, error) {
	slots := []BookingSlot{}
	if day.Weekday() != boardWeekday {
		return slots, nil
	}

	year, month, dom := day.Date()
	loc := day.Location()
	windowStart := time.Date(year, month, dom, boardOpenHour, 0, 0, 0, loc)
	windowEnd := time.Date(year, month, dom, boardCloseHour, 0, 0, 0, loc)

	dayStart := time.Date(year, month, dom, 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	booked, err := s.requestRepo.FindBookedBetween(dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}

	for cur := windowStart; cur.Before(windowEnd); cur = cur.Add(slotSizeMinutes * time.Minute) {
		end := cur.Add(slotSizeMinutes * time.Minute)
		slots = append(slots, BookingSlot{
			Start:     cur,
			End:       end,
			Available: !s.overlapsAny(cur, end, booked, ""),
		})
	}
	return slots, nil
}

// Book 预订席位: validated → tentative
// 状态复核与冲突检测同锁同事务,两个并发预订重叠时段时至多一个提交
func (s *bookingService) Book(ctx context.Context, requestID string, start time.Time) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		req, err := lockRequest(tx, requestID)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(model.StatusTentative) {
			return ErrRequestNotValidated
		}

		duration := s.durationOf(req)
		end := start.Add(time.Duration(duration) * time.Minute)

		// 检索窗口上界取自目录中最长的议题时长,而非固定几小时的经验值:
		// 新增更长议题时窗口自动扩大,不会漏判相邻大块预订
		searchStart := start.Add(-time.Duration(s.catalog.MaxDuration()) * time.Minute)

		var others []*model.GovernanceRequestModel
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id <> ?", requestID).
			Where("booking_start_at IS NOT NULL").
			Where("booking_start_at >= ? AND booking_start_at < ?", searchStart, end).
			Find(&others).Error
		if err != nil {
			return fmt.Errorf("failed to check conflicts: %w", err)
		}

		if s.overlapsAny(start, end, others, requestID) {
			metrics.RecordBookingConflict()
			return ErrSlotConflict
		}

		req.BookingStartAt = &start
		req.Status = model.StatusTentative
		req.UpdatedAt = time.Now()

		if err := tx.Save(req).Error; err != nil {
			return fmt.Errorf("failed to book slot: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordTransition("book")
	s.audit(ctx, "book", requestID, map[string]string{"start_at": start.Format(time.RFC3339)})
	s.broadcast(requestID, string(model.StatusTentative), &start)

	return nil
}

// Confirm 确认预订: tentative → confirmed
// 通知与审计为尽力而为且限时,失败只记日志,绝不回滚已确认状态
func (s *bookingService) Confirm(ctx context.Context, requestID string, actorID string) error {
	var confirmed *model.GovernanceRequestModel
	err := s.db.Transaction(func(tx *gorm.DB) error {
		req, err := lockRequest(tx, requestID)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(model.StatusConfirmed) {
			return ErrRequestNotTentative
		}

		req.Status = model.StatusConfirmed
		req.UpdatedAt = time.Now()

		if err := tx.Save(req).Error; err != nil {
			return fmt.Errorf("failed to confirm booking: %w", err)
		}
		confirmed = req
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordTransition("confirm")
	s.notifyConfirmed(confirmed, actorID)
	s.broadcast(requestID, string(model.StatusConfirmed), confirmed.BookingStartAt)

	return nil
}

// AllScheduled 查询时间范围内的全部排期,附带推导的结束时间
// 纯投影,无副作用
func (s *bookingService) AllScheduled(ctx context.Context, from, to time.Time) ([]ScheduledRequest, error) {
	booked, err := s.requestRepo.FindBookedBetween(from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}

	scheduled := make([]ScheduledRequest, 0, len(booked))
	for _, req := range booked {
		duration := s.durationOf(req)
		scheduled = append(scheduled, ScheduledRequest{
			GovernanceRequestModel: req,
			BookingEndAt:           req.BookingStartAt.Add(time.Duration(duration) * time.Minute),
		})
	}
	return scheduled, nil
}

// overlapsAny 判断 [start, end) 是否与任一已预订区间重叠
// 半开区间规则: newStart < existEnd && newEnd > existStart,首尾相接不算冲突
func (s *bookingService) overlapsAny(start, end time.Time, booked []*model.GovernanceRequestModel, excludeID string) bool {
	for _, other := range booked {
		if other.BookingStartAt == nil || other.ID == excludeID {
			continue
		}
		existStart := *other.BookingStartAt
		existEnd := existStart.Add(time.Duration(s.durationOf(other)) * time.Minute)
		if start.Before(existEnd) && end.After(existStart) {
			return true
		}
	}
	return false
}

// durationOf 解析请求的评审时长(分钟)
// 以目录为准,目录无法解析时回退到选题时固化的时长
func (s *bookingService) durationOf(req *model.GovernanceRequestModel) int {
	duration, err := s.catalog.DurationForTopic(req.Topic)
	if err != nil {
		return req.EstimatedDuration
	}
	return duration
}

// notifyConfirmed 向申请人与全体评审人发送确认通知并记录审计
func (s *bookingService) notifyConfirmed(req *model.GovernanceRequestModel, actorID string) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	recipients := []string{req.CreatedBy}
	reviewers, err := s.userRoleRepo.FindByRole(model.RoleReviewer)
	if err != nil {
		s.logger.WithError(err).Warn("failed to resolve reviewer recipients")
	} else {
		for _, r := range reviewers {
			recipients = append(recipients, r.UserID)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyConfirmed(ctx, req, recipients); err != nil {
			s.logger.WithError(err).WithField("request_id", req.ID).Warn("confirmation notification failed")
		}
	}

	if s.auditLogSvc != nil && actorID != "" {
		details := map[string]string{"start_at": req.BookingStartAt.Format(time.RFC3339)}
		if err := s.auditLogSvc.RecordAction(ctx, actorID, "confirm", "request", req.ID, details); err != nil {
			s.logger.WithError(err).WithField("request_id", req.ID).Warn("failed to record audit log")
		}
	}
}

// audit 记录审计日志,失败仅告警
func (s *bookingService) audit(ctx context.Context, action string, resourceID string, details interface{}) {
	if s.auditLogSvc == nil {
		return
	}
	userID := getUserIDFromContext(ctx)
	if userID == "" {
		return
	}
	if err := s.auditLogSvc.RecordAction(ctx, userID, action, "request", resourceID, details); err != nil {
		s.logger.WithError(err).WithField("action", action).Warn("failed to record audit log")
	}
}

// broadcast 向已连接的看板推送预订事件
func (s *bookingService) broadcast(requestID string, status string, startAt *time.Time) {
	if s.hub == nil {
		return
	}
	s.hub.PublishBookingEvent(requestID, status, startAt)
}
