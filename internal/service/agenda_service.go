package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"github.com/ticney/archi-planning/internal/model"
)

// AgendaService 议程导出服务接口
type AgendaService interface {
	DailyAgenda(ctx context.Context, day time.Time) (string, error)
}

// agendaService 议程导出服务实现
// 从预订引擎派生只读视图,仅包含已确认的预订
type agendaService struct {
	booking BookingService
}

// NewAgendaService 创建议程导出服务
func NewAgendaService(booking BookingService) AgendaService {
	return &agendaService{booking: booking}
}

// DailyAgenda 导出某天的议程(CSV 文本)
// 仅含 confirmed 预订并按开始时间升序;tentative 属于草稿排期,
// 不进入对外发布的议程
func (s *agendaService) DailyAgenda(ctx context.Context, day time.Time) (string, error) {
	year, month, dom := day.Date()
	loc := day.Location()
	dayStart := time.Date(year, month, dom, 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	scheduled, err := s.booking.AllScheduled(ctx, dayStart, dayEnd)
	if err != nil {
		return "", err
	}

	confirmed := make([]ScheduledRequest, 0, len(scheduled))
	for _, req := range scheduled {
		if req.Status == model.StatusConfirmed {
			confirmed = append(confirmed, req)
		}
	}
	sort.Slice(confirmed, func(i, j int) bool {
		return confirmed[i].BookingStartAt.Before(*confirmed[j].BookingStartAt)
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Time", "Project", "Leader", "Topic"}); err != nil {
		return "", fmt.Errorf("failed to write agenda header: %w", err)
	}
	for _, req := range confirmed {
		row := []string{
			req.BookingStartAt.Format("15:04"),
			req.Title,
			req.CreatedBy,
			req.Topic,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write agenda row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return buf.String(), nil
}
