package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/ticney/archi-planning/internal/model"
)

// Notifier 通知发送接口
// 邮件等外部投递通道由实现方接入;核心流程只依赖本接口
type Notifier interface {
	NotifyRejected(ctx context.Context, req *model.GovernanceRequestModel, reason string) error
	NotifyValidated(ctx context.Context, req *model.GovernanceRequestModel) error
	NotifyConfirmed(ctx context.Context, req *model.GovernanceRequestModel, recipients []string) error
}

// logNotifier 日志通知实现
// 按投递内容输出结构化日志,部署时可替换为真实邮件通道
type logNotifier struct {
	logger *logrus.Logger
}

// NewLogNotifier 创建日志通知器
func NewLogNotifier(logger *logrus.Logger) Notifier {
	return &logNotifier{logger: logger}
}

// NotifyRejected 通知申请人请求被驳回
func (n *logNotifier) NotifyRejected(ctx context.Context, req *model.GovernanceRequestModel, reason string) error {
	n.logger.WithFields(logrus.Fields{
		"recipient": req.CreatedBy,
		"subject":   fmt.Sprintf("Governance Request Rejected: %s", req.Title),
		"reason":    reason,
	}).Info("notification sent")
	return nil
}

// NotifyValidated 通知申请人请求已通过评审,可以预订席位
func (n *logNotifier) NotifyValidated(ctx context.Context, req *model.GovernanceRequestModel) error {
	n.logger.WithFields(logrus.Fields{
		"recipient": req.CreatedBy,
		"subject":   fmt.Sprintf("Governance Request Validated: %s", req.Title),
	}).Info("notification sent")
	return nil
}

// NotifyConfirmed 通知申请人与评审人预订已确认
func (n *logNotifier) NotifyConfirmed(ctx context.Context, req *model.GovernanceRequestModel, recipients []string) error {
	n.logger.WithFields(logrus.Fields{
		"recipients": recipients,
		"subject":    fmt.Sprintf("Booking Confirmed: %s", req.Title),
		"start_at":   req.BookingStartAt,
		"duration":   req.EstimatedDuration,
	}).Info("notification sent")
	return nil
}
