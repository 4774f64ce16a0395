package service

import (
	"errors"
	"fmt"
	"strings"
)

// 核心业务错误
// 控制器依赖 errors.Is / errors.As 将其映射为 HTTP 状态码
var (
	ErrRequestNotFound     = errors.New("request not found")
	ErrAttachmentNotFound  = errors.New("attachment not found")
	ErrInvalidState        = errors.New("operation not allowed in current status")
	ErrInvalidReason       = errors.New("rejection reason must be at least 10 characters")
	ErrSlotConflict        = errors.New("slot is no longer available")
	ErrRequestNotValidated = errors.New("request is not in validated status")
	ErrRequestNotTentative = errors.New("request is not in tentative status")
	ErrTopicNotConfigured  = errors.New("topic is not configured")
	ErrUnauthorized        = errors.New("caller lacks required role")
	ErrSelfLockout         = errors.New("cannot remove your own admin privileges")
)

// MissingDocumentsError 缺失证明文件错误
// Kinds 携带全部缺失的证明类型,供前端逐项高亮
type MissingDocumentsError struct {
	Kinds []string
}

func (e *MissingDocumentsError) Error() string {
	return fmt.Sprintf("missing required documents: %s", strings.Join(e.Kinds, ", "))
}
