package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ticney/archi-planning/internal/service"
)

// APIError API 错误
type APIError struct {
	Code    int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrorHandlerMiddleware 错误处理中间件
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			var apiErr *APIError
			if errors.As(err, &apiErr) {
				Error(c, apiErr.Code, apiErr.Message, apiErr.Detail)
			} else {
				Error(c, http.StatusInternalServerError, "internal server error", err.Error())
			}
		}
	}
}

// WrapError 包装错误
func WrapError(err error, code int, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Detail:  err.Error(),
	}
}

// handleServiceError 将服务层哨兵错误映射为 HTTP 响应
// 返回 true 表示错误已处理,调用方应直接返回
func handleServiceError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var missing *service.MissingDocumentsError
	if errors.As(err, &missing) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"code":          http.StatusUnprocessableEntity,
			"message":       "missing required documents",
			"missing_kinds": missing.Kinds,
		})
		return true
	}

	switch {
	case errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrAttachmentNotFound):
		Error(c, http.StatusNotFound, "resource not found", err.Error())
	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrRequestNotValidated),
		errors.Is(err, service.ErrRequestNotTentative):
		Error(c, http.StatusConflict, "invalid state transition", err.Error())
	case errors.Is(err, service.ErrSlotConflict):
		Error(c, http.StatusConflict, "slot already booked", err.Error())
	case errors.Is(err, service.ErrInvalidReason),
		errors.Is(err, service.ErrTopicNotConfigured),
		errors.Is(err, service.ErrSelfLockout):
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		Error(c, http.StatusForbidden, "forbidden", err.Error())
	default:
		Error(c, http.StatusInternalServerError, "internal server error", err.Error())
	}
	return true
}
