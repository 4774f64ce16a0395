package utils

import (
	"errors"
	"regexp"
)

// idPattern 实体 ID 允许的字符集(UUID 及兼容的短 ID)
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// topicPattern 议题标识允许的字符集
var topicPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,31}$`)

// ValidateRequestID 验证治理请求 ID
func ValidateRequestID(id string) error {
	if id == "" {
		return errors.New("request ID is required")
	}
	if !idPattern.MatchString(id) {
		return errors.New("request ID contains invalid characters")
	}
	return nil
}

// ValidateAttachmentID 验证附件 ID
func ValidateAttachmentID(id string) error {
	if id == "" {
		return errors.New("attachment ID is required")
	}
	if !idPattern.MatchString(id) {
		return errors.New("attachment ID contains invalid characters")
	}
	return nil
}

// ValidateTopic 验证议题标识
func ValidateTopic(topic string) error {
	if topic == "" {
		return errors.New("topic is required")
	}
	if !topicPattern.MatchString(topic) {
		return errors.New("topic contains invalid characters")
	}
	return nil
}
