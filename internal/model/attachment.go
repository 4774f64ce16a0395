package model

import (
	"errors"
	"time"
)

// AttachmentModel 证明文件附件数据模型
type AttachmentModel struct {
	ID              string    `gorm:"primaryKey;type:varchar(64)"`
	RequestID       string    `gorm:"type:varchar(64);not null;index"` // 所属治理请求 ID
	ProofKind       string    `gorm:"type:varchar(64);not null;index"` // 证明类型标识
	StorageLocator  string    `gorm:"type:varchar(255);not null"` // 对象存储定位符
	OriginalName    string    `gorm:"type:varchar(255)"` // 原始文件名
	UploadedBy      string    `gorm:"type:varchar(64);not null"` // 上传人 ID
	UploadedAt      time.Time `gorm:"not null;index"`
}

// TableName 指定表名
func (AttachmentModel) TableName() string {
	return "attachments"
}

// Validate 验证附件模型
func (m *AttachmentModel) Validate() error {
	if m.ID == "" {
		return errors.New("attachment ID is required")
	}
	if m.RequestID == "" {
		return errors.New("request ID is required")
	}
	if m.ProofKind == "" {
		return errors.New("proof kind is required")
	}
	if m.StorageLocator == "" {
		return errors.New("storage locator is required")
	}
	if m.UploadedBy == "" {
		return errors.New("uploader ID is required")
	}
	return nil
}
