package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 通知类型
const (
	NotificationTypeInfo    = "info"
	NotificationTypeSuccess = "success"
	NotificationTypeWarning = "warning"
	NotificationTypeError   = "error"
)

// Notification 站内通知，由借出/强制归还/转借/状态变更等操作触发。
// 创建后只允许标记已读。
type Notification struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID           string    `gorm:"type:varchar(36);index" json:"user_id"`
	UserName         string    `gorm:"type:varchar(50);index" json:"user_name"`
	Title            string    `gorm:"type:varchar(100)" json:"title"`
	Content          string    `gorm:"type:varchar(500)" json:"content"`
	DeviceName       string    `gorm:"type:varchar(100)" json:"device_name"`
	DeviceID         string    `gorm:"type:varchar(36)" json:"device_id"`
	IsRead           bool      `gorm:"default:false;index" json:"is_read"`
	NotificationType string    `gorm:"type:varchar(10);default:'info'" json:"notification_type"`
	CreatedAt        time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.NotificationType == "" {
		n.NotificationType = NotificationTypeInfo
	}
	return nil
}
