package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OperationLog 管理端操作流水
type OperationLog struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OperationTime    time.Time `gorm:"not null;index" json:"operation_time"`
	Operator         string    `gorm:"type:varchar(50)" json:"operator"`
	OperationContent string    `gorm:"type:varchar(255)" json:"operation_content"`
	DeviceInfo       string    `gorm:"type:varchar(100)" json:"device_info"`
	CreatedAt        time.Time `json:"created_at"`
}

func (l *OperationLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// ViewRecord 设备详情查看记录，仅保留最近100条
type ViewRecord struct {
	ID         string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	DeviceID   string     `gorm:"type:varchar(36);not null;index" json:"device_id"`
	DeviceType DeviceType `gorm:"type:varchar(20)" json:"device_type"`
	Viewer     string     `gorm:"type:varchar(50)" json:"viewer"`
	ViewTime   time.Time  `gorm:"not null;index" json:"view_time"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (v *ViewRecord) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
