package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRemark 用户对设备的备注，只有创建人可以编辑，管理员可标记不当
type UserRemark struct {
	ID              string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	DeviceID        string     `gorm:"type:varchar(36);not null;index" json:"device_id"`
	DeviceType      DeviceType `gorm:"type:varchar(20)" json:"device_type"`
	Content         string     `gorm:"type:varchar(500);not null" json:"content"`
	Creator         string     `gorm:"type:varchar(50)" json:"creator"`
	IsInappropriate bool       `gorm:"default:false" json:"is_inappropriate"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (r *UserRemark) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
