package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 公告类型
const (
	AnnouncementTypeNormal  = "normal"
	AnnouncementTypeSpecial = "special"
)

// Announcement 公告。特殊公告最多同时上架3条，超出时最旧的自动下架。
type Announcement struct {
	ID               string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title            string `gorm:"type:varchar(100);not null" json:"title"`
	Content          string `gorm:"type:text" json:"content"`
	AnnouncementType string `gorm:"type:varchar(10);default:'normal'" json:"announcement_type"`
	IsActive         bool   `gorm:"default:true" json:"is_active"`
	// SortOrder 数字越小越靠前
	SortOrder int    `gorm:"default:0" json:"sort_order"`
	Creator   string `gorm:"type:varchar(50)" json:"creator"`
	// ForceShowVersion 版本号递增后，用户端会重新弹窗展示
	ForceShowVersion int       `gorm:"default:0" json:"force_show_version"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.AnnouncementType == "" {
		a.AnnouncementType = AnnouncementTypeNormal
	}
	return nil
}
