package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 借用人账号
type User struct {
	ID         string `gorm:"type:varchar(36);primaryKey" json:"id"`
	WechatName string `gorm:"type:varchar(50)" json:"wechat_name"`
	Phone      string `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	Password   string `gorm:"type:varchar(100);not null" json:"-"` // bcrypt哈希，不下发
	// BorrowerName 借用人名称，设备表中的 borrower 即为该字段的值；
	// 首次登录前可能为空，设置后全局唯一
	BorrowerName string    `gorm:"type:varchar(50);index" json:"borrower_name"`
	BorrowCount  int       `gorm:"default:0" json:"borrow_count"`
	IsFrozen     bool      `gorm:"default:false" json:"is_frozen"`
	IsAdmin      bool      `gorm:"default:false" json:"is_admin"`
	IsDeleted    bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
