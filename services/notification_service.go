package services

import (
	"errors"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/config"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/errcode"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"

	"gorm.io/gorm"
)

// InterfaceNotificationService defines the in-app notification interface
type InterfaceNotificationService interface {
	ListByUser(userID string, query *models.PaginationQuery) ([]models.Notification, models.PaginationResult, error)
	UnreadCount(userID string) (int64, error)
	MarkRead(userID string, notificationID string) error
	MarkAllRead(userID string) error
	Add(notification *models.Notification) error
}

// NotificationService 站内通知服务。通知创建后只允许标记已读。
type NotificationService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewNotificationService 创建一个新的通知服务
func NewNotificationService(db *gorm.DB, cfg *config.Config) InterfaceNotificationService {
	return &NotificationService{
		DB:     db,
		Config: cfg,
	}
}

// 1 ListByUser 分页查询用户的通知，最新的在前
func (s *NotificationService) ListByUser(userID string, query *models.PaginationQuery) ([]models.Notification, models.PaginationResult, error) {
	db := s.DB.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}

	pageNum := query.PageNum
	pageSize := query.PageSize
	if pageNum <= 0 {
		pageNum = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	var notifications []models.Notification
	err := db.Order("created_at DESC").
		Offset((pageNum - 1) * pageSize).
		Limit(pageSize).
		Find(&notifications).Error
	if err != nil {
		return nil, models.PaginationResult{}, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return notifications, models.NewPaginationResult(int(total), pageNum, pageSize), nil
}

// 2 UnreadCount 未读通知数
func (s *NotificationService) UnreadCount(userID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return count, nil
}

// 3 MarkRead 标记单条通知已读，只能操作自己的通知
func (s *NotificationService) MarkRead(userID string, notificationID string) error {
	var notification models.Notification
	err := s.DB.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errcode.New(errcode.ErrNotificationNotFound)
		}
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	if notification.IsRead {
		return nil
	}
	if err := s.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}

// 4 MarkAllRead 一键已读
func (s *NotificationService) MarkAllRead(userID string) error {
	err := s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}

// 5 Add 新增通知，管理员广播等场景使用
func (s *NotificationService) Add(notification *models.Notification) error {
	if err := s.DB.Create(notification).Error; err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}
