package services

import (
	"errors"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/config"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/errcode"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"

	"gorm.io/gorm"
)

// SpecialAnnouncementLimit 同时上架的特殊公告上限，超出时最旧的自动下架
const SpecialAnnouncementLimit = 3

// InterfaceAnnouncementService defines the announcement management interface
type InterfaceAnnouncementService interface {
	ListActive() ([]models.Announcement, error)
	ListAll() ([]models.Announcement, error)
	Create(announcement *models.Announcement) error
	Update(id string, updates map[string]interface{}) (*models.Announcement, error)
	SetActive(id string, active bool) error
	ForceShow(id string) error
	Delete(id string) error
}

// AnnouncementService 公告服务
type AnnouncementService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewAnnouncementService 创建一个新的公告服务
func NewAnnouncementService(db *gorm.DB, cfg *config.Config) InterfaceAnnouncementService {
	return &AnnouncementService{
		DB:     db,
		Config: cfg,
	}
}

func (s *AnnouncementService) get(db *gorm.DB, id string) (*models.Announcement, error) {
	var announcement models.Announcement
	if err := db.Where("id = ?", id).First(&announcement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errcode.New(errcode.ErrAnnouncementNotFound)
		}
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return &announcement, nil
}

// 1 ListActive 用户端可见的公告，按 SortOrder 升序、创建时间倒序
func (s *AnnouncementService) ListActive() ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := s.DB.Where("is_active = ?", true).
		Order("sort_order ASC, created_at DESC").
		Find(&announcements).Error
	if err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return announcements, nil
}

// 2 ListAll 管理端查看全部公告
func (s *AnnouncementService) ListAll() ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := s.DB.Order("sort_order ASC, created_at DESC").Find(&announcements).Error
	if err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return announcements, nil
}

// 3 Create 新增公告，特殊公告超过上限时把最旧的自动下架
func (s *AnnouncementService) Create(announcement *models.Announcement) error {
	if announcement.Title == "" {
		return errcode.New(errcode.ErrValidation)
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(announcement).Error; err != nil {
			return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
		}
		if announcement.AnnouncementType == models.AnnouncementTypeSpecial && announcement.IsActive {
			return s.enforceSpecialLimit(tx)
		}
		return nil
	})
}

// 4 Update 更新公告
func (s *AnnouncementService) Update(id string, updates map[string]interface{}) (*models.Announcement, error) {
	announcement, err := s.get(s.DB, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(announcement).Updates(updates).Error; err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return s.get(s.DB, id)
}

// 5 SetActive 上架/下架公告，特殊公告上架后同样受上限约束
func (s *AnnouncementService) SetActive(id string, active bool) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		announcement, err := s.get(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Model(announcement).Update("is_active", active).Error; err != nil {
			return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
		}
		if active && announcement.AnnouncementType == models.AnnouncementTypeSpecial {
			return s.enforceSpecialLimit(tx)
		}
		return nil
	})
}

// 6 ForceShow 强制重新弹窗，版本号递增后客户端会再次展示
func (s *AnnouncementService) ForceShow(id string) error {
	announcement, err := s.get(s.DB, id)
	if err != nil {
		return err
	}
	err = s.DB.Model(announcement).
		UpdateColumn("force_show_version", gorm.Expr("force_show_version + 1")).Error
	if err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}

// 7 Delete 删除公告
func (s *AnnouncementService) Delete(id string) error {
	announcement, err := s.get(s.DB, id)
	if err != nil {
		return err
	}
	if err := s.DB.Delete(announcement).Error; err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}

// enforceSpecialLimit 上架中的特殊公告超过上限时，下架最旧的
func (s *AnnouncementService) enforceSpecialLimit(tx *gorm.DB) error {
	var active []models.Announcement
	err := tx.Where("announcement_type = ? AND is_active = ?", models.AnnouncementTypeSpecial, true).
		Order("created_at DESC").
		Find(&active).Error
	if err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	for i := SpecialAnnouncementLimit; i < len(active); i++ {
		if err := tx.Model(&active[i]).Update("is_active", false).Error; err != nil {
			return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
		}
	}
	return nil
}
