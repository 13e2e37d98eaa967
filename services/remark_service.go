package services

import (
	"errors"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/config"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/errcode"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"

	"gorm.io/gorm"
)

// InterfaceRemarkService defines the user remark interface
type InterfaceRemarkService interface {
	ListByDevice(deviceID string) ([]models.UserRemark, error)
	Create(remark *models.UserRemark) error
	Update(id string, operator string, content string) (*models.UserRemark, error)
	MarkInappropriate(id string, inappropriate bool) error
	Delete(id string, operator string, isAdmin bool) error
}

// RemarkService 用户设备备注服务，备注只有创建人可以编辑
type RemarkService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewRemarkService 创建一个新的备注服务
func NewRemarkService(db *gorm.DB, cfg *config.Config) InterfaceRemarkService {
	return &RemarkService{
		DB:     db,
		Config: cfg,
	}
}

func (s *RemarkService) get(id string) (*models.UserRemark, error) {
	var remark models.UserRemark
	if err := s.DB.Where("id = ?", id).First(&remark).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errcode.New(errcode.ErrRemarkNotFound)
		}
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return &remark, nil
}

// 1 ListByDevice 查询设备的全部备注，最新的在前
func (s *RemarkService) ListByDevice(deviceID string) ([]models.UserRemark, error) {
	var remarks []models.UserRemark
	err := s.DB.Where("device_id = ?", deviceID).
		Order("created_at DESC").
		Find(&remarks).Error
	if err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return remarks, nil
}

// 2 Create 新增备注
func (s *RemarkService) Create(remark *models.UserRemark) error {
	if remark.Content == "" || remark.DeviceID == "" {
		return errcode.New(errcode.ErrValidation)
	}
	if err := s.DB.Create(remark).Error; err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}

// 3 Update 修改备注内容，只能改自己创建的
func (s *RemarkService) Update(id string, operator string, content string) (*models.UserRemark, error) {
	remark, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if remark.Creator != operator {
		return nil, errcode.New(errcode.ErrUnauthorizedOperation)
	}
	if content == "" {
		return nil, errcode.New(errcode.ErrValidation)
	}
	if err := s.DB.Model(remark).Update("content", content).Error; err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return s.get(id)
}

// 4 MarkInappropriate 管理员标记/取消标记不当内容
func (s *RemarkService) MarkInappropriate(id string, inappropriate bool) error {
	remark, err := s.get(id)
	if err != nil {
		return err
	}
	if err := s.DB.Model(remark).Update("is_inappropriate", inappropriate).Error; err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}

// 5 Delete 删除备注，创建人或管理员可删
func (s *RemarkService) Delete(id string, operator string, isAdmin bool) error {
	remark, err := s.get(id)
	if err != nil {
		return err
	}
	if !isAdmin && remark.Creator != operator {
		return errcode.New(errcode.ErrUnauthorizedOperation)
	}
	if err := s.DB.Delete(remark).Error; err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}
