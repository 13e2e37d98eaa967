package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/config"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/errcode"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"

	"gorm.io/gorm"
)

// OverdueGrace 逾期宽限时长，超过应还时间不足该值不算逾期
const OverdueGrace = time.Hour

// DeviceQuery 设备列表查询条件
type DeviceQuery struct {
	models.PaginationQuery
	DeviceType string `form:"device_type"`
	Status     string `form:"status"`
	// Keyword 同时模糊匹配名称、型号和借用人
	Keyword string `form:"keyword"`
}

// InterfaceDeviceService defines the device query and maintenance interface
type InterfaceDeviceService interface {
	GetDeviceByID(id string) (*models.Device, error)
	ListDevices(query *DeviceQuery) ([]models.Device, models.PaginationResult, error)
	CreateDevice(device *models.Device) error
	UpdateDevice(id string, updates map[string]interface{}) (*models.Device, error)
	GetStats() (*models.DeviceStats, error)
	ListOverdue(now time.Time) ([]models.OverdueEntry, error)
	ListMyDevices(borrower string) ([]models.Device, error)
}

// DeviceService 提供设备台账的查询和维护服务。
// 状态迁移不在这里做，统一走 LifecycleService。
type DeviceService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewDeviceService 创建一个新的设备服务
func NewDeviceService(db *gorm.DB, cfg *config.Config) InterfaceDeviceService {
	return &DeviceService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetDeviceByID 根据ID获取设备
func (s *DeviceService) GetDeviceByID(id string) (*models.Device, error) {
	var device models.Device
	if err := s.DB.Where("id = ? AND is_deleted = ?", id, false).First(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errcode.New(errcode.ErrDeviceNotFound)
		}
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return &device, nil
}

// 2 ListDevices 按条件分页查询设备列表
func (s *DeviceService) ListDevices(query *DeviceQuery) ([]models.Device, models.PaginationResult, error) {
	db := s.DB.Model(&models.Device{}).Where("is_deleted = ?", false)
	if query.DeviceType != "" {
		db = db.Where("device_type = ?", query.DeviceType)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.Keyword != "" {
		keyword := "%" + strings.ToLower(query.Keyword) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(model) LIKE ? OR LOWER(borrower) LIKE ?",
			keyword, keyword, keyword)
	}

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
	// 默认最新录入的设备排在前面
	order := "created_at DESC"
	if query.Asc {
		order = "created_at ASC"
	}

	var devices []models.Device
	err := db.Order(order).
		Offset((pageNum - 1) * pageSize).
		Limit(pageSize).
		Find(&devices).Error
	if err != nil {
		return nil, models.PaginationResult{}, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}

	return devices, models.NewPaginationResult(int(total), pageNum, pageSize), nil
}

// 3 CreateDevice 新增设备。名称在未删除设备中唯一，
// 已软删除设备占用的名称可以复用。
func (s *DeviceService) CreateDevice(device *models.Device) error {
	if device.Name == "" || device.DeviceType == "" {
		return errcode.New(errcode.ErrValidation)
	}
	var count int64
	err := s.DB.Model(&models.Device{}).
		Where("name = ? AND is_deleted = ?", device.Name, false).
		Count(&count).Error
	if err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	if count > 0 {
		return errcode.NewWithMessage(errcode.ErrDuplicateName,
			fmt.Sprintf("设备名称「%s」已存在", device.Name))
	}
	if err := s.DB.Create(device).Error; err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}

// 4 UpdateDevice 更新设备基础信息。状态、借用人等生命周期字段不在此修改。
func (s *DeviceService) UpdateDevice(id string, updates map[string]interface{}) (*models.Device, error) {
	device, err := s.GetDeviceByID(id)
	if err != nil {
		return nil, err
	}

	// 生命周期字段只能走专门的操作接口
	for _, field := range []string{"status", "borrower", "is_deleted", "borrow_time", "expected_return_date"} {
		delete(updates, field)
	}

	if name, ok := updates["name"].(string); ok && name != device.Name {
		var count int64
		err := s.DB.Model(&models.Device{}).
			Where("name = ? AND is_deleted = ? AND id != ?", name, false, id).
			Count(&count).Error
		if err != nil {
			return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
		}
		if count > 0 {
			return nil, errcode.NewWithMessage(errcode.ErrDuplicateName,
				fmt.Sprintf("设备名称「%s」已存在", name))
		}
	}

	if err := s.DB.Model(device).Updates(updates).Error; err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return s.GetDeviceByID(id)
}

// 5 GetStats 首页统计：设备总数、可借数、借出数、逾期数
func (s *DeviceService) GetStats() (*models.DeviceStats, error) {
	stats := &models.DeviceStats{}
	base := func() *gorm.DB {
		return s.DB.Model(&models.Device{}).Where("is_deleted = ?", false)
	}
	if err := base().Count(&stats.TotalDevices).Error; err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	if err := base().
		Where("status IN ?", []models.DeviceStatus{models.DeviceStatusInStock, models.DeviceStatusInCustody}).
		Count(&stats.AvailableCount).Error; err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	if err := base().
		Where("status = ?", models.DeviceStatusBorrowed).
		Count(&stats.BorrowedCount).Error; err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}

	overdue, err := s.ListOverdue(time.Now())
	if err != nil {
		return nil, err
	}
	stats.OverdueCount = len(overdue)
	return stats, nil
}

// 6 ListOverdue 逾期报表。超过应还时间1小时以上才算逾期，
// 逾期天数和小时数都向下取整，按逾期天数从多到少排序。
func (s *DeviceService) ListOverdue(now time.Time) ([]models.OverdueEntry, error) {
	var devices []models.Device
	err := s.DB.
		Where("status = ? AND is_deleted = ? AND expected_return_date IS NOT NULL",
			models.DeviceStatusBorrowed, false).
		Find(&devices).Error
	if err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}

	entries := make([]models.OverdueEntry, 0)
	for _, device := range devices {
		overdue := now.Sub(*device.ExpectedReturnDate)
		if overdue <= OverdueGrace {
			continue
		}
		seconds := int(overdue.Seconds())
		entries = append(entries, models.OverdueEntry{
			DeviceID:           device.ID,
			DeviceName:         device.Name,
			DeviceType:         device.DeviceType,
			Borrower:           device.Borrower,
			Phone:              device.Phone,
			BorrowTime:         device.BorrowTime,
			ExpectedReturnDate: *device.ExpectedReturnDate,
			OverdueDays:        seconds / 86400,
			OverdueHours:       seconds / 3600,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].OverdueDays != entries[j].OverdueDays {
			return entries[i].OverdueDays > entries[j].OverdueDays
		}
		return entries[i].OverdueHours > entries[j].OverdueHours
	})
	return entries, nil
}

// 7 ListMyDevices 查询某借用人名下的全部借出设备
func (s *DeviceService) ListMyDevices(borrower string) ([]models.Device, error) {
	var devices []models.Device
	err := s.DB.
		Where("borrower = ? AND status = ? AND is_deleted = ?",
			borrower, models.DeviceStatusBorrowed, false).
		Order("borrow_time DESC").
		Find(&devices).Error
	if err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return devices, nil
}
