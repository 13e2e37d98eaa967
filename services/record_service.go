package services

import (
	"strings"
	"time"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/config"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/errcode"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"

	"gorm.io/gorm"
)

// ViewRecordLimit 设备查看记录只保留最近这么多条
const ViewRecordLimit = 100

// RecordQuery 借还记录查询条件
type RecordQuery struct {
	models.PaginationQuery
	DeviceType    string     `form:"device_type"`
	DeviceName    string     `form:"device_name"`
	OperationType string     `form:"operation_type"`
	StartTime     *time.Time `form:"start_time" time_format:"2006-01-02 15:04:05"`
	EndTime       *time.Time `form:"end_time" time_format:"2006-01-02 15:04:05"`
}

// InterfaceRecordService defines the borrow record query interface
type InterfaceRecordService interface {
	ListRecords(query *RecordQuery) ([]models.Record, models.PaginationResult, error)
	ListDeviceRecords(deviceID string) ([]models.Record, error)
	AddViewRecord(deviceID string, deviceType models.DeviceType, viewer string) error
	ListViewRecords() ([]models.ViewRecord, error)
}

// RecordService 借还记录查询服务。记录只追加不修改，
// 统一按操作时间倒序返回，同一时刻的按创建先后倒序。
type RecordService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewRecordService 创建一个新的借还记录服务
func NewRecordService(db *gorm.DB, cfg *config.Config) InterfaceRecordService {
	return &RecordService{
		DB:     db,
		Config: cfg,
	}
}

// 1 ListRecords 按条件分页查询借还记录
func (s *RecordService) ListRecords(query *RecordQuery) ([]models.Record, models.PaginationResult, error) {
	db := s.DB.Model(&models.Record{})
	if query.DeviceType != "" {
		db = db.Where("device_type = ?", query.DeviceType)
	}
	if query.DeviceName != "" {
		db = db.Where("LOWER(device_name) LIKE ?", "%"+strings.ToLower(query.DeviceName)+"%")
	}
	if query.OperationType != "" {
		db = db.Where("operation_type = ?", query.OperationType)
	}
	if query.StartTime != nil {
		db = db.Where("operation_time >= ?", *query.StartTime)
	}
	if query.EndTime != nil {
		db = db.Where("operation_time <= ?", *query.EndTime)
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

	var records []models.Record
	err := db.Order("operation_time DESC, id DESC").
		Offset((pageNum - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	if err != nil {
		return nil, models.PaginationResult{}, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return records, models.NewPaginationResult(int(total), pageNum, pageSize), nil
}

// 2 ListDeviceRecords 查询单台设备的全部借还记录
func (s *RecordService) ListDeviceRecords(deviceID string) ([]models.Record, error) {
	var records []models.Record
	err := s.DB.Where("device_id = ?", deviceID).
		Order("operation_time DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return records, nil
}

// 3 AddViewRecord 记录一次设备详情查看，超出上限时删除最旧的
func (s *RecordService) AddViewRecord(deviceID string, deviceType models.DeviceType, viewer string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		record := models.ViewRecord{
			DeviceID:   deviceID,
			DeviceType: deviceType,
			Viewer:     viewer,
			ViewTime:   time.Now(),
		}
		if err := tx.Create(&record).Error; err != nil {
			return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
		}

		var count int64
		if err := tx.Model(&models.ViewRecord{}).Count(&count).Error; err != nil {
			return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
		}
		if count > ViewRecordLimit {
			var stale []models.ViewRecord
			err := tx.Order("view_time ASC, id ASC").
				Limit(int(count) - ViewRecordLimit).
				Find(&stale).Error
			if err != nil {
				return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
			}
			if err := tx.Delete(&stale).Error; err != nil {
				return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
			}
		}
		return nil
	})
}

// 4 ListViewRecords 查询全部查看记录，最近的在前
func (s *RecordService) ListViewRecords() ([]models.ViewRecord, error) {
	var records []models.ViewRecord
	err := s.DB.Order("view_time DESC, id DESC").Find(&records).Error
	if err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return records, nil
}
