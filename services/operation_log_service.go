package services

import (
	"time"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/config"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/errcode"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"

	"gorm.io/gorm"
)

// OperationLogQuery 操作流水查询条件
type OperationLogQuery struct {
	models.PaginationQuery
	Operator  string     `form:"operator"`
	StartTime *time.Time `form:"start_time" time_format:"2006-01-02 15:04:05"`
	EndTime   *time.Time `form:"end_time" time_format:"2006-01-02 15:04:05"`
}

// InterfaceOperationLogService defines the admin operation log interface
type InterfaceOperationLogService interface {
	Add(operator, content, deviceInfo string) error
	List(query *OperationLogQuery) ([]models.OperationLog, models.PaginationResult, error)
}

// OperationLogService 管理端操作流水服务
type OperationLogService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewOperationLogService 创建一个新的操作流水服务
func NewOperationLogService(db *gorm.DB, cfg *config.Config) InterfaceOperationLogService {
	return &OperationLogService{
		DB:     db,
		Config: cfg,
	}
}

// 1 Add 追加一条操作流水
func (s *OperationLogService) Add(operator, content, deviceInfo string) error {
	log := models.OperationLog{
		OperationTime:    time.Now(),
		Operator:         operator,
		OperationContent: content,
		DeviceInfo:       deviceInfo,
	}
	if err := s.DB.Create(&log).Error; err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}

// 2 List 分页查询操作流水
func (s *OperationLogService) List(query *OperationLogQuery) ([]models.OperationLog, models.PaginationResult, error) {
	db := s.DB.Model(&models.OperationLog{})
	if query.Operator != "" {
		db = db.Where("operator = ?", query.Operator)
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

	var logs []models.OperationLog
	err := db.Order("operation_time DESC, id DESC").
		Offset((pageNum - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error
	if err != nil {
		return nil, models.PaginationResult{}, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return logs, models.NewPaginationResult(int(total), pageNum, pageSize), nil
}
