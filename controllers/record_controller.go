package controllers

import (
	"time"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceRecordController 定义记录控制器接口
type InterfaceRecordController interface {
	GetRecords()
	GetDeviceRecords()
	GetOverdue()
	GetViewRecords()
	GetOperationLogs()
}

// RecordController 处理借还记录、逾期报表和操作流水的查询请求
type RecordController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewRecordController 创建一个新的记录控制器
func NewRecordController(ctx *gin.Context, container *container.ServiceContainer) *RecordController {
	return &RecordController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleRecordFunc 返回一个处理记录查询请求的Gin处理函数
func HandleRecordFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewRecordController(ctx, container)

		switch method {
		case "getRecords":
			controller.GetRecords()
		case "getDeviceRecords":
			controller.GetDeviceRecords()
		case "getOverdue":
			controller.GetOverdue()
		case "getViewRecords":
			controller.GetViewRecords()
		case "getOperationLogs":
			controller.GetOperationLogs()
		default:
			respondInvalidMethod(ctx)
		}
	}
}

// 1 GetRecords 分页查询借还记录
// @Summary 查询借还记录
// @Description 按设备类型、设备名称、操作类型和时间范围分页查询，按操作时间倒序
// @Tags record
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param device_type query string false "设备类型"
// @Param device_name query string false "设备名称，模糊匹配"
// @Param operation_type query string false "操作类型"
// @Param start_time query string false "开始时间"
// @Param end_time query string false "结束时间"
// @Param pageNum query int false "页码"
// @Param pageSize query int false "每页条数"
// @Success 200 {array} models.Record
// @Failure 500 {object} ErrorResponse
// @Router /records [get]
func (c *RecordController) GetRecords() {
	var query services.RecordQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	recordService := c.Container.GetService("record").(services.InterfaceRecordService)
	records, pagination, err := recordService.ListRecords(&query)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondPage(c.Ctx, records, pagination)
}

// 2 GetDeviceRecords 查询单台设备的借还记录
// @Summary 查询设备借还记录
// @Tags record
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Success 200 {array} models.Record
// @Failure 500 {object} ErrorResponse
// @Router /devices/{id}/records [get]
func (c *RecordController) GetDeviceRecords() {
	recordService := c.Container.GetService("record").(services.InterfaceRecordService)
	records, err := recordService.ListDeviceRecords(c.Ctx.Param("id"))
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, records)
}

// 3 GetOverdue 逾期报表
// @Summary 逾期报表
// @Description 超过应还时间1小时以上的借出设备，按逾期天数从多到少排序，结果缓存1分钟
// @Tags record
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.OverdueEntry
// @Failure 500 {object} ErrorResponse
// @Router /records/overdue [get]
func (c *RecordController) GetOverdue() {
	redisService := c.Container.GetService("redis").(*services.RedisService)
	if entries, err := redisService.GetCachedOverdue(); err == nil {
		respondOK(c.Ctx, entries)
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)
	entries, err := deviceService.ListOverdue(time.Now())
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	_ = redisService.CacheOverdue(entries, services.StatsCacheTTL)
	respondOK(c.Ctx, entries)
}

// 4 GetViewRecords 设备查看记录
// @Summary 设备查看记录
// @Description 最近100条设备详情查看记录
// @Tags record
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ViewRecord
// @Failure 500 {object} ErrorResponse
// @Router /records/views [get]
func (c *RecordController) GetViewRecords() {
	recordService := c.Container.GetService("record").(services.InterfaceRecordService)
	records, err := recordService.ListViewRecords()
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, records)
}

// 5 GetOperationLogs 管理端操作流水
// @Summary 管理端操作流水
// @Tags record
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param operator query string false "操作人"
// @Param start_time query string false "开始时间"
// @Param end_time query string false "结束时间"
// @Param pageNum query int false "页码"
// @Param pageSize query int false "每页条数"
// @Success 200 {array} models.OperationLog
// @Failure 500 {object} ErrorResponse
// @Router /records/operation-logs [get]
func (c *RecordController) GetOperationLogs() {
	var query services.OperationLogQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	logService := c.Container.GetService("operation_log").(services.InterfaceOperationLogService)
	logs, pagination, err := logService.List(&query)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondPage(c.Ctx, logs, pagination)
}
