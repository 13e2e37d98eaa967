package controllers

import (
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceDeviceController 定义设备控制器接口
type InterfaceDeviceController interface {
	GetDevices()
	GetDevice()
	CreateDevice()
	UpdateDevice()
	DeleteDevice()
	GetStats()
	GetMyDevices()
}

// DeviceController 处理设备台账相关的请求
type DeviceController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDeviceController 创建一个新的设备控制器
func NewDeviceController(ctx *gin.Context, container *container.ServiceContainer) *DeviceController {
	return &DeviceController{
		Ctx:       ctx,
		Container: container,
	}
}

// DeviceRequestInput 新增/编辑设备请求
type DeviceRequestInput struct {
	Name          string `json:"name" binding:"required" example:"X01车机-03"`
	DeviceType    string `json:"device_type" binding:"required" example:"车机"`
	Model         string `json:"model" example:"G9-2024"`
	CabinetNumber string `json:"cabinet_number" example:"A-12"`
	Remark        string `json:"remark"`
	JiraAddress   string `json:"jira_address"`

	// 手机特有字段
	SN            string `json:"sn"`
	IMEI          string `json:"imei"`
	SystemVersion string `json:"system_version"`
	Carrier       string `json:"carrier"`

	// 车机/仪表特有字段
	SoftwareVersion   string `json:"software_version"`
	HardwareVersion   string `json:"hardware_version"`
	ProjectAttribute  string `json:"project_attribute"`
	ConnectionMethod  string `json:"connection_method"`
	OSVersion         string `json:"os_version"`
	OSPlatform        string `json:"os_platform"`
	ProductName       string `json:"product_name"`
	ScreenOrientation string `json:"screen_orientation"`
	ScreenResolution  string `json:"screen_resolution"`
}

// HandleDeviceFunc 返回一个处理设备请求的Gin处理函数
func HandleDeviceFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDeviceController(ctx, container)

		switch method {
		case "getDevices":
			controller.GetDevices()
		case "getDevice":
			controller.GetDevice()
		case "createDevice":
			controller.CreateDevice()
		case "updateDevice":
			controller.UpdateDevice()
		case "deleteDevice":
			controller.DeleteDevice()
		case "getStats":
			controller.GetStats()
		case "getMyDevices":
			controller.GetMyDevices()
		default:
			respondInvalidMethod(ctx)
		}
	}
}

// 1 GetDevices 分页查询设备列表
// @Summary 查询设备列表
// @Description 按类型、状态、关键字分页查询设备，关键字同时匹配名称、型号和借用人
// @Tags device
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param device_type query string false "设备类型"
// @Param status query string false "设备状态"
// @Param keyword query string false "关键字"
// @Param pageNum query int false "页码"
// @Param pageSize query int false "每页条数"
// @Success 200 {array} models.Device
// @Failure 500 {object} ErrorResponse
// @Router /devices [get]
func (c *DeviceController) GetDevices() {
	var query services.DeviceQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)
	devices, pagination, err := deviceService.ListDevices(&query)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondPage(c.Ctx, devices, pagination)
}

// 2 GetDevice 获取单个设备详情，同时记录一次查看
// @Summary 获取设备详情
// @Description 根据ID获取设备信息
// @Tags device
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Success 200 {object} models.Device
// @Failure 404 {object} ErrorResponse
// @Router /devices/{id} [get]
func (c *DeviceController) GetDevice() {
	id := c.Ctx.Param("id")

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)
	device, err := deviceService.GetDeviceByID(id)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	// 查看记录失败不影响详情返回
	operator, _ := currentOperator(c.Ctx)
	recordService := c.Container.GetService("record").(services.InterfaceRecordService)
	_ = recordService.AddViewRecord(device.ID, device.DeviceType, operator)

	respondOK(c.Ctx, device)
}

// 3 CreateDevice 新增设备
// @Summary 新增设备
// @Description 新增一台测试设备，名称在未删除设备中唯一
// @Tags device
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param device body DeviceRequestInput true "设备信息"
// @Success 200 {object} models.Device
// @Failure 400 {object} ErrorResponse "设备名称已存在"
// @Router /devices [post]
func (c *DeviceController) CreateDevice() {
	var req DeviceRequestInput
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	device := &models.Device{
		Name:              req.Name,
		DeviceType:        models.DeviceType(req.DeviceType),
		Model:             req.Model,
		CabinetNumber:     req.CabinetNumber,
		Remark:            req.Remark,
		JiraAddress:       req.JiraAddress,
		SN:                req.SN,
		IMEI:              req.IMEI,
		SystemVersion:     req.SystemVersion,
		Carrier:           req.Carrier,
		SoftwareVersion:   req.SoftwareVersion,
		HardwareVersion:   req.HardwareVersion,
		ProjectAttribute:  req.ProjectAttribute,
		ConnectionMethod:  req.ConnectionMethod,
		OSVersion:         req.OSVersion,
		OSPlatform:        req.OSPlatform,
		ProductName:       req.ProductName,
		ScreenOrientation: req.ScreenOrientation,
		ScreenResolution:  req.ScreenResolution,
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)
	if err := deviceService.CreateDevice(device); err != nil {
		respondError(c.Ctx, err)
		return
	}

	operator, _ := currentOperator(c.Ctx)
	logService := c.Container.GetService("operation_log").(services.InterfaceOperationLogService)
	_ = logService.Add(operator, "新增设备", device.Name+"("+string(device.DeviceType)+")")

	respondOK(c.Ctx, device)
}

// 4 UpdateDevice 更新设备基础信息
// @Summary 更新设备信息
// @Description 更新设备基础信息，状态和借用人等生命周期字段不在此修改
// @Tags device
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Param device body map[string]interface{} true "需要更新的字段"
// @Success 200 {object} models.Device
// @Failure 404 {object} ErrorResponse
// @Router /devices/{id} [put]
func (c *DeviceController) UpdateDevice() {
	id := c.Ctx.Param("id")

	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)
	device, err := deviceService.UpdateDevice(id, updates)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, device)
}

// 5 DeleteDevice 删除设备（软删除）
// @Summary 删除设备
// @Description 软删除设备，历史记录保留，名称可被新设备复用
// @Tags device
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Success 200 {object} nil
// @Failure 400 {object} ErrorResponse "借出或寄出状态不能删除"
// @Router /devices/{id} [delete]
func (c *DeviceController) DeleteDevice() {
	id := c.Ctx.Param("id")
	operator, _ := currentOperator(c.Ctx)

	lifecycleService := c.Container.GetService("lifecycle").(services.InterfaceLifecycleService)
	if err := lifecycleService.Delete(id, operator); err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, nil)
}

// 6 GetStats 首页统计
// @Summary 首页统计
// @Description 设备总数、可借数、借出数、逾期数，结果缓存1分钟
// @Tags device
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DeviceStats
// @Failure 500 {object} ErrorResponse
// @Router /devices/stats [get]
func (c *DeviceController) GetStats() {
	redisService := c.Container.GetService("redis").(*services.RedisService)
	if stats, err := redisService.GetCachedStats(); err == nil {
		respondOK(c.Ctx, stats)
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)
	stats, err := deviceService.GetStats()
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	_ = redisService.CacheStats(stats, services.StatsCacheTTL)
	respondOK(c.Ctx, stats)
}

// 7 GetMyDevices 我名下的设备
// @Summary 我名下的设备
// @Description 查询当前登录用户名下的全部借出设备
// @Tags device
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Device
// @Failure 500 {object} ErrorResponse
// @Router /devices/mine [get]
func (c *DeviceController) GetMyDevices() {
	operator, _ := currentOperator(c.Ctx)

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)
	devices, err := deviceService.ListMyDevices(operator)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, devices)
}
