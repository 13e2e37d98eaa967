package controllers

import (
	"time"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceLifecycleController 定义设备生命周期控制器接口
type InterfaceLifecycleController interface {
	Borrow()
	ForceBorrow()
	Return()
	Transfer()
	ReportLost()
	ReportDamage()
	Found()
	Repaired()
	NotFound()
	CustodianChange()
	Renew()
	Ship()
	Unship()
	ChangeStatus()
}

// LifecycleController 处理设备借还等状态迁移请求
type LifecycleController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewLifecycleController 创建一个新的生命周期控制器
func NewLifecycleController(ctx *gin.Context, container *container.ServiceContainer) *LifecycleController {
	return &LifecycleController{
		Ctx:       ctx,
		Container: container,
	}
}

// BorrowInput 借用请求体
type BorrowInput struct {
	Borrower           string     `json:"borrower" example:"张三"`
	Phone              string     `json:"phone" example:"13800000000"`
	Location           string     `json:"location" example:"3楼实验室"`
	Reason             string     `json:"reason" example:"整车联调"`
	ExpectedReturnDate *time.Time `json:"expected_return_date"`
}

// TransferInput 转借请求体
type TransferInput struct {
	NewBorrower string `json:"new_borrower" binding:"required" example:"李四"`
	Phone       string `json:"phone"`
	Reason      string `json:"reason"`
}

// DamageInput 损坏报备请求体
type DamageInput struct {
	Reason string `json:"reason" binding:"required" example:"屏幕碎裂"`
}

// RecoverInput 找回/修复请求体
type RecoverInput struct {
	Action      string `json:"action" binding:"required" example:"keep"`
	NewBorrower string `json:"new_borrower"`
	Phone       string `json:"phone"`
}

// CustodianInput 保管人变更请求体
type CustodianInput struct {
	NewCustodian string `json:"new_custodian" binding:"required" example:"王五"`
}

// RenewInput 续期请求体
type RenewInput struct {
	ExpectedReturnDate time.Time `json:"expected_return_date" binding:"required"`
}

// ShipInput 寄出请求体
type ShipInput struct {
	Remark string `json:"remark" example:"顺丰到付，寄往上海车间"`
}

// StatusInput 状态变更请求体
type StatusInput struct {
	Status string `json:"status" binding:"required" example:"报废"`
}

// HandleLifecycleFunc 返回一个处理生命周期请求的Gin处理函数
func HandleLifecycleFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewLifecycleController(ctx, container)

		switch method {
		case "borrow":
			controller.Borrow()
		case "forceBorrow":
			controller.ForceBorrow()
		case "return":
			controller.Return()
		case "transfer":
			controller.Transfer()
		case "reportLost":
			controller.ReportLost()
		case "reportDamage":
			controller.ReportDamage()
		case "found":
			controller.Found()
		case "repaired":
			controller.Repaired()
		case "notFound":
			controller.NotFound()
		case "custodianChange":
			controller.CustodianChange()
		case "renew":
			controller.Renew()
		case "ship":
			controller.Ship()
		case "unship":
			controller.Unship()
		case "changeStatus":
			controller.ChangeStatus()
		default:
			respondInvalidMethod(ctx)
		}
	}
}

func (c *LifecycleController) lifecycleService() services.InterfaceLifecycleService {
	return c.Container.GetService("lifecycle").(services.InterfaceLifecycleService)
}

// invalidateCaches 状态迁移成功后清除统计缓存
func (c *LifecycleController) invalidateCaches() {
	redisService := c.Container.GetService("redis").(*services.RedisService)
	_ = redisService.InvalidateDeviceCaches()
}

// borrowRequest 组装借用请求，自助借用时借用人默认为当前登录用户
func (c *LifecycleController) borrowRequest(input *BorrowInput) *services.BorrowRequest {
	operator, isAdmin := currentOperator(c.Ctx)
	borrower := input.Borrower
	if borrower == "" {
		borrower = operator
	}
	return &services.BorrowRequest{
		Borrower:           borrower,
		Phone:              input.Phone,
		Location:           input.Location,
		Reason:             input.Reason,
		ExpectedReturnDate: input.ExpectedReturnDate,
		Operator:           operator,
		IsAdmin:            isAdmin,
	}
}

// 1 Borrow 借用设备
// @Summary 借用设备
// @Description 借用在库或保管中的设备，自助借用默认24小时后应还
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Param request body BorrowInput true "借用参数"
// @Success 200 {object} models.Device
// @Failure 400 {object} ErrorResponse "状态不可借或超出上限"
// @Router /devices/{id}/borrow [post]
func (c *LifecycleController) Borrow() {
	var input BorrowInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	device, err := c.lifecycleService().Borrow(c.Ctx.Param("id"), c.borrowRequest(&input))
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	c.invalidateCaches()
	respondOK(c.Ctx, device)
}

// 2 ForceBorrow 强制借出（管理员录入）
// @Summary 强制借出
// @Description 管理员代为登记借用可借设备，借用人收到借出通知
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Param request body BorrowInput true "借用参数"
// @Success 200 {object} models.Device
// @Failure 400 {object} ErrorResponse
// @Router /devices/{id}/force-borrow [post]
func (c *LifecycleController) ForceBorrow() {
	var input BorrowInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	device, err := c.lifecycleService().ForceBorrow(c.Ctx.Param("id"), c.borrowRequest(&input))
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	c.invalidateCaches()
	respondOK(c.Ctx, device)
}

// 3 Return 归还设备
// @Summary 归还设备
// @Description 归还自己名下的设备，管理员归还他人设备按强制归还处理
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Success 200 {object} models.Device
// @Failure 403 {object} ErrorResponse "只能归还自己名下的设备"
// @Router /devices/{id}/return [post]
func (c *LifecycleController) Return() {
	operator, isAdmin := currentOperator(c.Ctx)

	device, err := c.lifecycleService().Return(c.Ctx.Param("id"), operator, isAdmin)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	c.invalidateCaches()
	respondOK(c.Ctx, device)
}

// 4 Transfer 转借设备
// @Summary 转借设备
// @Description 把名下设备转借给其他借用人，应还时间重置为24小时后
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Param request body TransferInput true "转借参数"
// @Success 200 {object} models.Device
// @Failure 400 {object} ErrorResponse
// @Router /devices/{id}/transfer [post]
func (c *LifecycleController) Transfer() {
	var input TransferInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	operator, isAdmin := currentOperator(c.Ctx)
	device, err := c.lifecycleService().Transfer(c.Ctx.Param("id"), &services.TransferRequest{
		NewBorrower: input.NewBorrower,
		Phone:       input.Phone,
		Reason:      input.Reason,
		Operator:    operator,
		IsAdmin:     isAdmin,
	})
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	c.invalidateCaches()
	respondOK(c.Ctx, device)
}

// 5 ReportLost 丢失报备
// @Summary 丢失报备
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Success 200 {object} models.Device
// @Failure 400 {object} ErrorResponse
// @Router /devices/{id}/report-lost [post]
func (c *LifecycleController) ReportLost() {
	operator, isAdmin := currentOperator(c.Ctx)

	device, err := c.lifecycleService().ReportLost(c.Ctx.Param("id"), operator, isAdmin)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	c.invalidateCaches()
	respondOK(c.Ctx, device)
}

// 6 ReportDamage 损坏报备
// @Summary 损坏报备
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Param request body DamageInput true "损坏原因"
// @Success 200 {object} models.Device
// @Failure 400 {object} ErrorResponse
// @Router /devices/{id}/report-damage [post]
func (c *LifecycleController) ReportDamage() {
	var input DamageInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	operator, isAdmin := currentOperator(c.Ctx)
	device, err := c.lifecycleService().ReportDamage(c.Ctx.Param("id"), input.Reason, operator, isAdmin)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	c.invalidateCaches()
	respondOK(c.Ctx, device)
}

// recover 找回/修复共用的请求处理
func (c *LifecycleController) recover(handle func(string, *services.RecoverRequest) (*models.Device, error)) {
	var input RecoverInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	operator, _ := currentOperator(c.Ctx)
	device, err := handle(c.Ctx.Param("id"), &services.RecoverRequest{
		Action:      input.Action,
		NewBorrower: input.NewBorrower,
		Phone:       input.Phone,
		Operator:    operator,
	})
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	c.invalidateCaches()
	respondOK(c.Ctx, device)
}

// 7 Found 丢失设备找回
// @Summary 丢失设备找回
// @Description 找回后可留在原借用人名下、归还入库或转交新借用人
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Param request body RecoverInput true "去向参数，action 取 keep/return/transfer"
// @Success 200 {object} models.Device
// @Failure 400 {object} ErrorResponse
// @Router /devices/{id}/found [post]
func (c *LifecycleController) Found() {
	c.recover(c.lifecycleService().Found)
}

// 8 Repaired 损坏设备修复
// @Summary 损坏设备修复
// @Description 修复后可留在原借用人名下、归还入库或转交新借用人
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Param request body RecoverInput true "去向参数，action 取 keep/return/transfer"
// @Success 200 {object} models.Device
// @Failure 400 {object} ErrorResponse
// @Router /devices/{id}/repaired [post]
func (c *LifecycleController) Repaired() {
	c.recover(c.lifecycleService().Repaired)
}

// 9 NotFound 借用人未找到
// @Summary 借用人未找到
// @Description 有上一任借用人时退回其名下，否则按丢失处理
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Success 200 {object} models.Device
// @Failure 400 {object} ErrorResponse
// @Router /devices/{id}/not-found [post]
func (c *LifecycleController) NotFound() {
	operator, _ := currentOperator(c.Ctx)

	device, err := c.lifecycleService().NotFound(c.Ctx.Param("id"), operator)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	c.invalidateCaches()
	respondOK(c.Ctx, device)
}

// 10 CustodianChange 保管人变更
// @Summary 保管人变更
// @Description 变更保管中设备的保管人，新保管人收到通知
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Param request body CustodianInput true "新保管人"
// @Success 200 {object} models.Device
// @Failure 400 {object} ErrorResponse
// @Router /devices/{id}/custodian [post]
func (c *LifecycleController) CustodianChange() {
	var input CustodianInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	operator, _ := currentOperator(c.Ctx)
	device, err := c.lifecycleService().CustodianChange(c.Ctx.Param("id"), input.NewCustodian, operator)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, device)
}

// 11 Renew 借用续期
// @Summary 借用续期
// @Description 延长应还时间，逾期超过3天的设备不允许续期
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Param request body RenewInput true "新的应还时间"
// @Success 200 {object} models.Device
// @Failure 400 {object} ErrorResponse "逾期超过3天不能续期"
// @Router /devices/{id}/renew [post]
func (c *LifecycleController) Renew() {
	var input RenewInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	operator, isAdmin := currentOperator(c.Ctx)
	device, err := c.lifecycleService().Renew(c.Ctx.Param("id"), input.ExpectedReturnDate, operator, isAdmin)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	c.invalidateCaches()
	respondOK(c.Ctx, device)
}

// 12 Ship 寄出设备
// @Summary 寄出设备
// @Description 寄出车机或仪表，借出中的设备保存借用快照以便还原
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Param request body ShipInput true "寄出备注"
// @Success 200 {object} models.Device
// @Failure 400 {object} ErrorResponse "仅车机和仪表支持寄出"
// @Router /devices/{id}/ship [post]
func (c *LifecycleController) Ship() {
	var input ShipInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	operator, _ := currentOperator(c.Ctx)
	device, err := c.lifecycleService().Ship(c.Ctx.Param("id"), &services.ShipRequest{
		Remark:   input.Remark,
		Operator: operator,
	})
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	c.invalidateCaches()
	respondOK(c.Ctx, device)
}

// 13 Unship 取消寄出
// @Summary 取消寄出
// @Description 寄出前有借用人的还原为借出状态，否则回到库中
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Success 200 {object} models.Device
// @Failure 400 {object} ErrorResponse
// @Router /devices/{id}/unship [post]
func (c *LifecycleController) Unship() {
	operator, _ := currentOperator(c.Ctx)

	device, err := c.lifecycleService().Unship(c.Ctx.Param("id"), operator)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	c.invalidateCaches()
	respondOK(c.Ctx, device)
}

// 14 ChangeStatus 管理员变更设备状态
// @Summary 变更设备状态
// @Description 管理员直接变更设备状态，报废后不可逆
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Param request body StatusInput true "目标状态"
// @Success 200 {object} models.Device
// @Failure 400 {object} ErrorResponse "报废设备状态不能再变更"
// @Router /devices/{id}/status [put]
func (c *LifecycleController) ChangeStatus() {
	var input StatusInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	operator, _ := currentOperator(c.Ctx)
	device, err := c.lifecycleService().ChangeStatus(c.Ctx.Param("id"), models.DeviceStatus(input.Status), operator)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	logService := c.Container.GetService("operation_log").(services.InterfaceOperationLogService)
	_ = logService.Add(operator, "变更设备状态为「"+input.Status+"」", device.Name)

	c.invalidateCaches()
	respondOK(c.Ctx, device)
}
