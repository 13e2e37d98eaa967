package controllers

import (
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceRemarkController 定义备注控制器接口
type InterfaceRemarkController interface {
	GetDeviceRemarks()
	CreateRemark()
	UpdateRemark()
	MarkInappropriate()
	DeleteRemark()
}

// RemarkController 处理用户设备备注请求
type RemarkController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewRemarkController 创建一个新的备注控制器
func NewRemarkController(ctx *gin.Context, container *container.ServiceContainer) *RemarkController {
	return &RemarkController{
		Ctx:       ctx,
		Container: container,
	}
}

// RemarkInput 新增/编辑备注请求
type RemarkInput struct {
	Content string `json:"content" binding:"required" example:"该设备蓝牙模块偶发断连"`
}

// InappropriateInput 标记不当内容请求
type InappropriateInput struct {
	Inappropriate bool `json:"inappropriate"`
}

// HandleRemarkFunc 返回一个处理备注请求的Gin处理函数
func HandleRemarkFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewRemarkController(ctx, container)

		switch method {
		case "getDeviceRemarks":
			controller.GetDeviceRemarks()
		case "create":
			controller.CreateRemark()
		case "update":
			controller.UpdateRemark()
		case "markInappropriate":
			controller.MarkInappropriate()
		case "delete":
			controller.DeleteRemark()
		default:
			respondInvalidMethod(ctx)
		}
	}
}

func (c *RemarkController) remarkService() services.InterfaceRemarkService {
	return c.Container.GetService("remark").(services.InterfaceRemarkService)
}

// 1 GetDeviceRemarks 设备的备注列表
// @Summary 设备备注列表
// @Tags remark
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Success 200 {array} models.UserRemark
// @Failure 500 {object} ErrorResponse
// @Router /devices/{id}/remarks [get]
func (c *RemarkController) GetDeviceRemarks() {
	remarks, err := c.remarkService().ListByDevice(c.Ctx.Param("id"))
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, remarks)
}

// 2 CreateRemark 新增备注
// @Summary 新增设备备注
// @Tags remark
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "设备ID"
// @Param request body RemarkInput true "备注内容"
// @Success 200 {object} models.UserRemark
// @Failure 400 {object} ErrorResponse
// @Router /devices/{id}/remarks [post]
func (c *RemarkController) CreateRemark() {
	var input RemarkInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	operator, _ := currentOperator(c.Ctx)
	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)
	device, err := deviceService.GetDeviceByID(c.Ctx.Param("id"))
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	remark := &models.UserRemark{
		DeviceID:   device.ID,
		DeviceType: device.DeviceType,
		Content:    input.Content,
		Creator:    operator,
	}
	if err := c.remarkService().Create(remark); err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, remark)
}

// 3 UpdateRemark 修改备注
// @Summary 修改设备备注
// @Description 只有创建人可以修改
// @Tags remark
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "备注ID"
// @Param request body RemarkInput true "备注内容"
// @Success 200 {object} models.UserRemark
// @Failure 403 {object} ErrorResponse
// @Router /remarks/{id} [put]
func (c *RemarkController) UpdateRemark() {
	var input RemarkInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	operator, _ := currentOperator(c.Ctx)
	remark, err := c.remarkService().Update(c.Ctx.Param("id"), operator, input.Content)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, remark)
}

// 4 MarkInappropriate 标记不当内容
// @Summary 标记不当备注
// @Tags remark
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "备注ID"
// @Param request body InappropriateInput true "标记"
// @Success 200 {object} nil
// @Failure 404 {object} ErrorResponse
// @Router /remarks/{id}/inappropriate [put]
func (c *RemarkController) MarkInappropriate() {
	var input InappropriateInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	if err := c.remarkService().MarkInappropriate(c.Ctx.Param("id"), input.Inappropriate); err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, nil)
}

// 5 DeleteRemark 删除备注
// @Summary 删除设备备注
// @Description 创建人或管理员可删
// @Tags remark
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "备注ID"
// @Success 200 {object} nil
// @Failure 403 {object} ErrorResponse
// @Router /remarks/{id} [delete]
func (c *RemarkController) DeleteRemark() {
	operator, isAdmin := currentOperator(c.Ctx)
	if err := c.remarkService().Delete(c.Ctx.Param("id"), operator, isAdmin); err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, nil)
}
