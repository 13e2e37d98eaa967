package controllers

import (
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceUserController 定义用户控制器接口
type InterfaceUserController interface {
	GetUsers()
	GetUser()
	GetProfile()
	UpdateUser()
	SetBorrowerName()
	SetFrozen()
	SetAdmin()
	ResetPassword()
	DeleteUser()
}

// UserController 处理用户管理相关的请求
type UserController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewUserController 创建一个新的用户控制器
func NewUserController(ctx *gin.Context, container *container.ServiceContainer) *UserController {
	return &UserController{
		Ctx:       ctx,
		Container: container,
	}
}

// BorrowerNameInput 设置借用人名称请求
type BorrowerNameInput struct {
	BorrowerName string `json:"borrower_name" binding:"required" example:"张三"`
}

// FrozenInput 冻结/解冻请求
type FrozenInput struct {
	Frozen bool `json:"frozen"`
}

// AdminFlagInput 授予/撤销管理员请求
type AdminFlagInput struct {
	IsAdmin bool `json:"is_admin"`
}

// HandleUserFunc 返回一个处理用户管理请求的Gin处理函数
func HandleUserFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewUserController(ctx, container)

		switch method {
		case "getUsers":
			controller.GetUsers()
		case "getUser":
			controller.GetUser()
		case "getProfile":
			controller.GetProfile()
		case "updateUser":
			controller.UpdateUser()
		case "setBorrowerName":
			controller.SetBorrowerName()
		case "setFrozen":
			controller.SetFrozen()
		case "setAdmin":
			controller.SetAdmin()
		case "resetPassword":
			controller.ResetPassword()
		case "deleteUser":
			controller.DeleteUser()
		default:
			respondInvalidMethod(ctx)
		}
	}
}

func (c *UserController) userService() services.InterfaceUserService {
	return c.Container.GetService("user").(services.InterfaceUserService)
}

// 1 GetUsers 分页查询用户列表
// @Summary 查询用户列表
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pageNum query int false "页码"
// @Param pageSize query int false "每页条数"
// @Success 200 {array} models.User
// @Failure 500 {object} ErrorResponse
// @Router /users [get]
func (c *UserController) GetUsers() {
	var query models.PaginationQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	users, pagination, err := c.userService().ListUsers(&query)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondPage(c.Ctx, users, pagination)
}

// 2 GetUser 获取单个用户
// @Summary 获取用户信息
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (c *UserController) GetUser() {
	user, err := c.userService().GetUserByID(c.Ctx.Param("id"))
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, user)
}

// 3 GetProfile 当前登录用户信息
// @Summary 当前用户信息
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse
// @Router /users/profile [get]
func (c *UserController) GetProfile() {
	userID := c.Ctx.GetString("user_id")
	user, err := c.userService().GetUserByID(userID)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, user)
}

// 4 UpdateUser 更新用户基础信息
// @Summary 更新用户信息
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Param request body map[string]interface{} true "需要更新的字段"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [put]
func (c *UserController) UpdateUser() {
	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	user, err := c.userService().UpdateUser(c.Ctx.Param("id"), updates)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, user)
}

// 5 SetBorrowerName 设置当前用户的借用人名称
// @Summary 设置借用人名称
// @Description 借用人名称全局唯一，设备台账以该名称关联用户
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BorrowerNameInput true "借用人名称"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse "名称已被使用"
// @Router /users/borrower-name [put]
func (c *UserController) SetBorrowerName() {
	var input BorrowerNameInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	userID := c.Ctx.GetString("user_id")
	user, err := c.userService().SetBorrowerName(userID, input.BorrowerName)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, user)
}

// 6 SetFrozen 冻结/解冻用户
// @Summary 冻结/解冻用户
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Param request body FrozenInput true "冻结标记"
// @Success 200 {object} nil
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/frozen [put]
func (c *UserController) SetFrozen() {
	var input FrozenInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	if err := c.userService().SetFrozen(c.Ctx.Param("id"), input.Frozen); err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, nil)
}

// 7 SetAdmin 授予/撤销管理员权限
// @Summary 授予/撤销管理员
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Param request body AdminFlagInput true "管理员标记"
// @Success 200 {object} nil
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/admin [put]
func (c *UserController) SetAdmin() {
	var input AdminFlagInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	if err := c.userService().SetAdmin(c.Ctx.Param("id"), input.IsAdmin); err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, nil)
}

// 8 ResetPassword 重置用户密码
// @Summary 重置用户密码
// @Description 管理员重置用户密码，返回随机生成的临时密码
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} map[string]interface{} "data 中包含临时密码"
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/password/reset [post]
func (c *UserController) ResetPassword() {
	tempPassword, err := c.userService().ResetPassword(c.Ctx.Param("id"))
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, gin.H{"temp_password": tempPassword})
}

// 9 DeleteUser 删除用户（软删除）
// @Summary 删除用户
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} nil
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser() {
	if err := c.userService().DeleteUser(c.Ctx.Param("id")); err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, nil)
}
