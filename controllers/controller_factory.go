package controllers

import (
	"net/http"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/errcode"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services/container"

	"github.com/gin-gonic/gin"
)

// BaseController 是所有控制器的基础接口
type BaseController interface {
	// 获取服务容器
	GetContainer() *container.ServiceContainer
	// 获取Gin上下文
	GetContext() *gin.Context
}

// BaseControllerImpl 是控制器的基础实现
type BaseControllerImpl struct {
	Container *container.ServiceContainer
	Context   *gin.Context
}

// GetContainer 实现 BaseController 接口
func (c *BaseControllerImpl) GetContainer() *container.ServiceContainer {
	return c.Container
}

// GetContext 实现 BaseController 接口
func (c *BaseControllerImpl) GetContext() *gin.Context {
	return c.Context
}

// ControllerFactory 用于创建控制器的工厂
type ControllerFactory struct {
	Container *container.ServiceContainer
}

// NewControllerFactory 创建一个新的控制器工厂
func NewControllerFactory(container *container.ServiceContainer) *ControllerFactory {
	return &ControllerFactory{
		Container: container,
	}
}

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"102002"`
	Message string      `json:"message" example:"设备当前状态不允许该操作"`
	Data    interface{} `json:"data"`
}

// respondOK 统一的成功响应
func respondOK(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    data,
	})
}

// respondPage 带分页信息的成功响应
func respondPage(ctx *gin.Context, data interface{}, pagination interface{}) {
	ctx.JSON(http.StatusOK, gin.H{
		"code":       0,
		"message":    "成功",
		"data":       data,
		"pagination": pagination,
	})
}

// respondError 按业务错误码映射HTTP状态码的统一错误响应
func respondError(ctx *gin.Context, err error) {
	code := errcode.CodeOf(err)
	ctx.JSON(errcode.GetStatus(code), gin.H{
		"code":    code,
		"message": err.Error(),
		"data":    nil,
	})
}

// respondBindError 请求参数绑定失败的响应
func respondBindError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, gin.H{
		"code":    errcode.ErrBind,
		"message": "无效的请求参数: " + err.Error(),
		"data":    nil,
	})
}

// respondInvalidMethod 分发函数收到未知方法时的响应
func respondInvalidMethod(ctx *gin.Context) {
	ctx.JSON(http.StatusBadRequest, gin.H{
		"code":    errcode.ErrValidation,
		"message": "无效的方法",
		"data":    nil,
	})
}

// currentOperator 从认证中间件写入的上下文里取当前操作人
func currentOperator(ctx *gin.Context) (name string, isAdmin bool) {
	name = ctx.GetString("borrower_name")
	role := ctx.GetString("role")
	return name, role == "admin"
}
