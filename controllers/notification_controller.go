package controllers

import (
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceNotificationController 定义通知控制器接口
type InterfaceNotificationController interface {
	GetNotifications()
	GetUnreadCount()
	MarkRead()
	MarkAllRead()
}

// NotificationController 处理站内通知请求
type NotificationController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewNotificationController 创建一个新的通知控制器
func NewNotificationController(ctx *gin.Context, container *container.ServiceContainer) *NotificationController {
	return &NotificationController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleNotificationFunc 返回一个处理通知请求的Gin处理函数
func HandleNotificationFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewNotificationController(ctx, container)

		switch method {
		case "getNotifications":
			controller.GetNotifications()
		case "getUnreadCount":
			controller.GetUnreadCount()
		case "markRead":
			controller.MarkRead()
		case "markAllRead":
			controller.MarkAllRead()
		default:
			respondInvalidMethod(ctx)
		}
	}
}

func (c *NotificationController) notificationService() services.InterfaceNotificationService {
	return c.Container.GetService("notification").(services.InterfaceNotificationService)
}

// 1 GetNotifications 当前用户的通知列表
// @Summary 通知列表
// @Tags notification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pageNum query int false "页码"
// @Param pageSize query int false "每页条数"
// @Success 200 {array} models.Notification
// @Failure 500 {object} ErrorResponse
// @Router /notifications [get]
func (c *NotificationController) GetNotifications() {
	var query models.PaginationQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	userID := c.Ctx.GetString("user_id")
	notifications, pagination, err := c.notificationService().ListByUser(userID, &query)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondPage(c.Ctx, notifications, pagination)
}

// 2 GetUnreadCount 未读通知数
// @Summary 未读通知数
// @Tags notification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /notifications/unread-count [get]
func (c *NotificationController) GetUnreadCount() {
	userID := c.Ctx.GetString("user_id")
	count, err := c.notificationService().UnreadCount(userID)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, gin.H{"count": count})
}

// 3 MarkRead 标记单条通知已读
// @Summary 标记通知已读
// @Tags notification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "通知ID"
// @Success 200 {object} nil
// @Failure 404 {object} ErrorResponse
// @Router /notifications/{id}/read [put]
func (c *NotificationController) MarkRead() {
	userID := c.Ctx.GetString("user_id")
	if err := c.notificationService().MarkRead(userID, c.Ctx.Param("id")); err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, nil)
}

// 4 MarkAllRead 一键已读
// @Summary 全部标记已读
// @Tags notification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} nil
// @Failure 500 {object} ErrorResponse
// @Router /notifications/read-all [put]
func (c *NotificationController) MarkAllRead() {
	userID := c.Ctx.GetString("user_id")
	if err := c.notificationService().MarkAllRead(userID); err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, nil)
}
