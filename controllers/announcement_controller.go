package controllers

import (
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceAnnouncementController 定义公告控制器接口
type InterfaceAnnouncementController interface {
	GetActiveAnnouncements()
	GetAllAnnouncements()
	CreateAnnouncement()
	UpdateAnnouncement()
	SetActive()
	ForceShow()
	DeleteAnnouncement()
}

// AnnouncementController 处理公告请求
type AnnouncementController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAnnouncementController 创建一个新的公告控制器
func NewAnnouncementController(ctx *gin.Context, container *container.ServiceContainer) *AnnouncementController {
	return &AnnouncementController{
		Ctx:       ctx,
		Container: container,
	}
}

// AnnouncementInput 新增/编辑公告请求
type AnnouncementInput struct {
	Title            string `json:"title" binding:"required" example:"五一假期设备归还通知"`
	Content          string `json:"content"`
	AnnouncementType string `json:"announcement_type" example:"normal"`
	SortOrder        int    `json:"sort_order"`
}

// ActiveInput 上架/下架请求
type ActiveInput struct {
	Active bool `json:"active"`
}

// HandleAnnouncementFunc 返回一个处理公告请求的Gin处理函数
func HandleAnnouncementFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAnnouncementController(ctx, container)

		switch method {
		case "getActive":
			controller.GetActiveAnnouncements()
		case "getAll":
			controller.GetAllAnnouncements()
		case "create":
			controller.CreateAnnouncement()
		case "update":
			controller.UpdateAnnouncement()
		case "setActive":
			controller.SetActive()
		case "forceShow":
			controller.ForceShow()
		case "delete":
			controller.DeleteAnnouncement()
		default:
			respondInvalidMethod(ctx)
		}
	}
}

func (c *AnnouncementController) announcementService() services.InterfaceAnnouncementService {
	return c.Container.GetService("announcement").(services.InterfaceAnnouncementService)
}

// 1 GetActiveAnnouncements 用户端可见公告
// @Summary 上架中的公告
// @Tags announcement
// @Accept json
// @Produce json
// @Success 200 {array} models.Announcement
// @Failure 500 {object} ErrorResponse
// @Router /announcements [get]
func (c *AnnouncementController) GetActiveAnnouncements() {
	announcements, err := c.announcementService().ListActive()
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, announcements)
}

// 2 GetAllAnnouncements 管理端查看全部公告
// @Summary 全部公告
// @Tags announcement
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Announcement
// @Failure 500 {object} ErrorResponse
// @Router /announcements/all [get]
func (c *AnnouncementController) GetAllAnnouncements() {
	announcements, err := c.announcementService().ListAll()
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, announcements)
}

// 3 CreateAnnouncement 新增公告
// @Summary 新增公告
// @Description 特殊公告同时上架超过3条时，最旧的自动下架
// @Tags announcement
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AnnouncementInput true "公告内容"
// @Success 200 {object} models.Announcement
// @Failure 400 {object} ErrorResponse
// @Router /announcements [post]
func (c *AnnouncementController) CreateAnnouncement() {
	var input AnnouncementInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	operator, _ := currentOperator(c.Ctx)
	announcement := &models.Announcement{
		Title:            input.Title,
		Content:          input.Content,
		AnnouncementType: input.AnnouncementType,
		SortOrder:        input.SortOrder,
		IsActive:         true,
		Creator:          operator,
	}
	if err := c.announcementService().Create(announcement); err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, announcement)
}

// 4 UpdateAnnouncement 更新公告
// @Summary 更新公告
// @Tags announcement
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "公告ID"
// @Param request body map[string]interface{} true "需要更新的字段"
// @Success 200 {object} models.Announcement
// @Failure 404 {object} ErrorResponse
// @Router /announcements/{id} [put]
func (c *AnnouncementController) UpdateAnnouncement() {
	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	announcement, err := c.announcementService().Update(c.Ctx.Param("id"), updates)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, announcement)
}

// 5 SetActive 上架/下架公告
// @Summary 上架/下架公告
// @Tags announcement
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "公告ID"
// @Param request body ActiveInput true "上架标记"
// @Success 200 {object} nil
// @Failure 404 {object} ErrorResponse
// @Router /announcements/{id}/active [put]
func (c *AnnouncementController) SetActive() {
	var input ActiveInput
	if err := c.Ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	if err := c.announcementService().SetActive(c.Ctx.Param("id"), input.Active); err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, nil)
}

// 6 ForceShow 强制重新弹窗
// @Summary 强制重新弹窗
// @Description 版本号递增后客户端会再次弹窗展示该公告
// @Tags announcement
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "公告ID"
// @Success 200 {object} nil
// @Failure 404 {object} ErrorResponse
// @Router /announcements/{id}/force-show [post]
func (c *AnnouncementController) ForceShow() {
	if err := c.announcementService().ForceShow(c.Ctx.Param("id")); err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, nil)
}

// 7 DeleteAnnouncement 删除公告
// @Summary 删除公告
// @Tags announcement
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "公告ID"
// @Success 200 {object} nil
// @Failure 404 {object} ErrorResponse
// @Router /announcements/{id} [delete]
func (c *AnnouncementController) DeleteAnnouncement() {
	if err := c.announcementService().Delete(c.Ctx.Param("id")); err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, nil)
}
