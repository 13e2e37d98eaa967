package routes

import (
	"time"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/config"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/controllers"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/middleware"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services/container"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.WebOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Accept", "Cache-Control", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册需要登录的路由
	registerUserRoutes(api, container)
	// 注册管理端路由
	registerAdminRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 健康检查
	health := controllers.NewHealthCheckController()
	api.GET("/ping", health.Ping)

	// 认证路由，登录注册接口按IP限流
	auth := api.Group("/auth")
	auth.Use(middleware.IPRateLimiter(1, 5))
	auth.POST("/login", controllers.HandleJWTFunc(container, "login"))
	auth.POST("/register", controllers.HandleJWTFunc(container, "register"))
	auth.POST("/admin/login", controllers.HandleJWTFunc(container, "adminLogin"))

	// 上架中的公告无需登录即可查看
	api.GET("/announcements", controllers.HandleAnnouncementFunc(container, "getActive"))
}

// registerUserRoutes 注册需要登录的路由
func registerUserRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	user := api.Group("/")
	user.Use(middleware.AuthenticateUser())

	// 设备台账
	user.GET("/devices", controllers.HandleDeviceFunc(container, "getDevices"))
	user.GET("/devices/stats", controllers.HandleDeviceFunc(container, "getStats"))
	user.GET("/devices/mine", controllers.HandleDeviceFunc(container, "getMyDevices"))
	user.GET("/devices/:id", controllers.HandleDeviceFunc(container, "getDevice"))
	user.POST("/devices", controllers.HandleDeviceFunc(container, "createDevice"))
	user.PUT("/devices/:id", controllers.HandleDeviceFunc(container, "updateDevice"))

	// 设备生命周期
	user.POST("/devices/:id/borrow", controllers.HandleLifecycleFunc(container, "borrow"))
	user.POST("/devices/:id/return", controllers.HandleLifecycleFunc(container, "return"))
	user.POST("/devices/:id/transfer", controllers.HandleLifecycleFunc(container, "transfer"))
	user.POST("/devices/:id/report-lost", controllers.HandleLifecycleFunc(container, "reportLost"))
	user.POST("/devices/:id/report-damage", controllers.HandleLifecycleFunc(container, "reportDamage"))
	user.POST("/devices/:id/renew", controllers.HandleLifecycleFunc(container, "renew"))

	// 借还记录
	user.GET("/records", controllers.HandleRecordFunc(container, "getRecords"))
	user.GET("/records/overdue", controllers.HandleRecordFunc(container, "getOverdue"))
	user.GET("/devices/:id/records", controllers.HandleRecordFunc(container, "getDeviceRecords"))

	// 设备备注
	user.GET("/devices/:id/remarks", controllers.HandleRemarkFunc(container, "getDeviceRemarks"))
	user.POST("/devices/:id/remarks", controllers.HandleRemarkFunc(container, "create"))
	user.PUT("/remarks/:id", controllers.HandleRemarkFunc(container, "update"))
	user.DELETE("/remarks/:id", controllers.HandleRemarkFunc(container, "delete"))

	// 个人信息
	user.GET("/users/profile", controllers.HandleUserFunc(container, "getProfile"))
	user.PUT("/users/borrower-name", controllers.HandleUserFunc(container, "setBorrowerName"))

	// 站内通知
	user.GET("/notifications", controllers.HandleNotificationFunc(container, "getNotifications"))
	user.GET("/notifications/unread-count", controllers.HandleNotificationFunc(container, "getUnreadCount"))
	user.PUT("/notifications/:id/read", controllers.HandleNotificationFunc(container, "markRead"))
	user.PUT("/notifications/read-all", controllers.HandleNotificationFunc(container, "markAllRead"))
}

// registerAdminRoutes 注册管理端路由
func registerAdminRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	admin := api.Group("/")
	admin.Use(middleware.AuthenticateAdmin())

	// 管理员专属的生命周期操作
	admin.POST("/devices/:id/force-borrow", controllers.HandleLifecycleFunc(container, "forceBorrow"))
	admin.POST("/devices/:id/found", controllers.HandleLifecycleFunc(container, "found"))
	admin.POST("/devices/:id/repaired", controllers.HandleLifecycleFunc(container, "repaired"))
	admin.POST("/devices/:id/not-found", controllers.HandleLifecycleFunc(container, "notFound"))
	admin.POST("/devices/:id/custodian", controllers.HandleLifecycleFunc(container, "custodianChange"))
	admin.POST("/devices/:id/ship", controllers.HandleLifecycleFunc(container, "ship"))
	admin.POST("/devices/:id/unship", controllers.HandleLifecycleFunc(container, "unship"))
	admin.PUT("/devices/:id/status", controllers.HandleLifecycleFunc(container, "changeStatus"))
	admin.DELETE("/devices/:id", controllers.HandleDeviceFunc(container, "deleteDevice"))

	// 用户管理
	admin.GET("/users", controllers.HandleUserFunc(container, "getUsers"))
	admin.GET("/users/:id", controllers.HandleUserFunc(container, "getUser"))
	admin.PUT("/users/:id", controllers.HandleUserFunc(container, "updateUser"))
	admin.PUT("/users/:id/frozen", controllers.HandleUserFunc(container, "setFrozen"))
	admin.PUT("/users/:id/admin", controllers.HandleUserFunc(container, "setAdmin"))
	admin.POST("/users/:id/password/reset", controllers.HandleUserFunc(container, "resetPassword"))
	admin.DELETE("/users/:id", controllers.HandleUserFunc(container, "deleteUser"))

	// 公告管理
	admin.GET("/announcements/all", controllers.HandleAnnouncementFunc(container, "getAll"))
	admin.POST("/announcements", controllers.HandleAnnouncementFunc(container, "create"))
	admin.PUT("/announcements/:id", controllers.HandleAnnouncementFunc(container, "update"))
	admin.PUT("/announcements/:id/active", controllers.HandleAnnouncementFunc(container, "setActive"))
	admin.POST("/announcements/:id/force-show", controllers.HandleAnnouncementFunc(container, "forceShow"))
	admin.DELETE("/announcements/:id", controllers.HandleAnnouncementFunc(container, "delete"))

	// 备注审核
	admin.PUT("/remarks/:id/inappropriate", controllers.HandleRemarkFunc(container, "markInappropriate"))

	// 查看记录与操作流水
	admin.GET("/records/views", controllers.HandleRecordFunc(container, "getViewRecords"))
	admin.GET("/records/operation-logs", controllers.HandleRecordFunc(container, "getOperationLogs"))
}
