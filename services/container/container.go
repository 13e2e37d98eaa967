package container

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/config"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services"

	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// 基础服务
	jwtService   *services.JWTService
	redisService *services.RedisService

	// 业务服务
	deviceService       services.InterfaceDeviceService
	lifecycleService    services.InterfaceLifecycleService
	recordService       services.InterfaceRecordService
	userService         services.InterfaceUserService
	notificationService services.InterfaceNotificationService
	announcementService services.InterfaceAnnouncementService
	remarkService       services.InterfaceRemarkService
	operationLogService services.InterfaceOperationLogService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config)
	c.redisService = services.NewRedisService(c.config)

	// 测试Redis连接，失败时统计走数据库直查
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.redisService.Client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis连接测试失败: %v，将不使用Redis缓存", err)
	}

	// 初始化业务服务
	c.deviceService = services.NewDeviceService(c.db, c.config)
	c.lifecycleService = services.NewLifecycleService(c.db, c.config)
	c.recordService = services.NewRecordService(c.db, c.config)
	c.userService = services.NewUserService(c.db, c.config)
	c.notificationService = services.NewNotificationService(c.db, c.config)
	c.announcementService = services.NewAnnouncementService(c.db, c.config)
	c.remarkService = services.NewRemarkService(c.db, c.config)
	c.operationLogService = services.NewOperationLogService(c.db, c.config)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "device":
		return c.deviceService
	case "lifecycle":
		return c.lifecycleService
	case "record":
		return c.recordService
	case "user":
		return c.userService
	case "notification":
		return c.notificationService
	case "announcement":
		return c.announcementService
	case "remark":
		return c.remarkService
	case "operation_log":
		return c.operationLogService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
