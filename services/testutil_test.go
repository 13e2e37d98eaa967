package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/config"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 为每个测试创建独立的内存数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&models.Admin{},
		&models.User{},
		&models.Device{},
		&models.Record{},
		&models.Notification{},
		&models.Announcement{},
		&models.UserRemark{},
		&models.OperationLog{},
		&models.ViewRecord{},
	)
	if err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{JWTSecretKey: "test-secret"}
}

// newTestLifecycleService 返回使用可控时钟的生命周期服务，
// 修改返回的时间指针即可推进时间。
func newTestLifecycleService(db *gorm.DB) (*LifecycleService, *time.Time) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)
	current := &now
	svc := &LifecycleService{
		DB:     db,
		Config: testConfig(),
		now:    func() time.Time { return *current },
	}
	return svc, current
}

func seedDevice(t *testing.T, db *gorm.DB, name string, deviceType models.DeviceType, status models.DeviceStatus) *models.Device {
	t.Helper()
	device := &models.Device{
		Name:       name,
		DeviceType: deviceType,
		Status:     status,
	}
	if err := db.Create(device).Error; err != nil {
		t.Fatalf("创建测试设备失败: %v", err)
	}
	return device
}

func seedBorrowedDevice(t *testing.T, db *gorm.DB, name string, deviceType models.DeviceType, borrower string, expected time.Time) *models.Device {
	t.Helper()
	borrowTime := expected.Add(-DefaultBorrowDuration)
	device := &models.Device{
		Name:               name,
		DeviceType:         deviceType,
		Status:             models.DeviceStatusBorrowed,
		Borrower:           borrower,
		BorrowTime:         &borrowTime,
		ExpectedReturnDate: &expected,
	}
	if err := db.Create(device).Error; err != nil {
		t.Fatalf("创建测试设备失败: %v", err)
	}
	return device
}

func seedUser(t *testing.T, db *gorm.DB, phone, borrowerName string) *models.User {
	t.Helper()
	user := &models.User{
		Phone:        phone,
		Password:     "not-a-real-hash",
		BorrowerName: borrowerName,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return user
}

func reloadDevice(t *testing.T, db *gorm.DB, id string) *models.Device {
	t.Helper()
	var device models.Device
	if err := db.First(&device, "id = ?", id).Error; err != nil {
		t.Fatalf("查询设备失败: %v", err)
	}
	return &device
}

func deviceRecords(t *testing.T, db *gorm.DB, deviceID string, operationType models.OperationType) []models.Record {
	t.Helper()
	var records []models.Record
	err := db.Where("device_id = ? AND operation_type = ?", deviceID, operationType).
		Find(&records).Error
	if err != nil {
		t.Fatalf("查询借还记录失败: %v", err)
	}
	return records
}

func countRecords(t *testing.T, db *gorm.DB, deviceID string) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.Record{}).Where("device_id = ?", deviceID).Count(&count).Error; err != nil {
		t.Fatalf("统计借还记录失败: %v", err)
	}
	return count
}

func userNotifications(t *testing.T, db *gorm.DB, userID string) []models.Notification {
	t.Helper()
	var notifications []models.Notification
	if err := db.Where("user_id = ?", userID).Find(&notifications).Error; err != nil {
		t.Fatalf("查询通知失败: %v", err)
	}
	return notifications
}
