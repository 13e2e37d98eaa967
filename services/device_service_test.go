package services

import (
	"testing"
	"time"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/errcode"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"
)

func TestCreateDeviceDuplicateName(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, testConfig())

	first := &models.Device{Name: "车机01", DeviceType: models.DeviceTypeCarMachine}
	if err := svc.CreateDevice(first); err != nil {
		t.Fatalf("创建设备失败: %v", err)
	}
	if first.Status != models.DeviceStatusInStock {
		t.Fatalf("车机默认状态 = %s, 期望 在库", first.Status)
	}

	dup := &models.Device{Name: "车机01", DeviceType: models.DeviceTypeCarMachine}
	if err := svc.CreateDevice(dup); !errcode.Is(err, errcode.ErrDuplicateName) {
		t.Fatalf("err = %v, 期望 ErrDuplicateName", err)
	}

	// 软删除后名称可以复用
	if err := db.Model(first).Update("is_deleted", true).Error; err != nil {
		t.Fatalf("软删除失败: %v", err)
	}
	if err := svc.CreateDevice(dup); err != nil {
		t.Fatalf("复用已删除名称失败: %v", err)
	}
}

func TestCreateDeviceDefaultStatusByType(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, testConfig())

	cases := []struct {
		deviceType models.DeviceType
		want       models.DeviceStatus
	}{
		{models.DeviceTypeCarMachine, models.DeviceStatusInStock},
		{models.DeviceTypeInstrument, models.DeviceStatusInStock},
		{models.DeviceTypePhone, models.DeviceStatusInCustody},
		{models.DeviceTypeSimCard, models.DeviceStatusInCustody},
		{models.DeviceTypeOther, models.DeviceStatusInCustody},
	}
	for _, tc := range cases {
		device := &models.Device{Name: "默认状态-" + string(tc.deviceType), DeviceType: tc.deviceType}
		if err := svc.CreateDevice(device); err != nil {
			t.Fatalf("创建 %s 失败: %v", tc.deviceType, err)
		}
		if device.Status != tc.want {
			t.Fatalf("%s 默认状态 = %s, 期望 %s", tc.deviceType, device.Status, tc.want)
		}
	}
}

func TestUpdateDeviceStripsLifecycleFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, testConfig())
	device := seedDevice(t, db, "车机01", models.DeviceTypeCarMachine, models.DeviceStatusInStock)

	got, err := svc.UpdateDevice(device.ID, map[string]interface{}{
		"model":    "X100",
		"status":   string(models.DeviceStatusScrapped),
		"borrower": "张三",
	})
	if err != nil {
		t.Fatalf("更新设备失败: %v", err)
	}
	if got.Model != "X100" {
		t.Fatalf("型号 = %s, 期望 X100", got.Model)
	}
	// 生命周期字段必须走专门接口，普通更新里直接丢弃
	if got.Status != models.DeviceStatusInStock || got.Borrower != "" {
		t.Fatalf("生命周期字段被普通更新修改: status=%s borrower=%s", got.Status, got.Borrower)
	}
}

func TestUpdateDeviceDuplicateName(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, testConfig())
	seedDevice(t, db, "车机01", models.DeviceTypeCarMachine, models.DeviceStatusInStock)
	other := seedDevice(t, db, "车机02", models.DeviceTypeCarMachine, models.DeviceStatusInStock)

	_, err := svc.UpdateDevice(other.ID, map[string]interface{}{"name": "车机01"})
	if !errcode.Is(err, errcode.ErrDuplicateName) {
		t.Fatalf("err = %v, 期望 ErrDuplicateName", err)
	}
}

func TestListDevicesKeyword(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, testConfig())
	seedDevice(t, db, "Harmony车机", models.DeviceTypeCarMachine, models.DeviceStatusInStock)
	seedDevice(t, db, "仪表01", models.DeviceTypeInstrument, models.DeviceStatusInStock)
	deleted := seedDevice(t, db, "Harmony备用", models.DeviceTypeCarMachine, models.DeviceStatusInStock)
	if err := db.Model(deleted).Update("is_deleted", true).Error; err != nil {
		t.Fatalf("软删除失败: %v", err)
	}

	devices, pagination, err := svc.ListDevices(&DeviceQuery{Keyword: "harmony"})
	if err != nil {
		t.Fatalf("列表查询失败: %v", err)
	}
	if pagination.Total != 1 || len(devices) != 1 {
		t.Fatalf("keyword 匹配到 %d 台, 期望 1", pagination.Total)
	}
	if devices[0].Name != "Harmony车机" {
		t.Fatalf("匹配设备 = %s", devices[0].Name)
	}
}

func TestListDevicesDefaultOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, testConfig())
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)
	for i, name := range []string{"车机01", "车机02", "车机03"} {
		device := seedDevice(t, db, name, models.DeviceTypeCarMachine, models.DeviceStatusInStock)
		if err := db.Model(device).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error; err != nil {
			t.Fatalf("设置录入时间失败: %v", err)
		}
	}

	// 默认最新录入的排在前面
	devices, _, err := svc.ListDevices(&DeviceQuery{})
	if err != nil {
		t.Fatalf("列表查询失败: %v", err)
	}
	if len(devices) != 3 || devices[0].Name != "车机03" || devices[2].Name != "车机01" {
		t.Fatalf("默认排序不正确: %v", deviceNames(devices))
	}

	asc, _, err := svc.ListDevices(&DeviceQuery{PaginationQuery: models.PaginationQuery{Asc: true}})
	if err != nil {
		t.Fatalf("列表查询失败: %v", err)
	}
	if asc[0].Name != "车机01" {
		t.Fatalf("正序排序不正确: %v", deviceNames(asc))
	}
}

func deviceNames(devices []models.Device) []string {
	names := make([]string, 0, len(devices))
	for _, d := range devices {
		names = append(names, d.Name)
	}
	return names
}

func TestListOverdueGraceBoundary(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, testConfig())
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)

	// 宽限1小时内不算逾期，刚好1小时也不算
	seedBorrowedDevice(t, db, "未逾期", models.DeviceTypePhone, "张三", now.Add(-OverdueGrace))
	seedBorrowedDevice(t, db, "刚逾期", models.DeviceTypePhone, "李四", now.Add(-OverdueGrace-time.Second))

	entries, err := svc.ListOverdue(now)
	if err != nil {
		t.Fatalf("逾期查询失败: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("逾期条数 = %d, 期望 1", len(entries))
	}
	if entries[0].DeviceName != "刚逾期" {
		t.Fatalf("逾期设备 = %s", entries[0].DeviceName)
	}
	// 3601秒：0天，1小时（向下取整）
	if entries[0].OverdueDays != 0 || entries[0].OverdueHours != 1 {
		t.Fatalf("逾期时长 = %d天 %d小时, 期望 0天 1小时", entries[0].OverdueDays, entries[0].OverdueHours)
	}
}

func TestListOverdueFloorAndOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, testConfig())
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)

	// 逾期25小时：1天25小时
	seedBorrowedDevice(t, db, "车机A", models.DeviceTypeCarMachine, "张三", now.Add(-25*time.Hour))
	// 逾期3天2小时
	seedBorrowedDevice(t, db, "车机B", models.DeviceTypeCarMachine, "李四", now.Add(-74*time.Hour))
	// 逾期47小时59分：1天47小时
	seedBorrowedDevice(t, db, "车机C", models.DeviceTypeCarMachine, "王五", now.Add(-47*time.Hour-59*time.Minute))

	entries, err := svc.ListOverdue(now)
	if err != nil {
		t.Fatalf("逾期查询失败: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("逾期条数 = %d, 期望 3", len(entries))
	}

	// 按逾期天数从多到少，同天数按小时数从多到少
	wantOrder := []string{"车机B", "车机C", "车机A"}
	for i, want := range wantOrder {
		if entries[i].DeviceName != want {
			t.Fatalf("第%d条 = %s, 期望 %s", i, entries[i].DeviceName, want)
		}
	}
	if entries[0].OverdueDays != 3 || entries[0].OverdueHours != 74 {
		t.Fatalf("车机B逾期 = %d天 %d小时", entries[0].OverdueDays, entries[0].OverdueHours)
	}
	if entries[1].OverdueDays != 1 || entries[1].OverdueHours != 47 {
		t.Fatalf("车机C逾期 = %d天 %d小时", entries[1].OverdueDays, entries[1].OverdueHours)
	}
	if entries[2].OverdueDays != 1 || entries[2].OverdueHours != 25 {
		t.Fatalf("车机A逾期 = %d天 %d小时", entries[2].OverdueDays, entries[2].OverdueHours)
	}
}

func TestGetStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, testConfig())
	now := time.Now()

	seedDevice(t, db, "车机01", models.DeviceTypeCarMachine, models.DeviceStatusInStock)
	seedDevice(t, db, "手机01", models.DeviceTypePhone, models.DeviceStatusInCustody)
	seedBorrowedDevice(t, db, "车机02", models.DeviceTypeCarMachine, "张三", now.Add(24*time.Hour))
	seedBorrowedDevice(t, db, "车机03", models.DeviceTypeCarMachine, "李四", now.Add(-48*time.Hour))
	seedDevice(t, db, "车机04", models.DeviceTypeCarMachine, models.DeviceStatusScrapped)
	deleted := seedDevice(t, db, "车机05", models.DeviceTypeCarMachine, models.DeviceStatusInStock)
	if err := db.Model(deleted).Update("is_deleted", true).Error; err != nil {
		t.Fatalf("软删除失败: %v", err)
	}

	stats, err := svc.GetStats()
	if err != nil {
		t.Fatalf("统计失败: %v", err)
	}
	if stats.TotalDevices != 5 {
		t.Fatalf("总数 = %d, 期望 5", stats.TotalDevices)
	}
	if stats.AvailableCount != 2 {
		t.Fatalf("可借数 = %d, 期望 2", stats.AvailableCount)
	}
	if stats.BorrowedCount != 2 {
		t.Fatalf("借出数 = %d, 期望 2", stats.BorrowedCount)
	}
	if stats.OverdueCount != 1 {
		t.Fatalf("逾期数 = %d, 期望 1", stats.OverdueCount)
	}
}

func TestListMyDevices(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, testConfig())
	now := time.Now()

	seedBorrowedDevice(t, db, "车机01", models.DeviceTypeCarMachine, "张三", now.Add(24*time.Hour))
	seedBorrowedDevice(t, db, "手机01", models.DeviceTypePhone, "张三", now.Add(12*time.Hour))
	seedBorrowedDevice(t, db, "车机02", models.DeviceTypeCarMachine, "李四", now.Add(24*time.Hour))

	devices, err := svc.ListMyDevices("张三")
	if err != nil {
		t.Fatalf("查询名下设备失败: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("名下设备数 = %d, 期望 2", len(devices))
	}
	for _, device := range devices {
		if device.Borrower != "张三" {
			t.Fatalf("混入他人设备: %+v", device)
		}
	}
}
