package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"
)

func TestListRecordsFilterAndOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordService(db, testConfig())
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)

	records := []models.Record{
		{DeviceID: "d1", DeviceName: "车机01", DeviceType: models.DeviceTypeCarMachine,
			OperationType: models.OperationBorrow, OperationTime: base},
		{DeviceID: "d1", DeviceName: "车机01", DeviceType: models.DeviceTypeCarMachine,
			OperationType: models.OperationReturn, OperationTime: base.Add(2 * time.Hour)},
		{DeviceID: "d2", DeviceName: "手机01", DeviceType: models.DeviceTypePhone,
			OperationType: models.OperationBorrow, OperationTime: base.Add(time.Hour)},
	}
	for i := range records {
		if err := db.Create(&records[i]).Error; err != nil {
			t.Fatalf("创建记录失败: %v", err)
		}
	}

	// 不带条件：全部记录按操作时间倒序
	got, pagination, err := svc.ListRecords(&RecordQuery{})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if pagination.Total != 3 {
		t.Fatalf("总数 = %d, 期望 3", pagination.Total)
	}
	wantOrder := []models.OperationType{models.OperationReturn, models.OperationBorrow, models.OperationBorrow}
	for i, want := range wantOrder {
		if got[i].OperationType != want {
			t.Fatalf("第%d条操作类型 = %s, 期望 %s", i, got[i].OperationType, want)
		}
	}

	// 按设备类型过滤
	got, _, err = svc.ListRecords(&RecordQuery{DeviceType: string(models.DeviceTypePhone)})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(got) != 1 || got[0].DeviceName != "手机01" {
		t.Fatalf("类型过滤结果不正确: %+v", got)
	}

	// 按名称模糊匹配（大小写不敏感）
	got, _, err = svc.ListRecords(&RecordQuery{DeviceName: "车机"})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("名称过滤结果数 = %d, 期望 2", len(got))
	}

	// 按时间范围过滤
	start := base.Add(30 * time.Minute)
	end := base.Add(90 * time.Minute)
	got, _, err = svc.ListRecords(&RecordQuery{StartTime: &start, EndTime: &end})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(got) != 1 || got[0].DeviceName != "手机01" {
		t.Fatalf("时间过滤结果不正确: %+v", got)
	}
}

func TestListDeviceRecords(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordService(db, testConfig())
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)

	for i := 0; i < 3; i++ {
		record := models.Record{
			DeviceID:      "d1",
			DeviceName:    "车机01",
			OperationType: models.OperationBorrow,
			OperationTime: base.Add(time.Duration(i) * time.Hour),
		}
		if err := db.Create(&record).Error; err != nil {
			t.Fatalf("创建记录失败: %v", err)
		}
	}
	other := models.Record{DeviceID: "d2", OperationType: models.OperationBorrow, OperationTime: base}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("创建记录失败: %v", err)
	}

	got, err := svc.ListDeviceRecords("d1")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("记录数 = %d, 期望 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].OperationTime.After(got[i-1].OperationTime) {
			t.Fatal("设备记录未按操作时间倒序")
		}
	}
}

func TestViewRecordLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordService(db, testConfig())

	for i := 0; i < ViewRecordLimit+5; i++ {
		err := svc.AddViewRecord(fmt.Sprintf("d%03d", i), models.DeviceTypePhone, "张三")
		if err != nil {
			t.Fatalf("添加查看记录失败: %v", err)
		}
	}

	records, err := svc.ListViewRecords()
	if err != nil {
		t.Fatalf("查询查看记录失败: %v", err)
	}
	if len(records) != ViewRecordLimit {
		t.Fatalf("查看记录数 = %d, 期望 %d", len(records), ViewRecordLimit)
	}

	// 留下的应是最近的100条
	kept := make(map[string]bool, len(records))
	for _, record := range records {
		kept[record.DeviceID] = true
	}
	for i := 0; i < 5; i++ {
		if kept[fmt.Sprintf("d%03d", i)] {
			t.Fatalf("最旧的查看记录 d%03d 未被淘汰", i)
		}
	}
}
