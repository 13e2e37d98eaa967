package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/errcode"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"
)

func TestSpecialAnnouncementLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnnouncementService(db, testConfig())
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)

	// 依次上架4条特殊公告，创建时间递增避免排序歧义
	ids := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		announcement := &models.Announcement{
			Title:            fmt.Sprintf("特殊公告%d", i),
			AnnouncementType: models.AnnouncementTypeSpecial,
			IsActive:         true,
			CreatedAt:        base.Add(time.Duration(i) * time.Minute),
		}
		if err := svc.Create(announcement); err != nil {
			t.Fatalf("创建公告失败: %v", err)
		}
		ids = append(ids, announcement.ID)
	}

	var active []models.Announcement
	err := db.Where("announcement_type = ? AND is_active = ?", models.AnnouncementTypeSpecial, true).
		Find(&active).Error
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(active) != SpecialAnnouncementLimit {
		t.Fatalf("上架中特殊公告数 = %d, 期望 %d", len(active), SpecialAnnouncementLimit)
	}
	// 最旧的一条被自动下架
	for _, announcement := range active {
		if announcement.ID == ids[0] {
			t.Fatal("最旧的特殊公告未被自动下架")
		}
	}
}

func TestSetActiveEnforcesSpecialLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnnouncementService(db, testConfig())
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)

	ids := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		announcement := &models.Announcement{
			Title:            fmt.Sprintf("特殊公告%d", i),
			AnnouncementType: models.AnnouncementTypeSpecial,
			IsActive:         i < 3, // 第4条先保持下架
			CreatedAt:        base.Add(time.Duration(i) * time.Minute),
		}
		if err := svc.Create(announcement); err != nil {
			t.Fatalf("创建公告失败: %v", err)
		}
		ids = append(ids, announcement.ID)
	}

	if err := svc.SetActive(ids[3], true); err != nil {
		t.Fatalf("上架失败: %v", err)
	}

	var count int64
	err := db.Model(&models.Announcement{}).
		Where("announcement_type = ? AND is_active = ?", models.AnnouncementTypeSpecial, true).
		Count(&count).Error
	if err != nil {
		t.Fatalf("统计失败: %v", err)
	}
	if count != SpecialAnnouncementLimit {
		t.Fatalf("上架中特殊公告数 = %d, 期望 %d", count, SpecialAnnouncementLimit)
	}
}

func TestNormalAnnouncementsNotLimited(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnnouncementService(db, testConfig())

	for i := 0; i < 5; i++ {
		announcement := &models.Announcement{
			Title:    fmt.Sprintf("普通公告%d", i),
			IsActive: true,
		}
		if err := svc.Create(announcement); err != nil {
			t.Fatalf("创建公告失败: %v", err)
		}
	}

	active, err := svc.ListActive()
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(active) != 5 {
		t.Fatalf("普通公告上架数 = %d, 期望 5", len(active))
	}
}

func TestAnnouncementForceShow(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnnouncementService(db, testConfig())

	announcement := &models.Announcement{Title: "版本更新", IsActive: true}
	if err := svc.Create(announcement); err != nil {
		t.Fatalf("创建公告失败: %v", err)
	}
	if err := svc.ForceShow(announcement.ID); err != nil {
		t.Fatalf("强制弹窗失败: %v", err)
	}
	if err := svc.ForceShow(announcement.ID); err != nil {
		t.Fatalf("强制弹窗失败: %v", err)
	}

	var after models.Announcement
	if err := db.First(&after, "id = ?", announcement.ID).Error; err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if after.ForceShowVersion != 2 {
		t.Fatalf("ForceShowVersion = %d, 期望 2", after.ForceShowVersion)
	}
}

func TestAnnouncementCreateRequiresTitle(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnnouncementService(db, testConfig())

	err := svc.Create(&models.Announcement{Content: "无标题"})
	if !errcode.Is(err, errcode.ErrValidation) {
		t.Fatalf("err = %v, 期望 ErrValidation", err)
	}
}

func TestAnnouncementDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnnouncementService(db, testConfig())

	announcement := &models.Announcement{Title: "临时通知"}
	if err := svc.Create(announcement); err != nil {
		t.Fatalf("创建公告失败: %v", err)
	}
	if err := svc.Delete(announcement.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if err := svc.Delete(announcement.ID); !errcode.Is(err, errcode.ErrAnnouncementNotFound) {
		t.Fatalf("err = %v, 期望 ErrAnnouncementNotFound", err)
	}
}
