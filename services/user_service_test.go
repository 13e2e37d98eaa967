package services

import (
	"testing"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/errcode"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/utils"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())

	user, err := svc.Register(&RegisterRequest{
		Phone:        "13800000001",
		Password:     "secret123",
		BorrowerName: "张三",
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if user.ID == "" {
		t.Fatal("注册后未生成用户ID")
	}
	if user.Password == "secret123" {
		t.Fatal("密码明文落库")
	}

	got, err := svc.Login("13800000001", "secret123")
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("登录返回用户不一致: %s != %s", got.ID, user.ID)
	}

	if _, err := svc.Login("13800000001", "wrong"); !errcode.Is(err, errcode.ErrUserPasswordIncorrect) {
		t.Fatalf("错误密码 err = %v, 期望 ErrUserPasswordIncorrect", err)
	}
	if _, err := svc.Login("13899999999", "secret123"); !errcode.Is(err, errcode.ErrUserPasswordIncorrect) {
		t.Fatalf("不存在手机号 err = %v, 期望 ErrUserPasswordIncorrect", err)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())

	if _, err := svc.Register(&RegisterRequest{Phone: "13800000001", Password: "secret123"}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	_, err := svc.Register(&RegisterRequest{Phone: "13800000001", Password: "another1"})
	if !errcode.Is(err, errcode.ErrUserAlreadyExist) {
		t.Fatalf("err = %v, 期望 ErrUserAlreadyExist", err)
	}
}

func TestLoginFrozenUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())

	user, err := svc.Register(&RegisterRequest{Phone: "13800000001", Password: "secret123"})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if err := svc.SetFrozen(user.ID, true); err != nil {
		t.Fatalf("冻结失败: %v", err)
	}
	if _, err := svc.Login("13800000001", "secret123"); !errcode.Is(err, errcode.ErrUserFrozen) {
		t.Fatalf("冻结账号登录 err = %v, 期望 ErrUserFrozen", err)
	}

	if err := svc.SetFrozen(user.ID, false); err != nil {
		t.Fatalf("解冻失败: %v", err)
	}
	if _, err := svc.Login("13800000001", "secret123"); err != nil {
		t.Fatalf("解冻后登录失败: %v", err)
	}
}

func TestSetBorrowerNameUnique(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())

	first, err := svc.Register(&RegisterRequest{Phone: "13800000001", Password: "secret123", BorrowerName: "张三"})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	second, err := svc.Register(&RegisterRequest{Phone: "13800000002", Password: "secret123"})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	if _, err := svc.SetBorrowerName(second.ID, "张三"); !errcode.Is(err, errcode.ErrBorrowerNameTaken) {
		t.Fatalf("err = %v, 期望 ErrBorrowerNameTaken", err)
	}

	got, err := svc.SetBorrowerName(second.ID, "李四")
	if err != nil {
		t.Fatalf("设置借用人名称失败: %v", err)
	}
	if got.BorrowerName != "李四" {
		t.Fatalf("借用人名称 = %s, 期望 李四", got.BorrowerName)
	}

	// 设置成自己当前的名称是幂等的
	if _, err := svc.SetBorrowerName(first.ID, "张三"); err != nil {
		t.Fatalf("幂等设置失败: %v", err)
	}
}

func TestAdminLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())

	hashed, err := utils.HashPassword("admin123")
	if err != nil {
		t.Fatalf("哈希失败: %v", err)
	}
	if err := db.Create(&models.Admin{Username: "admin", Password: hashed}).Error; err != nil {
		t.Fatalf("创建管理员失败: %v", err)
	}

	admin, err := svc.AdminLogin("admin", "admin123")
	if err != nil {
		t.Fatalf("管理员登录失败: %v", err)
	}
	if !admin.IsAdmin {
		t.Fatal("管理员登录结果未带管理员标记")
	}

	if _, err := svc.AdminLogin("admin", "wrong"); !errcode.Is(err, errcode.ErrUserPasswordIncorrect) {
		t.Fatalf("错误密码 err = %v, 期望 ErrUserPasswordIncorrect", err)
	}
}

func TestAdminLoginFallbackToUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())

	user, err := svc.Register(&RegisterRequest{Phone: "13800000001", Password: "secret123", BorrowerName: "张三"})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	// 普通用户不能登录管理端
	if _, err := svc.AdminLogin("13800000001", "secret123"); !errcode.Is(err, errcode.ErrUnauthorizedOperation) {
		t.Fatalf("err = %v, 期望 ErrUnauthorizedOperation", err)
	}

	if err := svc.SetAdmin(user.ID, true); err != nil {
		t.Fatalf("授予管理员失败: %v", err)
	}
	// 手机号和借用人名称都可以登录管理端
	if _, err := svc.AdminLogin("13800000001", "secret123"); err != nil {
		t.Fatalf("手机号登录管理端失败: %v", err)
	}
	if _, err := svc.AdminLogin("张三", "secret123"); err != nil {
		t.Fatalf("借用人名称登录管理端失败: %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())

	user, err := svc.Register(&RegisterRequest{Phone: "13800000001", Password: "secret123"})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	temp, err := svc.ResetPassword(user.ID)
	if err != nil {
		t.Fatalf("重置密码失败: %v", err)
	}
	if len(temp) != 8 {
		t.Fatalf("临时密码长度 = %d, 期望 8", len(temp))
	}

	if _, err := svc.Login("13800000001", "secret123"); !errcode.Is(err, errcode.ErrUserPasswordIncorrect) {
		t.Fatal("旧密码重置后仍能登录")
	}
	if _, err := svc.Login("13800000001", temp); err != nil {
		t.Fatalf("临时密码登录失败: %v", err)
	}
}

func TestUpdateUserStripsSensitiveFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())

	user, err := svc.Register(&RegisterRequest{Phone: "13800000001", Password: "secret123"})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	got, err := svc.UpdateUser(user.ID, map[string]interface{}{
		"wechat_name": "微信昵称",
		"is_admin":    true,
		"password":    "hacked",
	})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if got.WechatName != "微信昵称" {
		t.Fatalf("微信昵称 = %s", got.WechatName)
	}
	if got.IsAdmin {
		t.Fatal("敏感字段 is_admin 被普通更新修改")
	}
	if _, err := svc.Login("13800000001", "secret123"); err != nil {
		t.Fatalf("密码被普通更新修改: %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testConfig())

	user, err := svc.Register(&RegisterRequest{Phone: "13800000001", Password: "secret123"})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if err := svc.DeleteUser(user.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if _, err := svc.GetUserByID(user.ID); !errcode.Is(err, errcode.ErrUserNotFound) {
		t.Fatalf("err = %v, 期望 ErrUserNotFound", err)
	}
	if _, err := svc.Login("13800000001", "secret123"); !errcode.Is(err, errcode.ErrUserPasswordIncorrect) {
		t.Fatalf("已删除用户登录 err = %v, 期望 ErrUserPasswordIncorrect", err)
	}
}
