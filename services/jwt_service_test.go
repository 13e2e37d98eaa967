package services

import (
	"testing"
)

func TestJWTGenerateAndExtract(t *testing.T) {
	svc := NewJWTService(testConfig())

	token, err := svc.GenerateToken("user-1", RoleAdmin, "张三")
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}

	claims, err := svc.ExtractClaims(token)
	if err != nil {
		t.Fatalf("解析令牌失败: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("UserID = %s, 期望 user-1", claims.UserID)
	}
	if claims.Role != RoleAdmin {
		t.Fatalf("Role = %s, 期望 %s", claims.Role, RoleAdmin)
	}
	if claims.BorrowerName != "张三" {
		t.Fatalf("BorrowerName = %s, 期望 张三", claims.BorrowerName)
	}
}

func TestJWTRejectsTamperedToken(t *testing.T) {
	svc := NewJWTService(testConfig())

	token, err := svc.GenerateToken("user-1", RoleUser, "")
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}

	if _, err := svc.ExtractClaims(token + "x"); err == nil {
		t.Fatal("被篡改的令牌通过了校验")
	}

	// 不同密钥签发的令牌必须拒绝
	other := &JWTService{secretKey: "another-secret", issuer: "device-management-platform"}
	foreign, err := other.GenerateToken("user-1", RoleUser, "")
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}
	if _, err := svc.ExtractClaims(foreign); err == nil {
		t.Fatal("异源令牌通过了校验")
	}
}
