package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV_TYPE", "LOCAL")

	cfg := LoadConfig()
	if cfg.DBHost != "localhost" || cfg.DBPort != "3306" {
		t.Fatalf("数据库默认配置不正确: %s:%s", cfg.DBHost, cfg.DBPort)
	}
	if cfg.ServerPort != "8080" {
		t.Fatalf("默认端口 = %s, 期望 8080", cfg.ServerPort)
	}
}

func TestLoadConfigEnvPrefix(t *testing.T) {
	t.Setenv("ENV_TYPE", "SERVER")
	t.Setenv("SERVER_DB_HOST", "db.internal")
	t.Setenv("DB_HOST", "should-not-win")

	cfg := LoadConfig()
	if cfg.DBHost != "db.internal" {
		t.Fatalf("DBHost = %s, 期望 db.internal", cfg.DBHost)
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		DBUser:     "root",
		DBPassword: "pass",
		DBHost:     "127.0.0.1",
		DBPort:     "3306",
		DBName:     "device_lend_db",
	}
	want := "root:pass@tcp(127.0.0.1:3306)/device_lend_db?charset=utf8mb4&parseTime=True&loc=Local&allowNativePasswords=true&multiStatements=true"
	if got := cfg.GetDSN(); got != want {
		t.Fatalf("GetDSN() = %s", got)
	}
}

func TestGetRedisAddr(t *testing.T) {
	cfg := &Config{RedisHost: "127.0.0.1", RedisPort: "6379"}
	if got := cfg.GetRedisAddr(); got != "127.0.0.1:6379" {
		t.Fatalf("GetRedisAddr() = %s", got)
	}
}
