package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/config"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"

	"github.com/go-redis/redis/v8"
)

// 缓存键
const (
	cacheKeyStats   = "device:stats"
	cacheKeyOverdue = "device:overdue"
)

// StatsCacheTTL 首页统计与逾期报表的缓存时长
const StatsCacheTTL = time.Minute

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "", // No password set
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	return &RedisService{
		Client: client,
		Ctx:    ctx,
	}
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// CacheStats 缓存首页统计数据
func (s *RedisService) CacheStats(stats *models.DeviceStats, expiration time.Duration) error {
	return s.Set(cacheKeyStats, stats, expiration)
}

// GetCachedStats 读取缓存的首页统计数据
func (s *RedisService) GetCachedStats() (*models.DeviceStats, error) {
	var stats models.DeviceStats
	if err := s.Get(cacheKeyStats, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CacheOverdue 缓存逾期报表
func (s *RedisService) CacheOverdue(entries []models.OverdueEntry, expiration time.Duration) error {
	return s.Set(cacheKeyOverdue, entries, expiration)
}

// GetCachedOverdue 读取缓存的逾期报表
func (s *RedisService) GetCachedOverdue() ([]models.OverdueEntry, error) {
	var entries []models.OverdueEntry
	if err := s.Get(cacheKeyOverdue, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// InvalidateDeviceCaches 设备状态变化后清除统计与逾期缓存
func (s *RedisService) InvalidateDeviceCaches() error {
	return s.Client.Del(s.Ctx, cacheKeyStats, cacheKeyOverdue).Err()
}
