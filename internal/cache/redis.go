package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ArnavKarwa07/Automated-EDA/internal/logger"
	"github.com/ArnavKarwa07/Automated-EDA/internal/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisClient wraps the redis.Client with centralized connection pooling
type RedisClient struct {
	client *redis.Client
}

// Singleton instance (package-level). Stays nil when Redis is unreachable;
// callers must treat a nil client as cache-disabled, never as an error.
var globalRedis *RedisClient

// NewRedisClient creates and initializes a Redis client with connection pooling
// Requires REDIS_HOST and optionally REDIS_PORT, REDIS_PASSWORD environment variables
func NewRedisClient(host string, port string, password string) (*RedisClient, error) {
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "6379"
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 5,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.ErrorWithFields("Failed to connect to Redis", err)
		return nil, err
	}

	rc := &RedisClient{client: client}
	globalRedis = rc

	logger.Log.Info("✅ Redis client connected successfully",
		zap.String("address", addr),
	)

	return rc, nil
}

// GetRedisClient returns the global Redis client instance
func GetRedisClient() *RedisClient {
	return globalRedis
}

// Close closes the Redis connection gracefully
func (rc *RedisClient) Close() error {
	if rc == nil || rc.client == nil {
		return nil
	}
	return rc.client.Close()
}

// Get retrieves a value from Redis
func (rc *RedisClient) Get(ctx context.Context, key string) (string, error) {
	return rc.client.Get(ctx, key).Result()
}

// SetEx stores a value in Redis with expiration
func (rc *RedisClient) SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return rc.client.Set(ctx, key, value, ttl).Err()
}

// Del deletes one or more keys from Redis
func (rc *RedisClient) Del(ctx context.Context, keys ...string) error {
	return rc.client.Del(ctx, keys...).Err()
}

// profileTTL bounds staleness of cached dataset profiles. Profiles are
// invalidated explicitly on process/delete, so the TTL is just a backstop.
const profileTTL = 30 * time.Minute

func profileKey(datasetID string) string {
	return "dataset:profile:" + datasetID
}

// GetProfile fetches a cached dataset profile into dest.
// Returns false on miss, on a disabled cache, or on any Redis error.
func GetProfile(ctx context.Context, datasetID string, dest interface{}) bool {
	rc := globalRedis
	if rc == nil {
		return false
	}

	m := metrics.Get()
	raw, err := rc.Get(ctx, profileKey(datasetID))
	if err != nil {
		m.CacheMissesTotal.WithLabelValues("dataset_profile").Inc()
		return false
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logger.WarnWithFields("Discarding unparseable cached profile", err)
		_ = rc.Del(ctx, profileKey(datasetID))
		m.CacheMissesTotal.WithLabelValues("dataset_profile").Inc()
		return false
	}

	m.CacheHitsTotal.WithLabelValues("dataset_profile").Inc()
	return true
}

// SetProfile caches a dataset profile. Failures are logged and swallowed.
func SetProfile(ctx context.Context, datasetID string, profile interface{}) {
	rc := globalRedis
	if rc == nil {
		return
	}

	data, err := json.Marshal(profile)
	if err != nil {
		logger.WarnWithFields("Failed to marshal profile for cache", err)
		return
	}

	if err := rc.SetEx(ctx, profileKey(datasetID), data, profileTTL); err != nil {
		logger.WarnWithFields("Failed to cache profile", err)
		return
	}
	metrics.Get().CacheOperationsTotal.WithLabelValues("set", "dataset_profile").Inc()
}

// InvalidateProfile drops the cached profile after the dataset changes
func InvalidateProfile(ctx context.Context, datasetID string) {
	rc := globalRedis
	if rc == nil {
		return
	}
	if err := rc.Del(ctx, profileKey(datasetID)); err != nil {
		logger.WarnWithFields("Failed to invalidate cached profile", err)
	}
}
