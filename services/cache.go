package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/satheesh067/Flight-Price-Prediction/config"
	"github.com/satheesh067/Flight-Price-Prediction/logger"
)

const (
	pingAttempts = 5
	keyPrefix    = "flightfare"
	analyticsTTL = 10 * time.Minute
)

// CacheService wraps redis. With no client every call is a no-op and reads
// report a miss.
type CacheService struct {
	client *redis.Client
	log    *logger.Logger
}

// NewCacheService connects to redis, or returns a disabled cache when Host is
// empty. A failed ping also yields a usable disabled cache alongside the error.
func NewCacheService(cfg config.RedisConfig, baseLog *logger.Logger) (*CacheService, error) {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	log := baseLog.With("service", "CacheService")
	if cfg.Host == "" {
		log.Info("redis disabled")
		return &CacheService{log: log}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	var lastErr error
	for i := 0; i < pingAttempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		lastErr = client.Ping(ctx).Err()
		cancel()
		if lastErr == nil {
			return &CacheService{client: client, log: log}, nil
		}
		log.Warn("redis ping failed", "attempt", i+1, "of", pingAttempts, "error", lastErr)
		time.Sleep(time.Second)
	}
	_ = client.Close()

	return &CacheService{log: log}, fmt.Errorf("redis ping failed after %d attempts: %w", pingAttempts, lastErr)
}

// NewCacheServiceFromClient wraps an existing client.
func NewCacheServiceFromClient(client *redis.Client, baseLog *logger.Logger) *CacheService {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &CacheService{client: client, log: baseLog.With("service", "CacheService")}
}

func (s *CacheService) Available() bool {
	return s != nil && s.client != nil
}

// Get decodes key into dest and reports whether it was present.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Available() {
		return false, nil
	}
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Available() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Delete(ctx context.Context, key string) error {
	if !s.Available() {
		return nil
	}
	return s.client.Del(ctx, key).Err()
}

// Version returns the user's analytics generation. It starts at 0 and only
// grows, so a cached entry keyed by an older version is never read again.
func (s *CacheService) Version(ctx context.Context, userID uint) (int64, error) {
	if !s.Available() {
		return 0, nil
	}
	v, err := s.client.Get(ctx, versionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Bump advances the user's analytics generation.
func (s *CacheService) Bump(ctx context.Context, userID uint) error {
	if !s.Available() {
		return nil
	}
	return s.client.Incr(ctx, versionKey(userID)).Err()
}

func (s *CacheService) Publish(ctx context.Context, channel string, message interface{}) error {
	if !s.Available() {
		return nil
	}
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, channel, data).Err()
}

// Subscribe returns nil when redis is disabled.
func (s *CacheService) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	if !s.Available() {
		return nil
	}
	return s.client.Subscribe(ctx, channel)
}

func (s *CacheService) Close() error {
	if !s.Available() {
		return nil
	}
	return s.client.Close()
}

func versionKey(userID uint) string {
	return fmt.Sprintf("%s:analytics:version:%d", keyPrefix, userID)
}

func AnalyticsKey(userID uint, version int64) string {
	return fmt.Sprintf("%s:analytics:%d:v%d", keyPrefix, userID, version)
}

func RouteAnalyticsKey(userID uint, version int64, source, destination string) string {
	return fmt.Sprintf("%s:route-analytics:%d:v%d:%s:%s", keyPrefix, userID, version, source, destination)
}

// PredictionChannel is the pub/sub channel carrying a user's new predictions.
func PredictionChannel(userID uint) string {
	return fmt.Sprintf("%s:predictions:%d", keyPrefix, userID)
}
