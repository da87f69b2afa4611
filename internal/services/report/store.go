package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/phambaophuc/image-shrink/internal/config"
	"github.com/phambaophuc/image-shrink/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	SummaryKeyPrefix = "shrink_run:"
	LatestKeyPrefix  = "shrink_latest:"
)

// kvClient is the part of *redis.Client the store uses.
type kvClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore keeps run summaries in Redis for ttl.
type RedisStore struct {
	client kvClient
	ttl    time.Duration
}

func NewRedisStore(cfg config.RedisConfig, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})
	return newRedisStore(client, ttl)
}

func newRedisStore(client kvClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func SummaryKey(runID string) string {
	return SummaryKeyPrefix + runID
}

func LatestKey(folder string) string {
	return LatestKeyPrefix + folder
}

// SaveSummary stores the summary under its run id and points the folder's
// latest key at it.
func (s *RedisStore) SaveSummary(ctx context.Context, summary *models.RunSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	if err := s.client.Set(ctx, SummaryKey(summary.RunID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store run summary: %w", err)
	}
	if err := s.client.Set(ctx, LatestKey(summary.Folder), summary.RunID, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store latest run pointer: %w", err)
	}
	return nil
}

// HealthCheck pings Redis.
func (s *RedisStore) HealthCheck(ctx context.Context) string {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
