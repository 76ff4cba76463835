package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"reno_market/internal/domain/models"
	"reno_market/internal/storage"
	redisapp "reno_market/internal/storage/redis"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSummaryCache keeps computed project summaries hot so listing
// pages do not re-run the aggregate query on every request.
type RedisSummaryCache struct {
	Client *redisapp.Client
}

func NewRedisSummaryCache(client *redisapp.Client) *RedisSummaryCache {
	return &RedisSummaryCache{Client: client}
}

func (r *RedisSummaryCache) GetSummary(ctx context.Context, projectID uuid.UUID) (models.ProjectSummary, error) {
	const op = "repository.summary_cache.GetSummary"

	raw, err := r.Client.Get(ctx, summaryKey(projectID)).Result()
	if err == redis.Nil {
		return models.ProjectSummary{}, fmt.Errorf("%s: %w", op, storage.ErrCacheMiss)
	}
	if err != nil {
		return models.ProjectSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	var summary models.ProjectSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return models.ProjectSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	return summary, nil
}

func (r *RedisSummaryCache) SetSummary(ctx context.Context, summary models.ProjectSummary, ttl time.Duration) error {
	const op = "repository.summary_cache.SetSummary"

	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.Client.Set(ctx, summaryKey(summary.ProjectID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisSummaryCache) InvalidateSummary(ctx context.Context, projectID uuid.UUID) error {
	const op = "repository.summary_cache.InvalidateSummary"

	if err := r.Client.Del(ctx, summaryKey(projectID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func summaryKey(projectID uuid.UUID) string {
	return "summary:" + projectID.String()
}
