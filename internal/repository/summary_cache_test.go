package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"reno_market/internal/domain/models"
	"reno_market/internal/storage"
	redisapp "reno_market/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockedCache(t *testing.T) (*RedisSummaryCache, redismock.ClientMock) {
	t.Helper()

	db, mock := redismock.NewClientMock()
	return NewRedisSummaryCache(&redisapp.Client{Client: db}), mock
}

func TestSummaryCache_SetGet(t *testing.T) {
	cache, mock := newMockedCache(t)

	summary := models.ProjectSummary{
		ProjectID:      uuid.MustParse("123e4567-e89b-12d3-a456-426614174000"),
		RoomCount:      3,
		ProductCount:   12,
		TotalCostCents: 450000,
	}

	raw, err := json.Marshal(summary)
	require.NoError(t, err)

	mock.ExpectSet("summary:"+summary.ProjectID.String(), raw, 5*time.Minute).SetVal("OK")
	mock.ExpectGet("summary:" + summary.ProjectID.String()).SetVal(string(raw))

	require.NoError(t, cache.SetSummary(context.Background(), summary, 5*time.Minute))

	got, err := cache.GetSummary(context.Background(), summary.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, summary, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryCache_Miss(t *testing.T) {
	cache, mock := newMockedCache(t)

	projectID := uuid.New()
	mock.ExpectGet("summary:" + projectID.String()).RedisNil()

	_, err := cache.GetSummary(context.Background(), projectID)

	assert.ErrorIs(t, err, storage.ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryCache_Invalidate(t *testing.T) {
	cache, mock := newMockedCache(t)

	projectID := uuid.New()
	mock.ExpectDel("summary:" + projectID.String()).SetVal(1)

	assert.NoError(t, cache.InvalidateSummary(context.Background(), projectID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
