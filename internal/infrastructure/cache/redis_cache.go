package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/PavaniTiago/survey-api/internal/config"
	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient abre o cliente e confere a conexão com PING
func NewRedisClient(ctx context.Context, conf config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// RedisStatisticsCache compartilha estatísticas entre instâncias da API
type RedisStatisticsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatisticsCache(client *redis.Client, ttl time.Duration) *RedisStatisticsCache {
	return &RedisStatisticsCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisStatisticsCache) Get(ctx context.Context, surveyID int64) ([]entities.Statistics, bool, error) {
	data, err := c.client.Get(ctx, statisticsKey(surveyID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var stats []entities.Statistics
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, false, err
	}
	return stats, true, nil
}

func (c *RedisStatisticsCache) Set(ctx context.Context, surveyID int64, stats []entities.Statistics) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statisticsKey(surveyID), data, c.ttl).Err()
}

func (c *RedisStatisticsCache) Invalidate(ctx context.Context, surveyID int64) error {
	return c.client.Del(ctx, statisticsKey(surveyID)).Err()
}
