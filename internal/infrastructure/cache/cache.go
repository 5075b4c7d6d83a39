package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/PavaniTiago/survey-api/internal/domain/entities"
	gocache "github.com/patrickmn/go-cache"
)

func statisticsKey(surveyID int64) string {
	return fmt.Sprintf("survey:%d:statistics", surveyID)
}

// MemoryStatisticsCache guarda estatísticas em memória do processo
type MemoryStatisticsCache struct {
	cache *gocache.Cache
}

// NewMemoryStatisticsCache cria um cache com expiração ttl e limpeza periódica
func NewMemoryStatisticsCache(ttl time.Duration) *MemoryStatisticsCache {
	return &MemoryStatisticsCache{
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *MemoryStatisticsCache) Get(_ context.Context, surveyID int64) ([]entities.Statistics, bool, error) {
	cached, found := c.cache.Get(statisticsKey(surveyID))
	if !found {
		return nil, false, nil
	}
	stats, ok := cached.([]entities.Statistics)
	if !ok {
		return nil, false, fmt.Errorf("unexpected cached type %T", cached)
	}
	// cópia para que o chamador não altere o valor guardado
	out := make([]entities.Statistics, len(stats))
	copy(out, stats)
	return out, true, nil
}

func (c *MemoryStatisticsCache) Set(_ context.Context, surveyID int64, stats []entities.Statistics) error {
	stored := make([]entities.Statistics, len(stats))
	copy(stored, stats)
	c.cache.SetDefault(statisticsKey(surveyID), stored)
	return nil
}

func (c *MemoryStatisticsCache) Invalidate(_ context.Context, surveyID int64) error {
	c.cache.Delete(statisticsKey(surveyID))
	return nil
}
