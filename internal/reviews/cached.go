package reviews

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cloud-ru/mcp-mortgage-go/internal/metrics"
)

// CachedProvider кеширует результаты другого Provider
type CachedProvider struct {
	next  Provider
	cache Cache
	ttl   time.Duration
}

// NewCachedProvider оборачивает provider кешем
func NewCachedProvider(next Provider, cache Cache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, ttl: ttl}
}

// Lookup отдает результат из кеша или запрашивает его у следующего Provider
func (p *CachedProvider) Lookup(ctx context.Context, building string) (*BuildingReviews, error) {
	logger := zerolog.Ctx(ctx)
	key := cacheKey(building)

	if raw, ok := p.cache.Get(ctx, key); ok {
		var cached BuildingReviews
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			metrics.ReviewLookups.WithLabelValues("cache", "hit").Inc()
			return &cached, nil
		}
		logger.Warn().Str("key", key).Msg("поврежденная запись в кеше отзывов")
	}
	metrics.ReviewLookups.WithLabelValues("cache", "miss").Inc()

	result, err := p.next.Lookup(ctx, building)
	if err != nil {
		metrics.ReviewLookups.WithLabelValues("places", "error").Inc()
		return nil, err
	}
	metrics.ReviewLookups.WithLabelValues("places", "success").Inc()

	raw, err := json.Marshal(result)
	if err != nil {
		return result, nil
	}
	if err := p.cache.Set(ctx, key, string(raw), p.ttl); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("не удалось сохранить отзывы в кеш")
	}
	return result, nil
}

func cacheKey(building string) string {
	return "reviews:" + strings.ToLower(strings.Join(strings.Fields(building), " "))
}
