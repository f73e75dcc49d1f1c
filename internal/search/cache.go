package search

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"selectshop/internal/models"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "selectshop:search:"

// CachedClient guarda no Redis os resultados das buscas interativas.
// Sem Redis (rdb nil) ou com o Redis fora do ar, consulta direto o próximo Client.
type CachedClient struct {
	next   Client
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedClient(next Client, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedClient {
	return &CachedClient{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedClient) Search(ctx context.Context, query string) ([]models.Item, error) {
	if c.rdb == nil || c.ttl <= 0 {
		return c.next.Search(ctx, query)
	}

	key := cacheKey(query)
	if items, ok := c.get(ctx, key); ok {
		return items, nil
	}

	items, err := c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	c.set(ctx, key, items)
	return items, nil
}

func (c *CachedClient) get(ctx context.Context, key string) ([]models.Item, bool) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache de busca indisponível", "error", err)
		return nil, false
	}

	var items []models.Item
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn("entrada de cache inválida", "key", key, "error", err)
		return nil, false
	}
	return items, true
}

func (c *CachedClient) set(ctx context.Context, key string, items []models.Item) {
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("falha ao gravar cache de busca", "key", key, "error", err)
	}
}

// cacheKey preserva maiúsculas: o provedor pode ordenar "Mouse" e "mouse" de forma diferente
func cacheKey(query string) string {
	return cacheKeyPrefix + strings.TrimSpace(query)
}
