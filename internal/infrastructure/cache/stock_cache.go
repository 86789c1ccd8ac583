package cache

import (
	"context"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jcastillo/puntoventa-api/internal/application/inventory"
)

var _ inventory.StockCache = (*RedisStockCache)(nil)

// RedisStockCache cache de stock sobre Redis. Clave por tuple
// (tenant, tienda, producto); toda escritura al kardex invalida sus claves.
type RedisStockCache struct {
	client *redis.Client
}

// NewRedisStockCache construye el cache con su propio cliente.
func NewRedisStockCache(addr, password string, db int) *RedisStockCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStockCache{client: client}
}

// Ping verifica la conexión.
func (c *RedisStockCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (c *RedisStockCache) Close() error {
	return c.client.Close()
}

func stockKey(tenantID, storeID, productID string) string {
	return "stock:" + tenantID + ":" + storeID + ":" + productID
}

// Get devuelve el stock cacheado; ok=false si la clave no existe.
func (c *RedisStockCache) Get(ctx context.Context, tenantID, storeID, productID string) (int64, bool, error) {
	val, err := c.client.Get(ctx, stockKey(tenantID, storeID, productID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	stock, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return stock, true, nil
}

// Set guarda el stock con TTL.
func (c *RedisStockCache) Set(ctx context.Context, tenantID, storeID, productID string, stock int64, ttl time.Duration) error {
	return c.client.Set(ctx, stockKey(tenantID, storeID, productID), strconv.FormatInt(stock, 10), ttl).Err()
}

// Invalidate elimina las claves de los productos tocados.
func (c *RedisStockCache) Invalidate(ctx context.Context, tenantID, storeID string, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = stockKey(tenantID, storeID, id)
	}
	return c.client.Del(ctx, keys...).Err()
}
