package cache

import (
	"context"
	"time"

	"github.com/jcastillo/puntoventa-api/internal/application/inventory"
)

var _ inventory.StockCache = NoopStockCache{}

// NoopStockCache implementación nula: sin Redis configurado, toda lectura va
// directo al kardex. Útil en desarrollo y tests.
type NoopStockCache struct{}

func (NoopStockCache) Get(ctx context.Context, tenantID, storeID, productID string) (int64, bool, error) {
	return 0, false, nil
}

func (NoopStockCache) Set(ctx context.Context, tenantID, storeID, productID string, stock int64, ttl time.Duration) error {
	return nil
}

func (NoopStockCache) Invalidate(ctx context.Context, tenantID, storeID string, productIDs ...string) error {
	return nil
}
