package inventory

import (
	"context"
	"time"

	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de movimientos atado a esa tx. Garantiza atomicidad para el
// kardex: o se inserta el movimiento o no queda nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(movRepo repository.MovementRepository) error) error
}

// StockCache cache de lecturas de stock por (tenant, tienda, producto).
// Toda escritura al kardex debe invalidar las claves tocadas.
type StockCache interface {
	Get(ctx context.Context, tenantID, storeID, productID string) (int64, bool, error)
	Set(ctx context.Context, tenantID, storeID, productID string, stock int64, ttl time.Duration) error
	Invalidate(ctx context.Context, tenantID, storeID string, productIDs ...string) error
}
