package repository

import (
	"time"

	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
)

// MovementFilter filtros para listar el kardex.
type MovementFilter struct {
	TenantID  string
	StoreID   string
	ProductID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// MovementRepository puerto de persistencia del kardex (append-only).
type MovementRepository interface {
	// Create inserta un movimiento nuevo. Nunca se actualiza ni se borra.
	Create(m *entity.Movement) error

	// LockStock serializa a los escritores de un (tenant, tienda, producto)
	// hasta el fin de la transacción en curso. Debe tomarse antes de leer el
	// stock cuando se va a escribir en función de él.
	LockStock(tenantID, storeID, productID string) error

	// SumStock devuelve SUM(quantity * direction) del tuple; 0 si no hay filas.
	SumStock(tenantID, storeID, productID string) (int64, error)

	// List lista movimientos según el filtro, del más reciente al más antiguo.
	List(f MovementFilter) ([]*entity.Movement, error)
}
