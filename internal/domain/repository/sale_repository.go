package repository

import (
	"time"

	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
)

// SaleFilter filtros para listar ventas.
type SaleFilter struct {
	TenantID      string
	StoreID       string
	From          *time.Time
	To            *time.Time
	IncludeVoided bool
	Limit         int
	Offset        int
}

// SaleRepository puerto de persistencia de ventas.
type SaleRepository interface {
	// Create inserta la cabecera y todos sus items.
	Create(s *entity.Sale) error

	// GetByID obtiene una venta del tenant con sus items; nil si no existe.
	GetByID(tenantID, id string) (*entity.Sale, error)

	// List lista ventas según el filtro, de la más reciente a la más antigua.
	// No carga items.
	List(f SaleFilter) ([]*entity.Sale, error)

	// NextNumber incrementa y devuelve el consecutivo del tenant. Atómico:
	// dos transacciones concurrentes nunca reciben el mismo número.
	NextNumber(tenantID string) (int64, error)

	// MarkVoided pasa la venta a VOIDED (estado terminal) con motivo y fecha.
	// Si la venta ya no está ACTIVE devuelve domain.ErrSaleVoided.
	MarkVoided(s *entity.Sale) error
}
