package repository

import "github.com/jcastillo/puntoventa-api/internal/domain/entity"

// ProductRepository puerto de persistencia de productos.
type ProductRepository interface {
	Create(p *entity.Product) error

	// GetByID obtiene un producto del tenant; nil si no existe o es de otro tenant.
	GetByID(tenantID, id string) (*entity.Product, error)

	// GetByBarcode obtiene un producto activo por código de barras (único por tenant).
	GetByBarcode(tenantID, barcode string) (*entity.Product, error)

	// GetManyByIDs resuelve varios productos del tenant. Devuelve solo los que
	// existen; el llamador compara tamaños para detectar ids inválidos.
	GetManyByIDs(tenantID string, ids []string) ([]*entity.Product, error)

	// ListByTenant lista productos; q filtra por nombre o barcode (ILIKE).
	ListByTenant(tenantID, q string) ([]*entity.Product, error)

	Update(p *entity.Product) error
}
