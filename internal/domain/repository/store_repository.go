package repository

import "github.com/jcastillo/puntoventa-api/internal/domain/entity"

// StoreRepository puerto de persistencia de tiendas.
type StoreRepository interface {
	Create(s *entity.Store) error

	// GetByID obtiene una tienda del tenant; nil si no existe o es de otro tenant.
	GetByID(tenantID, id string) (*entity.Store, error)

	ListByTenant(tenantID string) ([]*entity.Store, error)

	Update(s *entity.Store) error
}
