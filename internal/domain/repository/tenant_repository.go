package repository

import "github.com/jcastillo/puntoventa-api/internal/domain/entity"

// TenantRepository puerto de persistencia de tenants (empresas).
type TenantRepository interface {
	Create(t *entity.Tenant) error
	GetByID(id string) (*entity.Tenant, error)
	GetByName(name string) (*entity.Tenant, error)
	List() ([]*entity.Tenant, error)
}
