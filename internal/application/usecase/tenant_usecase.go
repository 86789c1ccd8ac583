package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
)

// TenantUseCase alta y consulta de tenants (empresas).
type TenantUseCase struct {
	repo repository.TenantRepository
}

// NewTenantUseCase construye el caso de uso.
func NewTenantUseCase(repo repository.TenantRepository) *TenantUseCase {
	return &TenantUseCase{repo: repo}
}

// Create crea un tenant. El nombre es único global.
func (uc *TenantUseCase) Create(name string) (*entity.Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	tenant := &entity.Tenant{
		ID:        uuid.New().String(),
		Name:      name,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// List lista todos los tenants.
func (uc *TenantUseCase) List() ([]*entity.Tenant, error) {
	return uc.repo.List()
}
