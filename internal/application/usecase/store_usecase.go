package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
)

// StoreUseCase CRUD de tiendas del tenant.
type StoreUseCase struct {
	repo repository.StoreRepository
}

// NewStoreUseCase construye el caso de uso.
func NewStoreUseCase(repo repository.StoreRepository) *StoreUseCase {
	return &StoreUseCase{repo: repo}
}

// Create crea una tienda.
func (uc *StoreUseCase) Create(tenantID string, in dto.CreateStoreRequest) (*entity.Store, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	store := &entity.Store{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      in.Name,
		Address:   in.Address,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(store); err != nil {
		return nil, err
	}
	return store, nil
}

// List lista tiendas del tenant.
func (uc *StoreUseCase) List(tenantID string) ([]*entity.Store, error) {
	return uc.repo.ListByTenant(tenantID)
}

// Update aplica cambios parciales a una tienda.
func (uc *StoreUseCase) Update(tenantID, id string, in dto.UpdateStoreRequest) (*entity.Store, error) {
	store, err := uc.repo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		store.Name = *in.Name
	}
	if in.Address != nil {
		store.Address = *in.Address
	}
	if in.IsActive != nil {
		store.IsActive = *in.IsActive
	}
	if err := uc.repo.Update(store); err != nil {
		return nil, err
	}
	return store, nil
}
