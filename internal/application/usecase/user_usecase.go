package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
)

// UserUseCase gestión de usuarios del tenant.
type UserUseCase struct {
	userRepo  repository.UserRepository
	storeRepo repository.StoreRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(userRepo repository.UserRepository, storeRepo repository.StoreRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, storeRepo: storeRepo}
}

// roleRequiresStore VENDEDOR y ALMACEN operan siempre sobre una tienda asignada.
func roleRequiresStore(role string) bool {
	return role == domain.RoleVendedor || role == domain.RoleAlmacen
}

// Create crea un usuario con password hasheado (bcrypt). StoreID es
// obligatorio para roles con tienda asignada y debe ser del tenant.
func (uc *UserUseCase) Create(tenantID string, in dto.CreateUserRequest) (*entity.User, error) {
	role := strings.ToUpper(strings.TrimSpace(in.Role))
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	if role != domain.RoleAdmin && role != domain.RoleVendedor && role != domain.RoleAlmacen {
		return nil, domain.ErrInvalidInput
	}
	if roleRequiresStore(role) && in.StoreID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.StoreID != "" {
		store, err := uc.storeRepo.GetByID(tenantID, in.StoreID)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, domain.ErrNotFound
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Role:         role,
		StoreID:      in.StoreID,
		FullName:     in.FullName,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// List lista usuarios del tenant.
func (uc *UserUseCase) List(tenantID string) ([]*entity.User, error) {
	return uc.userRepo.ListByTenant(tenantID)
}

// Update aplica cambios parciales a un usuario.
func (uc *UserUseCase) Update(tenantID, id string, in dto.UpdateUserRequest) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Role != nil {
		role := strings.ToUpper(strings.TrimSpace(*in.Role))
		if role != domain.RoleAdmin && role != domain.RoleVendedor && role != domain.RoleAlmacen {
			return nil, domain.ErrInvalidInput
		}
		user.Role = role
	}
	if in.StoreID != nil {
		if *in.StoreID != "" {
			store, err := uc.storeRepo.GetByID(tenantID, *in.StoreID)
			if err != nil {
				return nil, err
			}
			if store == nil {
				return nil, domain.ErrNotFound
			}
		}
		user.StoreID = *in.StoreID
	}
	if roleRequiresStore(user.Role) && user.StoreID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
