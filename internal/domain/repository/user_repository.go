package repository

import "github.com/jcastillo/puntoventa-api/internal/domain/entity"

// UserRepository puerto de persistencia de usuarios.
type UserRepository interface {
	Create(u *entity.User) error

	// GetByID obtiene un usuario del tenant; nil si no existe.
	GetByID(tenantID, id string) (*entity.User, error)

	// FindByEmail busca un usuario activo por email (login).
	FindByEmail(email string) (*entity.User, error)

	ListByTenant(tenantID string) ([]*entity.User, error)

	Update(u *entity.User) error
}
