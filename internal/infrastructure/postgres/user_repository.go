package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository sobre PostgreSQL (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, tenant_id, role, store_id, full_name, email, password_hash, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var storeID *string
	err := row.Scan(&u.ID, &u.TenantID, &u.Role, &storeID, &u.FullName,
		&u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if storeID != nil {
		u.StoreID = *storeID
	}
	return &u, nil
}

// Create persiste un usuario. Email único por tenant.
func (r *UserRepo) Create(u *entity.User) error {
	query := `
		INSERT INTO users (id, tenant_id, role, store_id, full_name, email, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		u.ID, u.TenantID, u.Role, nullIfEmpty(u.StoreID), u.FullName,
		u.Email, u.PasswordHash, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario del tenant.
func (r *UserRepo) GetByID(tenantID, id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1 AND id = $2`
	u, err := scanUser(r.q.QueryRow(context.Background(), query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// FindByEmail busca un usuario activo por email (login).
func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_active = true`
	u, err := scanUser(r.q.QueryRow(context.Background(), query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// ListByTenant lista usuarios del tenant.
func (r *UserRepo) ListByTenant(tenantID string) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Update actualiza un usuario existente.
func (r *UserRepo) Update(u *entity.User) error {
	query := `
		UPDATE users SET role = $3, store_id = $4, full_name = $5, email = $6, password_hash = $7, is_active = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(context.Background(), query,
		u.TenantID, u.ID, u.Role, nullIfEmpty(u.StoreID), u.FullName,
		u.Email, u.PasswordHash, u.IsActive, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
