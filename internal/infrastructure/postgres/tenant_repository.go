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

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo implementación de TenantRepository sobre PostgreSQL (usable con pool o tx).
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

// Create persiste un tenant. Nombre único global.
func (r *TenantRepo) Create(t *entity.Tenant) error {
	query := `INSERT INTO tenants (id, name, is_active, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, t.ID, t.Name, t.IsActive, t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID obtiene un tenant por id.
func (r *TenantRepo) GetByID(id string) (*entity.Tenant, error) {
	query := `SELECT id, name, is_active, created_at FROM tenants WHERE id = $1`
	var t entity.Tenant
	err := r.q.QueryRow(context.Background(), query, id).Scan(&t.ID, &t.Name, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &t, nil
}

// GetByName obtiene un tenant por nombre.
func (r *TenantRepo) GetByName(name string) (*entity.Tenant, error) {
	query := `SELECT id, name, is_active, created_at FROM tenants WHERE name = $1`
	var t entity.Tenant
	err := r.q.QueryRow(context.Background(), query, name).Scan(&t.ID, &t.Name, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant by name: %w", err)
	}
	return &t, nil
}

// List lista todos los tenants.
func (r *TenantRepo) List() ([]*entity.Tenant, error) {
	query := `SELECT id, name, is_active, created_at FROM tenants ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var list []*entity.Tenant
	for rows.Next() {
		var t entity.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
