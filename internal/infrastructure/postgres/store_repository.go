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

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación de StoreRepository sobre PostgreSQL (usable con pool o tx).
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

// Create persiste una tienda.
func (r *StoreRepo) Create(s *entity.Store) error {
	query := `
		INSERT INTO stores (id, tenant_id, name, address, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.TenantID, s.Name, nullIfEmpty(s.Address), s.IsActive, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

// GetByID obtiene una tienda del tenant.
func (r *StoreRepo) GetByID(tenantID, id string) (*entity.Store, error) {
	query := `
		SELECT id, tenant_id, name, address, is_active, created_at
		FROM stores WHERE tenant_id = $1 AND id = $2`
	var s entity.Store
	var address *string
	err := r.q.QueryRow(context.Background(), query, tenantID, id).Scan(
		&s.ID, &s.TenantID, &s.Name, &address, &s.IsActive, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	if address != nil {
		s.Address = *address
	}
	return &s, nil
}

// ListByTenant lista tiendas del tenant.
func (r *StoreRepo) ListByTenant(tenantID string) ([]*entity.Store, error) {
	query := `
		SELECT id, tenant_id, name, address, is_active, created_at
		FROM stores WHERE tenant_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var list []*entity.Store
	for rows.Next() {
		var s entity.Store
		var address *string
		if err := rows.Scan(&s.ID, &s.TenantID, &s.Name, &address, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		if address != nil {
			s.Address = *address
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Update actualiza una tienda existente.
func (r *StoreRepo) Update(s *entity.Store) error {
	query := `
		UPDATE stores SET name = $3, address = $4, is_active = $5
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(context.Background(), query,
		s.TenantID, s.ID, s.Name, nullIfEmpty(s.Address), s.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update store: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
