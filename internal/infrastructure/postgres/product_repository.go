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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, tenant_id, name, category, barcode, image_url, price, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var category, imageURL *string
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &category, &p.Barcode,
		&imageURL, &p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if category != nil {
		p.Category = *category
	}
	if imageURL != nil {
		p.ImageURL = *imageURL
	}
	return &p, nil
}

// Create persiste un producto. Barcode único por tenant.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (id, tenant_id, name, category, barcode, image_url, price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.TenantID, p.Name, nullIfEmpty(p.Category), p.Barcode,
		nullIfEmpty(p.ImageURL), p.Price, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto del tenant.
func (r *ProductRepo) GetByID(tenantID, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = $2`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByBarcode obtiene un producto activo por código de barras del tenant.
func (r *ProductRepo) GetByBarcode(tenantID, barcode string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND barcode = $2 AND is_active = true`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, tenantID, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by barcode: %w", err)
	}
	return p, nil
}

// GetManyByIDs resuelve varios productos del tenant. Devuelve solo los
// existentes; los ids desconocidos o de otro tenant simplemente no aparecen.
func (r *ProductRepo) GetManyByIDs(tenantID string, ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = ANY($2)`
	rows, err := r.q.Query(context.Background(), query, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListByTenant lista productos; q filtra por nombre o barcode (ILIKE).
func (r *ProductRepo) ListByTenant(tenantID, q string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1`
	args := []any{tenantID}
	if q != "" {
		query += ` AND (name ILIKE $2 OR barcode ILIKE $2)`
		args = append(args, "%"+q+"%")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza un producto existente.
func (r *ProductRepo) Update(p *entity.Product) error {
	query := `
		UPDATE products SET name = $3, category = $4, barcode = $5, image_url = $6, price = $7, is_active = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(context.Background(), query,
		p.TenantID, p.ID, p.Name, nullIfEmpty(p.Category), p.Barcode,
		nullIfEmpty(p.ImageURL), p.Price, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
