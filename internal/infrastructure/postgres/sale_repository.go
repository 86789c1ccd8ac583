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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// NextNumber incrementa y devuelve el consecutivo del tenant. El upsert sobre
// sale_counters es atómico: la fila queda bloqueada hasta el commit de la
// transacción, así dos ventas concurrentes nunca comparten número.
func (r *SaleRepo) NextNumber(tenantID string) (int64, error) {
	query := `
		INSERT INTO sale_counters (tenant_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (tenant_id)
		DO UPDATE SET last_number = sale_counters.last_number + 1
		RETURNING last_number`
	var n int64
	if err := r.q.QueryRow(context.Background(), query, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sale number: %w", err)
	}
	return n, nil
}

// Create persiste la cabecera y todos los items de la venta.
func (r *SaleRepo) Create(s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, tenant_id, store_id, user_id, number, payment_method, yape_operation_number, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.TenantID, s.StoreID, nullIfEmpty(s.UserID), s.Number,
		s.PaymentMethod, nullIfEmpty(s.YapeOperationNumber), s.Total, s.Status, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sale number already exists: %w", err)
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	itemQuery := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, item := range s.Items {
		if _, err := r.q.Exec(context.Background(), itemQuery,
			item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
		); err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta del tenant con sus items; nil si no existe.
func (r *SaleRepo) GetByID(tenantID, id string) (*entity.Sale, error) {
	query := `
		SELECT id, tenant_id, store_id, user_id, number, payment_method, yape_operation_number, total, status, void_reason, voided_at, created_at
		FROM sales WHERE tenant_id = $1 AND id = $2`
	var s entity.Sale
	var userID, yapeOp, voidReason *string
	err := r.q.QueryRow(context.Background(), query, tenantID, id).Scan(
		&s.ID, &s.TenantID, &s.StoreID, &userID, &s.Number, &s.PaymentMethod,
		&yapeOp, &s.Total, &s.Status, &voidReason, &s.VoidedAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if userID != nil {
		s.UserID = *userID
	}
	if yapeOp != nil {
		s.YapeOperationNumber = *yapeOp
	}
	if voidReason != nil {
		s.VoidReason = *voidReason
	}

	itemQuery := `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), itemQuery, s.ID)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID,
			&item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// List lista ventas según el filtro, sin items.
func (r *SaleRepo) List(f repository.SaleFilter) ([]*entity.Sale, error) {
	query := `
		SELECT id, tenant_id, store_id, user_id, number, payment_method, yape_operation_number, total, status, void_reason, voided_at, created_at
		FROM sales WHERE tenant_id = $1`
	args := []any{f.TenantID}
	pos := 2
	if !f.IncludeVoided {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, entity.SaleStatusActive)
		pos++
	}
	if f.StoreID != "" {
		query += fmt.Sprintf(" AND store_id = $%d", pos)
		args = append(args, f.StoreID)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		var userID, yapeOp, voidReason *string
		if err := rows.Scan(&s.ID, &s.TenantID, &s.StoreID, &userID, &s.Number, &s.PaymentMethod,
			&yapeOp, &s.Total, &s.Status, &voidReason, &s.VoidedAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if userID != nil {
			s.UserID = *userID
		}
		if yapeOp != nil {
			s.YapeOperationNumber = *yapeOp
		}
		if voidReason != nil {
			s.VoidReason = *voidReason
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// MarkVoided pasa la venta a VOIDED. El WHERE sobre status evita anular dos
// veces bajo concurrencia.
func (r *SaleRepo) MarkVoided(s *entity.Sale) error {
	query := `
		UPDATE sales SET status = $3, void_reason = $4, voided_at = $5
		WHERE tenant_id = $1 AND id = $2 AND status = $6`
	cmd, err := r.q.Exec(context.Background(), query,
		s.TenantID, s.ID, entity.SaleStatusVoided, nullIfEmpty(s.VoidReason), s.VoidedAt, entity.SaleStatusActive,
	)
	if err != nil {
		return fmt.Errorf("mark sale voided: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		// La venta dejó de estar ACTIVE entre la lectura y el UPDATE
		// (doble anulación concurrente): mismo contrato que el caso de uso.
		return domain.ErrSaleVoided
	}
	return nil
}
