package postgres

import (
	"context"
	"fmt"

	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable
// con pool o tx). La tabla inventory_movements es append-only: no hay UPDATE
// ni DELETE en este adaptador.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento de kardex.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO inventory_movements (id, tenant_id, store_id, product_id, type, quantity, direction, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.TenantID, m.StoreID, m.ProductID, m.Type,
		m.Quantity, m.Direction, nullIfEmpty(m.Note), nullIfEmpty(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// LockStock toma un advisory lock transaccional sobre el tuple
// (tenant, tienda, producto). Serializa el check-then-act de stock sin
// necesitar una fila materializada que bloquear; se libera solo al terminar
// la transacción.
func (r *MovementRepo) LockStock(tenantID, storeID, productID string) error {
	key := tenantID + "/" + storeID + "/" + productID
	_, err := r.q.Exec(context.Background(),
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key)
	if err != nil {
		return fmt.Errorf("lock stock: %w", err)
	}
	return nil
}

// SumStock deriva el stock actual: SUM(quantity * direction) del tuple.
func (r *MovementRepo) SumStock(tenantID, storeID, productID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity * direction), 0)
		FROM inventory_movements
		WHERE tenant_id = $1 AND store_id = $2 AND product_id = $3`
	var total int64
	err := r.q.QueryRow(context.Background(), query, tenantID, storeID, productID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum stock: %w", err)
	}
	return total, nil
}

// List lista movimientos del tenant según el filtro, del más reciente al más antiguo.
func (r *MovementRepo) List(f repository.MovementFilter) ([]*entity.Movement, error) {
	query := `
		SELECT id, tenant_id, store_id, product_id, type, quantity, direction, note, created_by, created_at
		FROM inventory_movements WHERE tenant_id = $1`
	args := []any{f.TenantID}
	pos := 2
	if f.StoreID != "" {
		query += fmt.Sprintf(" AND store_id = $%d", pos)
		args = append(args, f.StoreID)
		pos++
	}
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
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
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var note, createdBy *string
		if err := rows.Scan(&m.ID, &m.TenantID, &m.StoreID, &m.ProductID, &m.Type,
			&m.Quantity, &m.Direction, &note, &createdBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if note != nil {
			m.Note = *note
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
