package sales

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcastillo/puntoventa-api/internal/application/inventory"
	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
)

// VoidSaleUseCase anula una venta: transición ACTIVE -> VOIDED (terminal) más
// un movimiento IN compensatorio por cada item, en una sola transacción. El
// kardex nunca se reescribe; la anulación devuelve el stock con entradas
// nuevas que referencian el número de la venta.
type VoidSaleUseCase struct {
	txRunner TxRunner
	cache    inventory.StockCache
}

// NewVoidSaleUseCase construye el caso de uso.
func NewVoidSaleUseCase(txRunner TxRunner, cache inventory.StockCache) *VoidSaleUseCase {
	return &VoidSaleUseCase{txRunner: txRunner, cache: cache}
}

// VoidSale anula la venta indicada. Requiere la capacidad sales:void.
func (uc *VoidSaleUseCase) VoidSale(ctx context.Context, actor domain.Actor, saleID, reason string) (*entity.Sale, error) {
	if !domain.RoleHasPermission(actor.Role, domain.PermVoidSale) {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	var voided *entity.Sale

	err := uc.txRunner.RunSale(ctx, func(
		movRepo repository.MovementRepository,
		saleRepo repository.SaleRepository,
		_ repository.ProductRepository,
	) error {
		sale, err := saleRepo.GetByID(actor.TenantID, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleStatusVoided {
			return domain.ErrSaleVoided
		}

		sale.Status = entity.SaleStatusVoided
		sale.VoidReason = strings.TrimSpace(reason)
		sale.VoidedAt = &now
		if err := saleRepo.MarkVoided(sale); err != nil {
			return err
		}

		// Mismo orden canónico de locks que la creación de ventas: una
		// anulación y una venta concurrentes sobre los mismos productos se
		// serializan en vez de esperarse en cruz.
		ids := make([]string, 0, len(sale.Items))
		for _, item := range sale.Items {
			ids = append(ids, item.ProductID)
		}
		for _, productID := range sortedIDs(ids) {
			if err := movRepo.LockStock(sale.TenantID, sale.StoreID, productID); err != nil {
				return err
			}
		}

		for _, item := range sale.Items {
			mov := &entity.Movement{
				ID:        uuid.New().String(),
				TenantID:  sale.TenantID,
				StoreID:   sale.StoreID,
				ProductID: item.ProductID,
				Type:      entity.MovementTypeIN,
				Quantity:  item.Quantity,
				Direction: entity.DirectionIn,
				Note:      "Anulación " + sale.Number,
				CreatedBy: actor.UserID,
				CreatedAt: now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}
		voided = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(voided.Items))
	for _, item := range voided.Items {
		ids = append(ids, item.ProductID)
	}
	_ = uc.cache.Invalidate(ctx, voided.TenantID, voided.StoreID, ids...)
	return voided, nil
}
