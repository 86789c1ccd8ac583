package sales

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/application/inventory"
	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
)

// CreateSaleUseCase convierte un carrito en una venta persistida con sus
// items y un movimiento OUT de kardex por línea, todo en una sola
// transacción. El carrito es todo-o-nada: si un solo producto no tiene stock
// suficiente no se persiste nada.
type CreateSaleUseCase struct {
	txRunner    TxRunner
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	cache       inventory.StockCache
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(
	txRunner TxRunner,
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	cache inventory.StockCache,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner:    txRunner,
		storeRepo:   storeRepo,
		productRepo: productRepo,
		cache:       cache,
	}
}

// consolidatedItem cantidad requerida por producto después de fusionar
// líneas repetidas del carrito.
type consolidatedItem struct {
	productID string
	quantity  int64
}

// consolidate fusiona los ítems repetidos por producto sumando cantidades.
// Mantiene el orden de primera aparición para que la venta sea determinista.
func consolidate(items []dto.SaleItemCreate) ([]consolidatedItem, error) {
	index := make(map[string]int, len(items))
	out := make([]consolidatedItem, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if pos, ok := index[it.ProductID]; ok {
			out[pos].quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(out)
		out = append(out, consolidatedItem{productID: it.ProductID, quantity: it.Quantity})
	}
	return out, nil
}

// sortedIDs devuelve una copia ordenada de los ids, sin tocar el original.
// Es el orden canónico de adquisición de locks de stock.
func sortedIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.Strings(out)
	return out
}

// CreateSale ejecuta el protocolo de venta:
//
//  1. rechaza carritos vacíos;
//  2. valida que la tienda sea del tenant y aplica la política de tienda
//     asignada del vendedor;
//  3. valida el método de pago y exige número de operación cuando es YAPE;
//  4. consolida ítems repetidos por producto;
//  5. resuelve los productos dentro del tenant (si falta alguno, rechaza);
//  6. dentro de la transacción: bloquea cada tuple de stock en orden
//     canónico, verifica disponibilidad, asigna el consecutivo del tenant y
//     persiste venta, items y movimientos OUT.
//
// Cualquier error antes del commit deja la base sin rastro de la venta.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, actor domain.Actor, in dto.CreateSaleRequest) (*entity.Sale, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	store, err := uc.storeRepo.GetByID(actor.TenantID, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanSellAt(in.StoreID) {
		return nil, domain.ErrForbidden
	}

	if !entity.IsPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	yapeOp := strings.TrimSpace(in.YapeOperationNumber)
	if in.PaymentMethod == entity.PaymentYape && yapeOp == "" {
		return nil, domain.ErrInvalidInput
	}

	merged, err := consolidate(in.Items)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(merged))
	for i, m := range merged {
		ids[i] = m.productID
	}
	products, err := uc.productRepo.GetManyByIDs(actor.TenantID, ids)
	if err != nil {
		return nil, err
	}
	// Un id desconocido o de otro tenant simplemente no se resuelve: la
	// diferencia de tamaños lo detecta sin chequeo por ítem.
	if len(products) != len(merged) {
		return nil, domain.ErrNotFound
	}
	productsByID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}

	now := time.Now()
	var sale *entity.Sale

	err = uc.txRunner.RunSale(ctx, func(
		movRepo repository.MovementRepository,
		saleRepo repository.SaleRepository,
		_ repository.ProductRepository,
	) error {
		// Bloquear cada tuple antes de leer su stock: dos ventas concurrentes
		// del mismo producto se serializan aquí y no pueden sobrevender.
		// Los locks se toman en orden canónico (ids ordenados) para que dos
		// transacciones con los mismos productos nunca se esperen en cruz.
		for _, productID := range sortedIDs(ids) {
			if err := movRepo.LockStock(actor.TenantID, in.StoreID, productID); err != nil {
				return err
			}
		}
		for _, m := range merged {
			available, err := movRepo.SumStock(actor.TenantID, in.StoreID, m.productID)
			if err != nil {
				return err
			}
			if available < m.quantity {
				return domain.ErrInsufficientStock
			}
		}

		// Precio siempre fresco del producto, nunca del request.
		total := decimal.Zero
		saleID := uuid.New().String()
		items := make([]*entity.SaleItem, 0, len(merged))
		for _, m := range merged {
			product := productsByID[m.productID]
			subtotal := product.Price.Mul(decimal.NewFromInt(m.quantity))
			total = total.Add(subtotal)
			items = append(items, &entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				ProductID: m.productID,
				Quantity:  m.quantity,
				UnitPrice: product.Price,
				Subtotal:  subtotal,
			})
		}

		seq, err := saleRepo.NextNumber(actor.TenantID)
		if err != nil {
			return err
		}
		sale = &entity.Sale{
			ID:                  saleID,
			TenantID:            actor.TenantID,
			StoreID:             in.StoreID,
			UserID:              actor.UserID,
			Number:              entity.FormatSaleNumber(seq),
			PaymentMethod:       in.PaymentMethod,
			YapeOperationNumber: yapeOp,
			Total:               total.Round(2),
			Status:              entity.SaleStatusActive,
			CreatedAt:           now,
			Items:               items,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}

		for _, item := range items {
			mov := &entity.Movement{
				ID:        uuid.New().String(),
				TenantID:  actor.TenantID,
				StoreID:   in.StoreID,
				ProductID: item.ProductID,
				Type:      entity.MovementTypeOUT,
				Quantity:  item.Quantity,
				Direction: entity.DirectionOut,
				Note:      "Venta " + sale.Number,
				CreatedBy: actor.UserID,
				CreatedAt: now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = uc.cache.Invalidate(ctx, actor.TenantID, in.StoreID, ids...)
	return sale, nil
}
