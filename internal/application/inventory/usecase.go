package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
)

// TTL corto: el stock cambia con cada venta y la invalidación por escritura
// ya cubre el caso común.
const stockCacheTTL = 30 * time.Second

// UseCase motor del kardex: registra movimientos de forma transaccional y
// deriva el stock actual como SUM(quantity * direction). El kardex es
// append-only; las correcciones son movimientos compensatorios.
type UseCase struct {
	txRunner    TxRunner
	movRepo     repository.MovementRepository // lecturas fuera de tx (pool)
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	cache       StockCache
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	cache StockCache,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		movRepo:     movRepo,
		storeRepo:   storeRepo,
		productRepo: productRepo,
		cache:       cache,
	}
}

// RegisterMovement registra un movimiento manual (IN, OUT o ADJ).
//
// IN fuerza dirección +1 y OUT -1 (se ignora la del request); ADJ exige +1 o
// -1 explícito. Cualquier movimiento con dirección -1 que dejaría el stock
// negativo se rechaza con ErrInsufficientStock. La validación de stock y el
// insert ocurren en la misma transacción, con el tuple bloqueado, para que
// dos escritores concurrentes no puedan sobregirar el inventario.
func (uc *UseCase) RegisterMovement(ctx context.Context, actor domain.Actor, in dto.RegisterMovementRequest) (*entity.Movement, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var direction int32
	switch in.Type {
	case entity.MovementTypeIN:
		direction = entity.DirectionIn
	case entity.MovementTypeOUT:
		direction = entity.DirectionOut
	case entity.MovementTypeADJ:
		if !entity.ValidDirection(in.Direction) {
			return nil, domain.ErrInvalidInput
		}
		direction = in.Direction
	default:
		return nil, domain.ErrInvalidInput
	}

	// Tienda y producto deben existir y pertenecer al tenant antes de escribir.
	store, err := uc.storeRepo.GetByID(actor.TenantID, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(actor.TenantID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	movement := &entity.Movement{
		ID:        uuid.New().String(),
		TenantID:  actor.TenantID,
		StoreID:   in.StoreID,
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Direction: direction,
		Note:      strings.TrimSpace(in.Note),
		CreatedBy: actor.UserID,
		CreatedAt: time.Now(),
	}

	err = uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository) error {
		if err := movRepo.LockStock(actor.TenantID, in.StoreID, in.ProductID); err != nil {
			return err
		}
		if direction == entity.DirectionOut {
			current, err := movRepo.SumStock(actor.TenantID, in.StoreID, in.ProductID)
			if err != nil {
				return err
			}
			if current < in.Quantity {
				return domain.ErrInsufficientStock
			}
		}
		return movRepo.Create(movement)
	})
	if err != nil {
		return nil, err
	}

	_ = uc.cache.Invalidate(ctx, actor.TenantID, in.StoreID, in.ProductID)
	return movement, nil
}

// GetStock devuelve el stock actual del producto en la tienda. Lectura pura
// sobre el kardex, con cache de paso corto; no valida existencia de las
// referencias (eso es responsabilidad del llamador o de GetStockByBarcode).
func (uc *UseCase) GetStock(ctx context.Context, tenantID, storeID, productID string) (int64, error) {
	if cached, ok, err := uc.cache.Get(ctx, tenantID, storeID, productID); err == nil && ok {
		return cached, nil
	}
	stock, err := uc.movRepo.SumStock(tenantID, storeID, productID)
	if err != nil {
		return 0, err
	}
	// Una escritura que invalida entre esta lectura y el Set deja un valor
	// obsoleto hasta que expire el TTL. Tolerado: es solo lectura informativa;
	// las ventas siempre leen el kardex bajo lock, nunca el cache.
	_ = uc.cache.Set(ctx, tenantID, storeID, productID, stock, stockCacheTTL)
	return stock, nil
}

// StockByProduct valida tienda y producto del tenant y devuelve el stock.
// Es la variante expuesta a la capa HTTP; GetStock queda como lectura cruda.
func (uc *UseCase) StockByProduct(ctx context.Context, tenantID, storeID, productID string) (*dto.StockResponse, error) {
	store, err := uc.storeRepo.GetByID(tenantID, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	stock, err := uc.GetStock(ctx, tenantID, storeID, productID)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{StoreID: storeID, ProductID: productID, Stock: stock}, nil
}

// GetStockByBarcode resuelve el producto por código de barras del tenant y
// devuelve su stock en la tienda.
func (uc *UseCase) GetStockByBarcode(ctx context.Context, tenantID, storeID, barcode string) (*dto.StockResponse, error) {
	store, err := uc.storeRepo.GetByID(tenantID, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByBarcode(tenantID, strings.TrimSpace(barcode))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	stock, err := uc.GetStock(ctx, tenantID, storeID, product.ID)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{StoreID: storeID, ProductID: product.ID, Stock: stock}, nil
}

// ListMovements lista el kardex del tenant según el filtro.
func (uc *UseCase) ListMovements(ctx context.Context, tenantID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	f.TenantID = tenantID
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	return uc.movRepo.List(f)
}
