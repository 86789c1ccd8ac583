package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/application/inventory"
	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
	"github.com/jcastillo/puntoventa-api/internal/infrastructure/cache"
	"github.com/jcastillo/puntoventa-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testTenantID  = "00000000-0000-0000-0000-00000000000a"
	testStoreID   = "00000000-0000-0000-0000-00000000000b"
	testProductID = "00000000-0000-0000-0000-00000000000c"
)

type fixture struct {
	uc    *inventory.UseCase
	store *memory.Store
	actor domain.Actor
}

// newFixture arma un tenant con una tienda y un producto listos para operar.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.NewStore()

	storeRepo := memory.NewStoreRepository(st)
	productRepo := memory.NewProductRepository(st)
	require.NoError(t, storeRepo.Create(&entity.Store{
		ID: testStoreID, TenantID: testTenantID, Name: "Tienda Centro", IsActive: true, CreatedAt: time.Now(),
	}))
	require.NoError(t, productRepo.Create(&entity.Product{
		ID: testProductID, TenantID: testTenantID, Name: "Gaseosa 500ml", Barcode: "775001",
		Price: decimal.NewFromFloat(3.50), IsActive: true, CreatedAt: time.Now(),
	}))

	uc := inventory.NewUseCase(
		memory.NewTxRunner(st),
		memory.NewMovementRepository(st),
		storeRepo,
		productRepo,
		cache.NoopStockCache{},
	)
	return &fixture{
		uc:    uc,
		store: st,
		actor: domain.Actor{UserID: uuid.New().String(), TenantID: testTenantID, Role: domain.RoleAlmacen, StoreID: testStoreID},
	}
}

// registra un IN y devuelve el movimiento.
func (f *fixture) mustIn(t *testing.T, qty int64) *entity.Movement {
	t.Helper()
	m, err := f.uc.RegisterMovement(context.Background(), f.actor, dto.RegisterMovementRequest{
		StoreID: testStoreID, ProductID: testProductID, Type: entity.MovementTypeIN, Quantity: qty,
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) stock(t *testing.T) int64 {
	t.Helper()
	s, err := f.uc.GetStock(context.Background(), testTenantID, testStoreID, testProductID)
	require.NoError(t, err)
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Derivación de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_StockDerivadoDelKardex(t *testing.T) {
	f := newFixture(t)

	f.mustIn(t, 10)
	f.mustIn(t, 5)

	_, err := f.uc.RegisterMovement(context.Background(), f.actor, dto.RegisterMovementRequest{
		StoreID: testStoreID, ProductID: testProductID, Type: entity.MovementTypeOUT, Quantity: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(11), f.stock(t), "stock = suma de quantity*direction: 10+5-4")
}

func TestRegisterMovement_INFuerzaDireccionPositiva(t *testing.T) {
	f := newFixture(t)

	// Aunque el request diga -1, un IN siempre suma.
	m, err := f.uc.RegisterMovement(context.Background(), f.actor, dto.RegisterMovementRequest{
		StoreID: testStoreID, ProductID: testProductID, Type: entity.MovementTypeIN, Quantity: 7, Direction: -1,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DirectionIn, m.Direction)
	assert.Equal(t, int64(7), f.stock(t))
}

func TestRegisterMovement_CantidadInvalida(t *testing.T) {
	f := newFixture(t)

	for _, qty := range []int64{0, -3} {
		_, err := f.uc.RegisterMovement(context.Background(), f.actor, dto.RegisterMovementRequest{
			StoreID: testStoreID, ProductID: testProductID, Type: entity.MovementTypeIN, Quantity: qty,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "quantity debe ser positiva; el signo lo da direction")
	}
}

func TestRegisterMovement_ADJExigeDireccionExplicita(t *testing.T) {
	f := newFixture(t)
	f.mustIn(t, 10)

	_, err := f.uc.RegisterMovement(context.Background(), f.actor, dto.RegisterMovementRequest{
		StoreID: testStoreID, ProductID: testProductID, Type: entity.MovementTypeADJ, Quantity: 2,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ADJ sin direction es ambiguo y se rechaza")

	_, err = f.uc.RegisterMovement(context.Background(), f.actor, dto.RegisterMovementRequest{
		StoreID: testStoreID, ProductID: testProductID, Type: entity.MovementTypeADJ, Quantity: 2, Direction: -1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), f.stock(t))
}

func TestRegisterMovement_TipoDesconocido(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RegisterMovement(context.Background(), f.actor, dto.RegisterMovementRequest{
		StoreID: testStoreID, ProductID: testProductID, Type: "TRANSFER", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guarda de stock negativo
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_OUTSinStockSuficiente(t *testing.T) {
	f := newFixture(t)
	f.mustIn(t, 3)

	_, err := f.uc.RegisterMovement(context.Background(), f.actor, dto.RegisterMovementRequest{
		StoreID: testStoreID, ProductID: testProductID, Type: entity.MovementTypeOUT, Quantity: 4,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), f.stock(t), "el rechazo no deja rastro en el kardex")
}

// La guarda aplica a cualquier movimiento con dirección -1, no solo a OUT.
func TestRegisterMovement_ADJNegativoSinStockSuficiente(t *testing.T) {
	f := newFixture(t)
	f.mustIn(t, 3)

	_, err := f.uc.RegisterMovement(context.Background(), f.actor, dto.RegisterMovementRequest{
		StoreID: testStoreID, ProductID: testProductID, Type: entity.MovementTypeADJ, Quantity: 5, Direction: -1,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), f.stock(t))
}

func TestRegisterMovement_OUTExacto_DejaStockEnCero(t *testing.T) {
	f := newFixture(t)
	f.mustIn(t, 5)

	_, err := f.uc.RegisterMovement(context.Background(), f.actor, dto.RegisterMovementRequest{
		StoreID: testStoreID, ProductID: testProductID, Type: entity.MovementTypeOUT, Quantity: 5,
	})
	require.NoError(t, err, "consumir exactamente el stock disponible es válido")
	assert.Equal(t, int64(0), f.stock(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de referencias y aislamiento por tenant
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_TiendaDeOtroTenant(t *testing.T) {
	f := newFixture(t)
	otro := f.actor
	otro.TenantID = uuid.New().String()

	_, err := f.uc.RegisterMovement(context.Background(), otro, dto.RegisterMovementRequest{
		StoreID: testStoreID, ProductID: testProductID, Type: entity.MovementTypeIN, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "recursos de otro tenant se comportan como inexistentes")
}

func TestRegisterMovement_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RegisterMovement(context.Background(), f.actor, dto.RegisterMovementRequest{
		StoreID: testStoreID, ProductID: uuid.New().String(), Type: entity.MovementTypeIN, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockByProduct_ValidaReferencias(t *testing.T) {
	f := newFixture(t)
	f.mustIn(t, 6)

	resp, err := f.uc.StockByProduct(context.Background(), testTenantID, testStoreID, testProductID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), resp.Stock)

	_, err = f.uc.StockByProduct(context.Background(), testTenantID, testStoreID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetStockByBarcode(t *testing.T) {
	f := newFixture(t)
	f.mustIn(t, 2)

	resp, err := f.uc.GetStockByBarcode(context.Background(), testTenantID, testStoreID, "775001")
	require.NoError(t, err)
	assert.Equal(t, testProductID, resp.ProductID)
	assert.Equal(t, int64(2), resp.Stock)

	_, err = f.uc.GetStockByBarcode(context.Background(), testTenantID, testStoreID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado de kardex
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_FiltraPorTenantYProducto(t *testing.T) {
	f := newFixture(t)
	f.mustIn(t, 1)
	f.mustIn(t, 2)

	filter := repository.MovementFilter{StoreID: testStoreID, ProductID: testProductID}
	list, err := f.uc.ListMovements(context.Background(), testTenantID, filter)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	otros, err := f.uc.ListMovements(context.Background(), uuid.New().String(), filter)
	require.NoError(t, err)
	assert.Empty(t, otros, "el kardex de otro tenant no se mezcla")
}
