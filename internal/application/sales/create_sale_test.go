package sales_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/application/sales"
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
	testTenantID = "00000000-0000-0000-0000-0000000000aa"
	testStoreID  = "00000000-0000-0000-0000-0000000000bb"
	prodGaseosa  = "00000000-0000-0000-0000-0000000000c1"
	prodGalleta  = "00000000-0000-0000-0000-0000000000c2"
)

type saleFixture struct {
	store    *memory.Store
	createUC *sales.CreateSaleUseCase
	voidUC   *sales.VoidSaleUseCase
	queryUC  *sales.QueryUseCase
	movRepo  repository.MovementRepository
	saleRepo repository.SaleRepository
	vendedor domain.Actor
	admin    domain.Actor
}

// newSaleFixture arma un tenant con una tienda y dos productos con stock.
func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	st := memory.NewStore()

	storeRepo := memory.NewStoreRepository(st)
	productRepo := memory.NewProductRepository(st)
	movRepo := memory.NewMovementRepository(st)
	saleRepo := memory.NewSaleRepository(st)

	require.NoError(t, storeRepo.Create(&entity.Store{
		ID: testStoreID, TenantID: testTenantID, Name: "Tienda Centro", IsActive: true, CreatedAt: time.Now(),
	}))
	require.NoError(t, productRepo.Create(&entity.Product{
		ID: prodGaseosa, TenantID: testTenantID, Name: "Gaseosa 500ml", Barcode: "775001",
		Price: decimal.NewFromFloat(3.50), IsActive: true,
	}))
	require.NoError(t, productRepo.Create(&entity.Product{
		ID: prodGalleta, TenantID: testTenantID, Name: "Galleta Soda", Barcode: "775002",
		Price: decimal.NewFromFloat(1.20), IsActive: true,
	}))

	txRunner := memory.NewTxRunner(st)
	f := &saleFixture{
		store:    st,
		createUC: sales.NewCreateSaleUseCase(txRunner, storeRepo, productRepo, cache.NoopStockCache{}),
		voidUC:   sales.NewVoidSaleUseCase(txRunner, cache.NoopStockCache{}),
		queryUC:  sales.NewQueryUseCase(saleRepo),
		movRepo:  movRepo,
		saleRepo: saleRepo,
		vendedor: domain.Actor{UserID: uuid.New().String(), TenantID: testTenantID, StoreID: testStoreID, Role: domain.RoleVendedor},
		admin:    domain.Actor{UserID: uuid.New().String(), TenantID: testTenantID, Role: domain.RoleAdmin},
	}
	return f
}

// seedStock carga stock inicial vía movimiento IN directo al kardex.
func (f *saleFixture) seedStock(t *testing.T, productID string, qty int64) {
	t.Helper()
	require.NoError(t, f.movRepo.Create(&entity.Movement{
		ID: uuid.New().String(), TenantID: testTenantID, StoreID: testStoreID, ProductID: productID,
		Type: entity.MovementTypeIN, Quantity: qty, Direction: entity.DirectionIn, CreatedAt: time.Now(),
	}))
}

func (f *saleFixture) stock(t *testing.T, productID string) int64 {
	t.Helper()
	s, err := f.movRepo.SumStock(testTenantID, testStoreID, productID)
	require.NoError(t, err)
	return s
}

func cashSale(items ...dto.SaleItemCreate) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{StoreID: testStoreID, PaymentMethod: entity.PaymentCash, Items: items}
}

// ──────────────────────────────────────────────────────────────────────────────
// Protocolo de venta
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_DescuentaStockYGeneraMovimientosOUT(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 10)

	sale, err := f.createUC.CreateSale(context.Background(), f.vendedor, cashSale(
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 4},
	))
	require.NoError(t, err)

	assert.Equal(t, "V-000001", sale.Number)
	assert.Equal(t, entity.SaleStatusActive, sale.Status)
	assert.Equal(t, int64(6), f.stock(t, prodGaseosa), "IN 10 - venta 4 = 6")

	// El movimiento OUT referencia el número de venta en la nota.
	movs, err := f.movRepo.List(repository.MovementFilter{TenantID: testTenantID, ProductID: prodGaseosa})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeOUT, movs[0].Type)
	assert.Equal(t, "Venta V-000001", movs[0].Note)
}

func TestCreateSale_ConsolidaItemsRepetidos(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 5)

	// Dos líneas del mismo producto (2 + 3) se funden en una sola de 5.
	sale, err := f.createUC.CreateSale(context.Background(), f.vendedor, cashSale(
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 2},
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 3},
	))
	require.NoError(t, err)

	require.Len(t, sale.Items, 1)
	assert.Equal(t, int64(5), sale.Items[0].Quantity)
	assert.Equal(t, int64(0), f.stock(t, prodGaseosa))
}

func TestCreateSale_ConsolidacionPreservaOrdenDePrimeraAparicion(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 10)
	f.seedStock(t, prodGalleta, 10)

	sale, err := f.createUC.CreateSale(context.Background(), f.vendedor, cashSale(
		dto.SaleItemCreate{ProductID: prodGalleta, Quantity: 1},
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 2},
		dto.SaleItemCreate{ProductID: prodGalleta, Quantity: 1},
	))
	require.NoError(t, err)

	require.Len(t, sale.Items, 2)
	assert.Equal(t, prodGalleta, sale.Items[0].ProductID, "la galleta apareció primero")
	assert.Equal(t, int64(2), sale.Items[0].Quantity)
	assert.Equal(t, prodGaseosa, sale.Items[1].ProductID)
}

func TestCreateSale_TodoONada(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 10)
	f.seedStock(t, prodGalleta, 1)

	// La galleta no alcanza: la venta entera se rechaza y la gaseosa no se toca.
	_, err := f.createUC.CreateSale(context.Background(), f.vendedor, cashSale(
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 2},
		dto.SaleItemCreate{ProductID: prodGalleta, Quantity: 3},
	))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), f.stock(t, prodGaseosa))
	assert.Equal(t, int64(1), f.stock(t, prodGalleta))

	// Y el consecutivo no se consumió: la siguiente venta válida es V-000001.
	sale, err := f.createUC.CreateSale(context.Background(), f.vendedor, cashSale(
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, "V-000001", sale.Number)
}

// La consolidación corre antes de la validación de stock: dos líneas que
// individualmente caben pero sumadas no, se rechazan.
func TestCreateSale_ConsolidacionAntesDeValidarStock(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 4)

	_, err := f.createUC.CreateSale(context.Background(), f.vendedor, cashSale(
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 3},
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 3},
	))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(4), f.stock(t, prodGaseosa))
}

func TestCreateSale_PrecioFrescoYTotalRedondeado(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 10)
	f.seedStock(t, prodGalleta, 10)

	sale, err := f.createUC.CreateSale(context.Background(), f.vendedor, cashSale(
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 2}, // 2 * 3.50 = 7.00
		dto.SaleItemCreate{ProductID: prodGalleta, Quantity: 3}, // 3 * 1.20 = 3.60
	))
	require.NoError(t, err)

	assert.True(t, decimal.NewFromFloat(10.60).Equal(sale.Total), "total = 10.60, got %s", sale.Total)
	assert.True(t, decimal.NewFromFloat(3.50).Equal(sale.Items[0].UnitPrice),
		"el precio unitario se captura del producto al momento de la venta")
}

func TestCreateSale_CambioDePrecioPosteriorNoAlteraLaVenta(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 10)

	sale, err := f.createUC.CreateSale(context.Background(), f.vendedor, cashSale(
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 2}, // 2 * 3.50 = 7.00
	))
	require.NoError(t, err)

	// Subir el precio del producto después de la venta.
	productRepo := memory.NewProductRepository(f.store)
	require.NoError(t, productRepo.Update(&entity.Product{
		ID: prodGaseosa, TenantID: testTenantID, Name: "Gaseosa 500ml", Barcode: "775001",
		Price: decimal.NewFromFloat(9.90), IsActive: true,
	}))

	// La venta persistida conserva el precio capturado, no el vigente.
	got, err := f.queryUC.GetSale(context.Background(), testTenantID, sale.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, decimal.NewFromFloat(3.50).Equal(got.Items[0].UnitPrice))
	assert.True(t, decimal.NewFromFloat(7.00).Equal(got.Items[0].Subtotal))
	assert.True(t, decimal.NewFromFloat(7.00).Equal(got.Total))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones de entrada
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_CarritoVacio(t *testing.T) {
	f := newSaleFixture(t)
	_, err := f.createUC.CreateSale(context.Background(), f.vendedor, cashSale())
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCreateSale_MetodoDePagoDesconocido(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 5)

	_, err := f.createUC.CreateSale(context.Background(), f.vendedor, dto.CreateSaleRequest{
		StoreID: testStoreID, PaymentMethod: "TARJETA",
		Items: []dto.SaleItemCreate{{ProductID: prodGaseosa, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_YapeExigeNumeroDeOperacion(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 5)

	req := dto.CreateSaleRequest{
		StoreID: testStoreID, PaymentMethod: entity.PaymentYape,
		Items: []dto.SaleItemCreate{{ProductID: prodGaseosa, Quantity: 1}},
	}
	_, err := f.createUC.CreateSale(context.Background(), f.vendedor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "YAPE sin número de operación")

	req.YapeOperationNumber = "   "
	_, err = f.createUC.CreateSale(context.Background(), f.vendedor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "espacios en blanco no cuentan como número")

	req.YapeOperationNumber = "OP-12345"
	sale, err := f.createUC.CreateSale(context.Background(), f.vendedor, req)
	require.NoError(t, err)
	assert.Equal(t, "OP-12345", sale.YapeOperationNumber)
}

func TestCreateSale_CantidadInvalidaEnItem(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 5)

	_, err := f.createUC.CreateSale(context.Background(), f.vendedor, cashSale(
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 0},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_ProductoDesconocido(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 5)

	_, err := f.createUC.CreateSale(context.Background(), f.vendedor, cashSale(
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 1},
		dto.SaleItemCreate{ProductID: uuid.New().String(), Quantity: 1},
	))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(5), f.stock(t, prodGaseosa))
}

// ──────────────────────────────────────────────────────────────────────────────
// Política de tienda asignada
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_VendedorFueraDeSuTienda(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 5)

	otraTienda := uuid.New().String()
	require.NoError(t, memory.NewStoreRepository(f.store).Create(&entity.Store{
		ID: otraTienda, TenantID: testTenantID, Name: "Sucursal Norte", IsActive: true,
	}))

	_, err := f.createUC.CreateSale(context.Background(), f.vendedor, dto.CreateSaleRequest{
		StoreID: otraTienda, PaymentMethod: entity.PaymentCash,
		Items: []dto.SaleItemCreate{{ProductID: prodGaseosa, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden, "vendedor con tienda asignada no vende en otra")
}

func TestCreateSale_AdminVendeEnCualquierTienda(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 5)

	sale, err := f.createUC.CreateSale(context.Background(), f.admin, cashSale(
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 1},
	))
	require.NoError(t, err)
	assert.Equal(t, f.admin.UserID, sale.UserID)
}

func TestCreateSale_TiendaDeOtroTenant(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 5)

	intruso := domain.Actor{UserID: uuid.New().String(), TenantID: uuid.New().String(), Role: domain.RoleAdmin}
	_, err := f.createUC.CreateSale(context.Background(), intruso, cashSale(
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 1},
	))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_NumeracionCrecientePorTenant(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 100)

	for i, want := range []string{"V-000001", "V-000002", "V-000003"} {
		sale, err := f.createUC.CreateSale(context.Background(), f.vendedor, cashSale(
			dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 1},
		))
		require.NoError(t, err, "venta %d", i+1)
		assert.Equal(t, want, sale.Number)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: dos ventas del mismo producto se serializan
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_ConcurrentesNoSobrevenden(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 10)

	const vendedores = 8
	var wg sync.WaitGroup
	errs := make([]error, vendedores)

	// 8 ventas de 3 unidades contra 10 en stock: caben a lo sumo 3.
	for i := 0; i < vendedores; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.createUC.CreateSale(context.Background(), f.vendedor, cashSale(
				dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 3},
			))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 3, ok, "solo caben 3 ventas de 3 unidades en 10")
	assert.Equal(t, int64(1), f.stock(t, prodGaseosa), "el stock nunca queda negativo")
}

// lockOrderTxRunner envuelve el TxRunner real y registra el orden en que la
// transacción toma los locks de stock.
type lockOrderTxRunner struct {
	inner sales.TxRunner
	order *[]string
}

func (r *lockOrderTxRunner) RunSale(ctx context.Context, fn func(
	repository.MovementRepository,
	repository.SaleRepository,
	repository.ProductRepository,
) error) error {
	return r.inner.RunSale(ctx, func(
		movRepo repository.MovementRepository,
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error {
		return fn(&lockOrderMovRepo{MovementRepository: movRepo, order: r.order}, saleRepo, productRepo)
	})
}

type lockOrderMovRepo struct {
	repository.MovementRepository
	order *[]string
}

func (r *lockOrderMovRepo) LockStock(tenantID, storeID, productID string) error {
	*r.order = append(*r.order, productID)
	return r.MovementRepository.LockStock(tenantID, storeID, productID)
}

// Dos carritos con los mismos productos en orden inverso tomarían los locks
// en cruz y podrían bloquearse mutuamente en Postgres; por eso los locks se
// adquieren siempre en orden canónico, independiente del orden del carrito.
func TestCreateSale_LocksEnOrdenCanonico(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 10)
	f.seedStock(t, prodGalleta, 10)

	var order []string
	uc := sales.NewCreateSaleUseCase(
		&lockOrderTxRunner{inner: memory.NewTxRunner(f.store), order: &order},
		memory.NewStoreRepository(f.store),
		memory.NewProductRepository(f.store),
		cache.NoopStockCache{},
	)

	// Carrito con galleta primero: el orden de la venta se conserva, el de
	// los locks no.
	sale, err := uc.CreateSale(context.Background(), f.vendedor, cashSale(
		dto.SaleItemCreate{ProductID: prodGalleta, Quantity: 1},
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 1},
	))
	require.NoError(t, err)

	assert.Equal(t, []string{prodGaseosa, prodGalleta}, order, "locks en orden de id, no de carrito")
	require.Len(t, sale.Items, 2)
	assert.Equal(t, prodGalleta, sale.Items[0].ProductID, "los items conservan el orden del carrito")
	assert.Equal(t, prodGaseosa, sale.Items[1].ProductID)
}

func TestVoidSale_LocksEnOrdenCanonico(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 10)
	f.seedStock(t, prodGalleta, 10)

	sale, err := f.createUC.CreateSale(context.Background(), f.admin, cashSale(
		dto.SaleItemCreate{ProductID: prodGalleta, Quantity: 1},
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 1},
	))
	require.NoError(t, err)

	var order []string
	voidUC := sales.NewVoidSaleUseCase(
		&lockOrderTxRunner{inner: memory.NewTxRunner(f.store), order: &order},
		cache.NoopStockCache{},
	)
	_, err = voidUC.VoidSale(context.Background(), f.admin, sale.ID, "cliente se arrepintió")
	require.NoError(t, err)

	assert.Equal(t, []string{prodGaseosa, prodGalleta}, order)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestListSales_ExcluyeAnuladasPorDefecto(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 10)

	sale, err := f.createUC.CreateSale(context.Background(), f.admin, cashSale(
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 1},
	))
	require.NoError(t, err)
	_, err = f.createUC.CreateSale(context.Background(), f.admin, cashSale(
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 1},
	))
	require.NoError(t, err)

	_, err = f.voidUC.VoidSale(context.Background(), f.admin, sale.ID, "error de caja")
	require.NoError(t, err)

	activas, err := f.queryUC.ListSales(context.Background(), testTenantID, repository.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, activas, 1)

	todas, err := f.queryUC.ListSales(context.Background(), testTenantID, repository.SaleFilter{IncludeVoided: true})
	require.NoError(t, err)
	assert.Len(t, todas, 2)
}

func TestGetSale_OtroTenantNoVeLaVenta(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 5)

	sale, err := f.createUC.CreateSale(context.Background(), f.vendedor, cashSale(
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 1},
	))
	require.NoError(t, err)

	_, err = f.queryUC.GetSale(context.Background(), uuid.New().String(), sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
