package sales_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/application/sales"
	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/infrastructure/memory"
)

// stubGenerator captura lo que el caso de uso le entrega al generador real.
type stubGenerator struct {
	sale     *entity.Sale
	store    *entity.Store
	products map[string]*entity.Product
}

func (g *stubGenerator) GenerateReceipt(sale *entity.Sale, store *entity.Store, products map[string]*entity.Product) ([]byte, error) {
	g.sale, g.store, g.products = sale, store, products
	return []byte("%PDF-stub"), nil
}

func TestReceiptPDF_EntregaVentaConItemsYCatalogo(t *testing.T) {
	f := newSaleFixture(t)
	f.seedStock(t, prodGaseosa, 10)

	sale, err := f.createUC.CreateSale(context.Background(), f.admin, cashSale(
		dto.SaleItemCreate{ProductID: prodGaseosa, Quantity: 2},
	))
	require.NoError(t, err)

	gen := &stubGenerator{}
	uc := sales.NewReceiptUseCase(
		f.saleRepo,
		memory.NewStoreRepository(f.store),
		memory.NewProductRepository(f.store),
		gen,
	)

	out, err := uc.ReceiptPDF(context.Background(), testTenantID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stub"), out)

	require.NotNil(t, gen.sale)
	assert.Equal(t, sale.Number, gen.sale.Number)
	require.Len(t, gen.sale.Items, 1)
	require.NotNil(t, gen.store)
	assert.Equal(t, "Tienda Centro", gen.store.Name)
	assert.Contains(t, gen.products, prodGaseosa)
}

func TestReceiptPDF_VentaInexistente(t *testing.T) {
	f := newSaleFixture(t)
	uc := sales.NewReceiptUseCase(
		f.saleRepo,
		memory.NewStoreRepository(f.store),
		memory.NewProductRepository(f.store),
		&stubGenerator{},
	)

	_, err := uc.ReceiptPDF(context.Background(), testTenantID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
