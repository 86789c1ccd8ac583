package pdf_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/infrastructure/pdf"
)

func sampleSale() (*entity.Sale, *entity.Store, map[string]*entity.Product) {
	sale := &entity.Sale{
		ID:            "sale-1",
		TenantID:      "t1",
		StoreID:       "s1",
		Number:        "V-000007",
		PaymentMethod: entity.PaymentCash,
		Total:         decimal.NewFromFloat(10.60),
		Status:        entity.SaleStatusActive,
		CreatedAt:     time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC),
		Items: []*entity.SaleItem{
			{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromFloat(3.50), Subtotal: decimal.NewFromFloat(7.00)},
			{ProductID: "p2", Quantity: 3, UnitPrice: decimal.NewFromFloat(1.20), Subtotal: decimal.NewFromFloat(3.60)},
		},
	}
	store := &entity.Store{ID: "s1", TenantID: "t1", Name: "Tienda Centro", Address: "Av. Grau 123, Lima"}
	products := map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Gaseosa 500ml"},
		"p2": {ID: "p2", Name: "Galleta Soda"},
	}
	return sale, store, products
}

func TestGenerateReceipt_ProduceUnPDF(t *testing.T) {
	gen := pdf.NewMarotoReceiptGenerator()
	sale, store, products := sampleSale()

	out, err := gen.GenerateReceipt(sale, store, products)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]), "la salida debe ser un PDF válido")
}

func TestGenerateReceipt_VentaAnulada(t *testing.T) {
	gen := pdf.NewMarotoReceiptGenerator()
	sale, store, products := sampleSale()
	now := time.Now()
	sale.Status = entity.SaleStatusVoided
	sale.VoidReason = "error de caja"
	sale.VoidedAt = &now

	out, err := gen.GenerateReceipt(sale, store, products)
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

// El generador no debe caerse si falta el catálogo: usa el ID como nombre.
func TestGenerateReceipt_SinCatalogoDeProductos(t *testing.T) {
	gen := pdf.NewMarotoReceiptGenerator()
	sale, store, _ := sampleSale()

	out, err := gen.GenerateReceipt(sale, store, nil)
	require.NoError(t, err)
	require.NotEmpty(t, out)
}
