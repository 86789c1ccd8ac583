package sales

import (
	"context"

	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de venta, kardex y productos atados a esa tx. La venta, sus
// items y los movimientos OUT se confirman o descartan juntos.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// ReceiptGenerator genera el ticket PDF de una venta.
type ReceiptGenerator interface {
	GenerateReceipt(sale *entity.Sale, store *entity.Store, products map[string]*entity.Product) ([]byte, error)
}
