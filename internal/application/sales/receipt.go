package sales

import (
	"context"

	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
)

// ReceiptUseCase genera el ticket PDF de una venta persistida.
type ReceiptUseCase struct {
	saleRepo    repository.SaleRepository
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	generator   ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		saleRepo:    saleRepo,
		storeRepo:   storeRepo,
		productRepo: productRepo,
		generator:   generator,
	}
}

// ReceiptPDF arma los datos del ticket y devuelve el PDF en bytes.
func (uc *ReceiptUseCase) ReceiptPDF(ctx context.Context, tenantID, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(tenantID, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	store, err := uc.storeRepo.GetByID(tenantID, sale.StoreID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(sale.Items))
	for _, item := range sale.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := uc.productRepo.GetManyByIDs(tenantID, ids)
	if err != nil {
		return nil, err
	}
	productsByID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}

	return uc.generator.GenerateReceipt(sale, store, productsByID)
}
