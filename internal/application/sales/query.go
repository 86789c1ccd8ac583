package sales

import (
	"context"

	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
)

// QueryUseCase lecturas de ventas.
type QueryUseCase struct {
	saleRepo repository.SaleRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(saleRepo repository.SaleRepository) *QueryUseCase {
	return &QueryUseCase{saleRepo: saleRepo}
}

// ListSales lista ventas del tenant según el filtro (sin items).
func (uc *QueryUseCase) ListSales(ctx context.Context, tenantID string, f repository.SaleFilter) ([]*entity.Sale, error) {
	f.TenantID = tenantID
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	return uc.saleRepo.List(f)
}

// GetSale obtiene una venta del tenant con sus items.
func (uc *QueryUseCase) GetSale(ctx context.Context, tenantID, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}
