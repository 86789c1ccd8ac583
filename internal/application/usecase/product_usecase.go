package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
)

// ProductUseCase CRUD de productos del tenant.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto. El barcode es único por tenant.
func (uc *ProductUseCase) Create(tenantID string, in dto.CreateProductRequest) (*entity.Product, error) {
	barcode := strings.TrimSpace(in.Barcode)
	if in.Name == "" || barcode == "" || in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      in.Name,
		Category:  in.Category,
		Barcode:   barcode,
		ImageURL:  in.ImageURL,
		Price:     in.Price,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID obtiene un producto del tenant.
func (uc *ProductUseCase) GetByID(tenantID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// GetByBarcode obtiene un producto activo por código de barras.
func (uc *ProductUseCase) GetByBarcode(tenantID, barcode string) (*entity.Product, error) {
	product, err := uc.repo.GetByBarcode(tenantID, strings.TrimSpace(barcode))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// List lista productos del tenant; q filtra por nombre o barcode.
func (uc *ProductUseCase) List(tenantID, q string) ([]*entity.Product, error) {
	return uc.repo.ListByTenant(tenantID, strings.TrimSpace(q))
}

// Update aplica cambios parciales. El precio nuevo rige solo para ventas
// futuras: los items ya vendidos conservan su unit_price.
func (uc *ProductUseCase) Update(tenantID, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	product, err := uc.repo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Barcode != nil {
		product.Barcode = strings.TrimSpace(*in.Barcode)
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}
