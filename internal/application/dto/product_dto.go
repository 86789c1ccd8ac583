package dto

import "github.com/shopspring/decimal"

// CreateProductRequest cuerpo para crear un producto.
type CreateProductRequest struct {
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Barcode  string          `json:"barcode"`
	ImageURL string          `json:"image_url,omitempty"`
	Price    decimal.Decimal `json:"price"`
}

// UpdateProductRequest campos opcionales a actualizar.
type UpdateProductRequest struct {
	Name     *string          `json:"name,omitempty"`
	Category *string          `json:"category,omitempty"`
	Barcode  *string          `json:"barcode,omitempty"`
	ImageURL *string          `json:"image_url,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	IsActive *bool            `json:"is_active,omitempty"`
}

// ProductResponse producto serializado.
type ProductResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Barcode  string          `json:"barcode"`
	ImageURL string          `json:"image_url,omitempty"`
	Price    decimal.Decimal `json:"price"`
	IsActive bool            `json:"is_active"`
}
