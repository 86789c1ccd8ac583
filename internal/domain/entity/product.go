package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto vendible del catálogo del tenant. El barcode es único por
// tenant. El stock no vive aquí: se deriva del kardex por tienda.
type Product struct {
	ID        string
	TenantID  string
	Name      string
	Category  string
	Barcode   string
	ImageURL  string
	Price     decimal.Decimal // precio de venta vigente
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
