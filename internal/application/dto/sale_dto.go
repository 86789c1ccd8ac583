package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemCreate línea del carrito. Los ítems repetidos del mismo producto se
// consolidan en el caso de uso.
type SaleItemCreate struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CreateSaleRequest cuerpo para crear una venta.
type CreateSaleRequest struct {
	StoreID             string           `json:"store_id"`
	PaymentMethod       string           `json:"payment_method"` // CASH | YAPE
	YapeOperationNumber string           `json:"yape_operation_number,omitempty"`
	Items               []SaleItemCreate `json:"items"`
}

// VoidSaleRequest cuerpo para anular una venta.
type VoidSaleRequest struct {
	Reason string `json:"reason"`
}

// SaleItemResponse línea de venta serializada.
type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta serializada.
type SaleResponse struct {
	ID                  string             `json:"id"`
	Number              string             `json:"number"`
	StoreID             string             `json:"store_id"`
	PaymentMethod       string             `json:"payment_method"`
	YapeOperationNumber string             `json:"yape_operation_number,omitempty"`
	Total               decimal.Decimal    `json:"total"`
	Status              string             `json:"status"`
	VoidReason          string             `json:"void_reason,omitempty"`
	VoidedAt            *time.Time         `json:"voided_at,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	Items               []SaleItemResponse `json:"items,omitempty"`
}
