package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash = "CASH"
	PaymentYape = "YAPE"
)

// Estados de una venta. VOIDED es terminal.
const (
	SaleStatusActive = "ACTIVE"
	SaleStatusVoided = "VOIDED"
)

// Sale es una venta confirmada: consume stock y produce ingreso. El número
// V-NNNNNN es único y estrictamente creciente por tenant.
type Sale struct {
	ID                  string
	TenantID            string
	StoreID             string
	UserID              string // vacío si el vendedor fue eliminado
	Number              string // V-000001
	PaymentMethod       string // CASH | YAPE
	YapeOperationNumber string // obligatorio solo con YAPE
	Total               decimal.Decimal
	Status              string // ACTIVE | VOIDED
	VoidReason          string
	VoidedAt            *time.Time
	CreatedAt           time.Time
	Items               []*SaleItem
}

// SaleItem línea de venta. UnitPrice se captura al momento de la venta y no
// cambia aunque el precio del producto cambie después.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal // siempre UnitPrice * Quantity, recalculado al escribir
}

// FormatSaleNumber produce el identificador legible V-NNNNNN (6 dígitos con
// ceros a la izquierda).
func FormatSaleNumber(n int64) string {
	return fmt.Sprintf("V-%06d", n)
}

// IsPaymentMethod indica si el método de pago es uno de los soportados.
func IsPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentYape
}
