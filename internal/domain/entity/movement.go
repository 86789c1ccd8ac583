package entity

import "time"

// Tipos de movimiento del kardex.
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
	MovementTypeADJ = "ADJ" // ajuste (dirección explícita +1 / -1)
)

// Direcciones de un movimiento. IN fuerza +1, OUT fuerza -1; ADJ la recibe
// del llamador.
const (
	DirectionIn  int32 = 1
	DirectionOut int32 = -1
)

// Movement es una entrada inmutable del kardex por (tenant, tienda, producto).
// Nunca se actualiza ni se borra; las correcciones son movimientos
// compensatorios nuevos. El stock actual es la suma de Quantity*Direction.
type Movement struct {
	ID        string
	TenantID  string
	StoreID   string
	ProductID string
	Type      string // IN, OUT, ADJ
	Quantity  int64  // siempre > 0
	Direction int32  // +1 o -1
	Note      string
	CreatedBy string // UserID; vacío si el usuario fue eliminado
	CreatedAt time.Time
}

// Signed devuelve la contribución del movimiento al stock.
func (m *Movement) Signed() int64 {
	return m.Quantity * int64(m.Direction)
}

// ValidDirection indica si la dirección es +1 o -1.
func ValidDirection(d int32) bool {
	return d == DirectionIn || d == DirectionOut
}
