package dto

import "time"

// RegisterMovementRequest cuerpo para registrar un movimiento de kardex.
// Direction solo aplica a ADJ (+1 o -1); en IN/OUT se ignora.
type RegisterMovementRequest struct {
	StoreID   string `json:"store_id"`
	ProductID string `json:"product_id"`
	Type      string `json:"type"` // IN | OUT | ADJ
	Quantity  int64  `json:"quantity"`
	Direction int32  `json:"direction,omitempty"`
	Note      string `json:"note,omitempty"`
}

// MovementResponse movimiento serializado.
type MovementResponse struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	ProductID string    `json:"product_id"`
	Type      string    `json:"type"`
	Quantity  int64     `json:"quantity"`
	Direction int32     `json:"direction"`
	Note      string    `json:"note,omitempty"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StockResponse stock actual derivado del kardex.
type StockResponse struct {
	StoreID   string `json:"store_id"`
	ProductID string `json:"product_id"`
	Stock     int64  `json:"stock"`
}
