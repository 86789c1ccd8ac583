package entity

import "time"

// User usuario de un tenant. StoreID es la tienda asignada: obligatoria para
// VENDEDOR y ALMACEN, opcional para ADMIN. El email es único por tenant.
type User struct {
	ID           string
	TenantID     string
	Role         string // ADMIN | VENDEDOR | ALMACEN
	StoreID      string // vacío = sin tienda asignada
	FullName     string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
