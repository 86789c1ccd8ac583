package entity

import "time"

// Store tienda física de un tenant.
type Store struct {
	ID        string
	TenantID  string
	Name      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
}
