package entity

import "time"

// Tenant empresa aislada; todos los datos pertenecen a exactamente un tenant.
type Tenant struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}
