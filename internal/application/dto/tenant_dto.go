package dto

// CreateTenantRequest cuerpo para registrar una empresa.
type CreateTenantRequest struct {
	Name string `json:"name"`
}

// TenantResponse empresa serializada.
type TenantResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}
