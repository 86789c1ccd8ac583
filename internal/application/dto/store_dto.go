package dto

// CreateStoreRequest cuerpo para crear una tienda.
type CreateStoreRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// UpdateStoreRequest campos opcionales a actualizar.
type UpdateStoreRequest struct {
	Name     *string `json:"name,omitempty"`
	Address  *string `json:"address,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// StoreResponse tienda serializada.
type StoreResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	IsActive bool   `json:"is_active"`
}
