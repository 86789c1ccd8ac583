package dto

// CreateUserRequest cuerpo para crear un usuario. StoreID es obligatorio para
// VENDEDOR y ALMACEN.
type CreateUserRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // ADMIN | VENDEDOR | ALMACEN
	StoreID  string `json:"store_id,omitempty"`
}

// UpdateUserRequest campos opcionales a actualizar.
type UpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Role     *string `json:"role,omitempty"`
	StoreID  *string `json:"store_id,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// UserResponse usuario serializado (nunca incluye el hash).
type UserResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	StoreID  string `json:"store_id,omitempty"`
	IsActive bool   `json:"is_active"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token emitido más el usuario autenticado.
type LoginResponse struct {
	Token string       `json:"access_token"`
	User  UserResponse `json:"user"`
}
