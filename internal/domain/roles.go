package domain

// Roles estándar por tenant. Cada empresa los recibe al crearse.
const (
	RoleAdmin    = "ADMIN"
	RoleVendedor = "VENDEDOR"
	RoleAlmacen  = "ALMACEN"
)

// Permisos (capabilities) que el core consulta. La restricción de tienda
// asignada se expresa como capacidad explícita, no como comparación de roles.
const (
	PermSellAnyStore  = "sales:any_store" // exento de la restricción de tienda asignada
	PermVoidSale      = "sales:void"
	PermRecordInbound = "inventory:write"
)

// rolePermissions mapa rol -> capacidades. VENDEDOR y ALMACEN solo operan
// sobre su tienda asignada.
var rolePermissions = map[string][]string{
	RoleAdmin:    {PermSellAnyStore, PermVoidSale, PermRecordInbound},
	RoleVendedor: {},
	RoleAlmacen:  {PermRecordInbound},
}

// RoleHasPermission indica si un rol tiene la capacidad dada.
func RoleHasPermission(role, perm string) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// Actor identidad del llamador, construida por la capa de auth y recibida
// como entrada confiable por los casos de uso.
type Actor struct {
	UserID   string
	TenantID string
	StoreID  string // tienda asignada; vacío si no tiene
	Role     string
}

// CanSellAt aplica la política de tienda asignada: un usuario con tienda
// asignada solo puede vender en ella, salvo que su rol tenga PermSellAnyStore.
func (a Actor) CanSellAt(storeID string) bool {
	if a.StoreID == "" || RoleHasPermission(a.Role, PermSellAnyStore) {
		return true
	}
	return a.StoreID == storeID
}
