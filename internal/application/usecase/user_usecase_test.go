package usecase_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/application/usecase"
	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/infrastructure/memory"
)

func seedTenantWithStore(t *testing.T, st *memory.Store) (tenantID, storeID string) {
	t.Helper()
	tenantID = uuid.New().String()
	storeID = uuid.New().String()
	require.NoError(t, memory.NewStoreRepository(st).Create(&entity.Store{
		ID: storeID, TenantID: tenantID, Name: "Tienda Centro", IsActive: true, CreatedAt: time.Now(),
	}))
	return tenantID, storeID
}

func TestUserCreate_VendedorRequiereTienda(t *testing.T) {
	st := memory.NewStore()
	tenantID, storeID := seedTenantWithStore(t, st)
	uc := usecase.NewUserUseCase(memory.NewUserRepository(st), memory.NewStoreRepository(st))

	_, err := uc.Create(tenantID, dto.CreateUserRequest{
		FullName: "Juan Pérez", Email: "juan@tienda.pe", Password: "clave123", Role: "VENDEDOR",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "VENDEDOR sin tienda asignada")

	user, err := uc.Create(tenantID, dto.CreateUserRequest{
		FullName: "Juan Pérez", Email: "Juan@Tienda.PE", Password: "clave123", Role: "vendedor", StoreID: storeID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVendedor, user.Role, "el rol se normaliza a mayúsculas")
	assert.Equal(t, "juan@tienda.pe", user.Email, "el email se normaliza a minúsculas")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("clave123")))
}

func TestUserCreate_AdminSinTiendaEsValido(t *testing.T) {
	st := memory.NewStore()
	tenantID, _ := seedTenantWithStore(t, st)
	uc := usecase.NewUserUseCase(memory.NewUserRepository(st), memory.NewStoreRepository(st))

	user, err := uc.Create(tenantID, dto.CreateUserRequest{
		FullName: "Dueña", Email: "duena@tienda.pe", Password: "clave123", Role: "ADMIN",
	})
	require.NoError(t, err)
	assert.Empty(t, user.StoreID)
}

func TestUserCreate_TiendaDeOtroTenant(t *testing.T) {
	st := memory.NewStore()
	tenantID, _ := seedTenantWithStore(t, st)
	_, otraStoreID := seedTenantWithStore(t, st)
	uc := usecase.NewUserUseCase(memory.NewUserRepository(st), memory.NewStoreRepository(st))

	_, err := uc.Create(tenantID, dto.CreateUserRequest{
		FullName: "Juan", Email: "juan@tienda.pe", Password: "clave123", Role: "ALMACEN", StoreID: otraStoreID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserCreate_EmailDuplicadoEnElTenant(t *testing.T) {
	st := memory.NewStore()
	tenantID, storeID := seedTenantWithStore(t, st)
	uc := usecase.NewUserUseCase(memory.NewUserRepository(st), memory.NewStoreRepository(st))

	req := dto.CreateUserRequest{
		FullName: "Juan", Email: "juan@tienda.pe", Password: "clave123", Role: "VENDEDOR", StoreID: storeID,
	}
	_, err := uc.Create(tenantID, req)
	require.NoError(t, err)

	_, err = uc.Create(tenantID, req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestTenantCreate_NombreDuplicado(t *testing.T) {
	st := memory.NewStore()
	uc := usecase.NewTenantUseCase(memory.NewTenantRepository(st))

	_, err := uc.Create("Bodega Lima")
	require.NoError(t, err)

	_, err = uc.Create("Bodega Lima")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create("   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductCreate_BarcodeUnicoPorTenant(t *testing.T) {
	st := memory.NewStore()
	uc := usecase.NewProductUseCase(memory.NewProductRepository(st))
	tenantA := uuid.New().String()
	tenantB := uuid.New().String()

	req := dto.CreateProductRequest{Name: "Gaseosa", Barcode: "775001", Price: decimal.NewFromFloat(3.50)}
	_, err := uc.Create(tenantA, req)
	require.NoError(t, err)

	_, err = uc.Create(tenantA, req)
	assert.ErrorIs(t, err, domain.ErrDuplicate, "mismo barcode en el mismo tenant")

	_, err = uc.Create(tenantB, req)
	assert.NoError(t, err, "el barcode es único por tenant, no global")
}

func TestProductCreate_PrecioNegativo(t *testing.T) {
	st := memory.NewStore()
	uc := usecase.NewProductUseCase(memory.NewProductRepository(st))

	_, err := uc.Create(uuid.New().String(), dto.CreateProductRequest{
		Name: "Gaseosa", Barcode: "775001", Price: decimal.NewFromFloat(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
