package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jcastillo/puntoventa-api/internal/application/auth"
	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/infrastructure/memory"
	pkgjwt "github.com/jcastillo/puntoventa-api/pkg/jwt"
)

const testSecret = "secret-para-tests-de-auth"

func newAuthFixture(t *testing.T, active bool) (*auth.UseCase, *entity.User) {
	t.Helper()
	st := memory.NewStore()
	userRepo := memory.NewUserRepository(st)

	hash, err := bcrypt.GenerateFromPassword([]byte("clave123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     uuid.New().String(),
		Role:         domain.RoleVendedor,
		StoreID:      uuid.New().String(),
		FullName:     "María Quispe",
		Email:        "maria@tienda.pe",
		PasswordHash: string(hash),
		IsActive:     active,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, userRepo.Create(user))

	uc := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret: testSecret, ExpMinutes: 60, Issuer: "puntoventa-test",
	})
	return uc, user
}

func TestLogin_EmiteTokenConIdentidadCompleta(t *testing.T) {
	uc, user := newAuthFixture(t, true)

	out, err := uc.Login(dto.LoginRequest{Email: "maria@tienda.pe", Password: "clave123"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, user.Email, out.User.Email)

	// El token lleva tenant, rol y tienda asignada: la API no vuelve a la DB.
	id, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, user.TenantID, id.TenantID)
	assert.Equal(t, domain.RoleVendedor, id.Role)
	assert.Equal(t, user.StoreID, id.StoreID)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc, _ := newAuthFixture(t, true)
	_, err := uc.Login(dto.LoginRequest{Email: "maria@tienda.pe", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_EmailDesconocido(t *testing.T) {
	uc, _ := newAuthFixture(t, true)
	_, err := uc.Login(dto.LoginRequest{Email: "nadie@tienda.pe", Password: "clave123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, _ := newAuthFixture(t, false)
	_, err := uc.Login(dto.LoginRequest{Email: "maria@tienda.pe", Password: "clave123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
