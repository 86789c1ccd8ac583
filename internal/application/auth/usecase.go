package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
	"github.com/jcastillo/puntoventa-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase autenticación: verifica credenciales y emite el JWT con los claims
// que el resto de la API recibe como identidad confiable (tenant, rol,
// tienda asignada).
type UseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Role:     user.Role,
		StoreID:  user.StoreID,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			ID:       user.ID,
			FullName: user.FullName,
			Email:    user.Email,
			Role:     user.Role,
			StoreID:  user.StoreID,
			IsActive: user.IsActive,
		},
	}, nil
}
