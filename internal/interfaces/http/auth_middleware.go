package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/domain"
	"github.com/jcastillo/puntoventa-api/pkg/jwt"
)

// LocalActor key para la identidad del llamador en Fiber.
const LocalActor = "actor"

// AuthMiddleware valida el Bearer Token JWT y deja el domain.Actor en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalActor, domain.Actor{
			UserID:   id.UserID,
			TenantID: id.TenantID,
			StoreID:  id.StoreID,
			Role:     id.Role,
		})
		return c.Next()
	}
}

// RequirePermission corta con 403 si el rol del actor no tiene la capacidad dada.
// Debe ir después de AuthMiddleware.
func RequirePermission(perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
		}
		if !domain.RoleHasPermission(actor.Role, perm) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permiso insuficiente"})
		}
		return c.Next()
	}
}

// RequireRole corta con 403 si el rol del actor no es exactamente el dado.
// Debe ir después de AuthMiddleware.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
		}
		if actor.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol insuficiente"})
		}
		return c.Next()
	}
}

// GetActor devuelve el actor del contexto (después del middleware de auth).
func GetActor(c *fiber.Ctx) domain.Actor {
	v := c.Locals(LocalActor)
	if v == nil {
		return domain.Actor{}
	}
	a, _ := v.(domain.Actor)
	return a
}
