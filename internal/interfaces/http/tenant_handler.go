package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/application/usecase"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
)

// TenantHandler maneja el registro de empresas.
type TenantHandler struct {
	uc *usecase.TenantUseCase
}

// NewTenantHandler construye el handler.
func NewTenantHandler(uc *usecase.TenantUseCase) *TenantHandler {
	return &TenantHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar empresa
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTenantRequest  true  "name"
// @Success      201   {object}  dto.TenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tenants [post]
func (h *TenantHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.uc.Create(in.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTenantResponse(t))
}

// List godoc
// @Summary      Listar empresas
// @Tags         tenants
// @Produce      json
// @Success      200  {array}  dto.TenantResponse
// @Router       /api/tenants [get]
func (h *TenantHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List()
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.TenantResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTenantResponse(t))
	}
	return c.JSON(out)
}

func toTenantResponse(t *entity.Tenant) dto.TenantResponse {
	return dto.TenantResponse{ID: t.ID, Name: t.Name, IsActive: t.IsActive}
}
