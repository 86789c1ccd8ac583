package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/application/usecase"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
)

// StoreHandler maneja las tiendas del tenant (protegido).
type StoreHandler struct {
	uc *usecase.StoreUseCase
}

// NewStoreHandler construye el handler.
func NewStoreHandler(uc *usecase.StoreUseCase) *StoreHandler {
	return &StoreHandler{uc: uc}
}

// Create godoc
// @Summary      Crear tienda
// @Tags         stores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStoreRequest  true  "name, address"
// @Success      201   {object}  dto.StoreResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stores [post]
func (h *StoreHandler) Create(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.CreateStoreRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s, err := h.uc.Create(actor.TenantID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStoreResponse(s))
}

// List godoc
// @Summary      Listar tiendas del tenant
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StoreResponse
// @Router       /api/stores [get]
func (h *StoreHandler) List(c *fiber.Ctx) error {
	actor := GetActor(c)
	list, err := h.uc.List(actor.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StoreResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toStoreResponse(s))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar tienda
// @Tags         stores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la tienda"
// @Param        body  body  dto.UpdateStoreRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.StoreResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stores/{id} [put]
func (h *StoreHandler) Update(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.UpdateStoreRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s, err := h.uc.Update(actor.TenantID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStoreResponse(s))
}

func toStoreResponse(s *entity.Store) dto.StoreResponse {
	return dto.StoreResponse{
		ID:       s.ID,
		Name:     s.Name,
		Address:  s.Address,
		IsActive: s.IsActive,
	}
}
