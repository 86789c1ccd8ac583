package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/application/usecase"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
)

// ProductHandler maneja el catálogo de productos (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "name, barcode, price"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.Create(actor.TenantID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProductResponse(p))
}

// List godoc
// @Summary      Listar productos del tenant
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  false  "Búsqueda por nombre o código de barras"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	actor := GetActor(c)
	list, err := h.uc.List(actor.TenantID, c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	actor := GetActor(c)
	p, err := h.uc.GetByID(actor.TenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toProductResponse(p))
}

// GetByBarcode godoc
// @Summary      Buscar producto por código de barras
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        barcode  path  string  true  "Código de barras"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/barcode/{barcode} [get]
func (h *ProductHandler) GetByBarcode(c *fiber.Ctx) error {
	actor := GetActor(c)
	p, err := h.uc.GetByBarcode(actor.TenantID, c.Params("barcode"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toProductResponse(p))
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.Update(actor.TenantID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toProductResponse(p))
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Barcode:  p.Barcode,
		ImageURL: p.ImageURL,
		Price:    p.Price,
		IsActive: p.IsActive,
	}
}
