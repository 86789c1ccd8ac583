package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/application/inventory"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
)

// InventoryHandler maneja kardex y consultas de stock (protegido).
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "store_id, product_id, type (IN|OUT|ADJ), quantity, direction (solo ADJ)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	m, err := h.uc.RegisterMovement(c.Context(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(m))
}

// ListMovements godoc
// @Summary      Listar kardex
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id    query  string  false  "Filtrar por tienda"
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        from        query  string  false  "Desde (RFC3339)"
// @Param        to          query  string  false  "Hasta (RFC3339)"
// @Success      200  {array}   dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	actor := GetActor(c)
	f := repository.MovementFilter{
		StoreID:   c.Query("store_id"),
		ProductID: c.Query("product_id"),
		Limit:     c.QueryInt("limit"),
		Offset:    c.QueryInt("offset"),
	}
	var err error
	if f.From, err = parseTimeQuery(c.Query("from")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from: formato RFC3339"})
	}
	if f.To, err = parseTimeQuery(c.Query("to")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to: formato RFC3339"})
	}
	list, err := h.uc.ListMovements(c.Context(), actor.TenantID, f)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// GetStock godoc
// @Summary      Stock actual de un producto en una tienda
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id    query  string  true  "Tienda"
// @Param        product_id  query  string  true  "Producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	actor := GetActor(c)
	out, err := h.uc.StockByProduct(c.Context(), actor.TenantID, c.Query("store_id"), c.Query("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetStockByBarcode godoc
// @Summary      Stock actual por código de barras
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        barcode   path   string  true  "Código de barras"
// @Param        store_id  query  string  true  "Tienda"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/barcode/{barcode} [get]
func (h *InventoryHandler) GetStockByBarcode(c *fiber.Ctx) error {
	actor := GetActor(c)
	out, err := h.uc.GetStockByBarcode(c.Context(), actor.TenantID, c.Query("store_id"), c.Params("barcode"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID,
		StoreID:   m.StoreID,
		ProductID: m.ProductID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Direction: m.Direction,
		Note:      m.Note,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

// parseTimeQuery interpreta un query param opcional como RFC3339.
func parseTimeQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
