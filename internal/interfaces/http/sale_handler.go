package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastillo/puntoventa-api/internal/application/dto"
	"github.com/jcastillo/puntoventa-api/internal/application/sales"
	"github.com/jcastillo/puntoventa-api/internal/domain/entity"
	"github.com/jcastillo/puntoventa-api/internal/domain/repository"
)

// SaleHandler maneja creación, consulta, anulación y ticket de ventas (protegido).
type SaleHandler struct {
	createUC  *sales.CreateSaleUseCase
	voidUC    *sales.VoidSaleUseCase
	queryUC   *sales.QueryUseCase
	receiptUC *sales.ReceiptUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(
	createUC *sales.CreateSaleUseCase,
	voidUC *sales.VoidSaleUseCase,
	queryUC *sales.QueryUseCase,
	receiptUC *sales.ReceiptUseCase,
) *SaleHandler {
	return &SaleHandler{createUC: createUC, voidUC: voidUC, queryUC: queryUC, receiptUC: receiptUC}
}

// Create godoc
// @Summary      Crear venta
// @Description  Descuenta stock de todos los ítems del carrito en una sola
//	transacción. Si algún producto no alcanza, nada se vende.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "store_id, payment_method (CASH|YAPE), items"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, err := h.createUC.CreateSale(c.Context(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        store_id        query  string  false  "Filtrar por tienda"
// @Param        from            query  string  false  "Desde (RFC3339)"
// @Param        to              query  string  false  "Hasta (RFC3339)"
// @Param        include_voided  query  bool    false  "Incluir ventas anuladas"
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	actor := GetActor(c)
	f := repository.SaleFilter{
		StoreID:       c.Query("store_id"),
		IncludeVoided: c.QueryBool("include_voided"),
		Limit:         c.QueryInt("limit"),
		Offset:        c.QueryInt("offset"),
	}
	var err error
	if f.From, err = parseTimeQuery(c.Query("from")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from: formato RFC3339"})
	}
	if f.To, err = parseTimeQuery(c.Query("to")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to: formato RFC3339"})
	}
	list, err := h.queryUC.ListSales(c.Context(), actor.TenantID, f)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSaleResponse(s))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de una venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	actor := GetActor(c)
	sale, err := h.queryUC.GetSale(c.Context(), actor.TenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// Void godoc
// @Summary      Anular una venta
// @Description  Marca la venta como VOIDED y repone el stock con movimientos
//	de entrada compensatorios, todo en una transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la venta"
// @Param        body  body  dto.VoidSaleRequest  true  "motivo"
// @Success      200   {object}  dto.SaleResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/void [post]
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.VoidSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, err := h.voidUC.VoidSale(c.Context(), actor, c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// Receipt godoc
// @Summary      Ticket de venta en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	actor := GetActor(c)
	pdfBytes, err := h.receiptUC.ReceiptPDF(c.Context(), actor.TenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="ticket.pdf"`)
	return c.Send(pdfBytes)
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return dto.SaleResponse{
		ID:                  s.ID,
		Number:              s.Number,
		StoreID:             s.StoreID,
		PaymentMethod:       s.PaymentMethod,
		YapeOperationNumber: s.YapeOperationNumber,
		Total:               s.Total,
		Status:              s.Status,
		VoidReason:          s.VoidReason,
		VoidedAt:            s.VoidedAt,
		CreatedAt:           s.CreatedAt,
		Items:               items,
	}
}
