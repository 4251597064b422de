package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
)

// KardexHandler maneja /api/kardex: el log completo, el resumen y el contrato de productores.
type KardexHandler struct {
	ledger *inventory.LedgerUseCase
	query  *kardex.QueryUseCase
}

// NewKardexHandler construye el handler.
func NewKardexHandler(ledger *inventory.LedgerUseCase, query *kardex.QueryUseCase) *KardexHandler {
	return &KardexHandler{ledger: ledger, query: query}
}

// ListMovements godoc
// @Summary      Listar movimientos del KARDEX
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        page               query  int     false  "Página (desde 1)"
// @Param        limit              query  int     false  "Tamaño de página (máx. 100)"
// @Param        producto_id        query  string  false  "Producto"
// @Param        almacen_id         query  string  false  "Almacén"
// @Param        tipo_movimiento    query  string  false  "Código del tipo"
// @Param        estado_movimiento  query  string  false  "PENDIENTE, APROBADO o RECHAZADO"
// @Param        fecha_inicio       query  string  false  "AAAA-MM-DD o RFC3339"
// @Param        fecha_fin          query  string  false  "AAAA-MM-DD (incluye el día) o RFC3339"
// @Param        search             query  string  false  "Texto libre"
// @Success      200  {object}  dto.MovementPage
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/kardex/movimientos [get]
func (h *KardexHandler) ListMovements(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	page, err := h.query.ListMovements(c.UserContext(), kardex.MovementQuery{
		PageRequest: pageFromQuery(c),
		ProductID:   c.Query("producto_id"),
		WarehouseID: c.Query("almacen_id"),
		TypeCode:    c.Query("tipo_movimiento"),
		Status:      c.Query("estado_movimiento"),
		Search:      c.Query("search"),
		From:        from,
		To:          to,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

// Summary godoc
// @Summary      Resumen del KARDEX por tipo y dirección
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        producto_id   query  string  false  "Producto"
// @Param        fecha_inicio  query  string  false  "AAAA-MM-DD o RFC3339"
// @Param        fecha_fin     query  string  false  "AAAA-MM-DD (incluye el día) o RFC3339"
// @Success      200  {object}  dto.KardexSummary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/kardex/resumen [get]
func (h *KardexHandler) Summary(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	summary, err := h.query.Summary(c.UserContext(), c.Query("producto_id"), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// ProductCard godoc
// @Summary      Tarjeta KARDEX de un producto
// @Description  Movimientos aprobados en orden de aplicación, con saldo antes y después.
// @Tags         kardex
// @Security     Bearer
// @Produce      json
// @Param        id            path   string  true   "Producto"
// @Param        almacen_id    query  string  false  "Almacén"
// @Param        fecha_inicio  query  string  false  "AAAA-MM-DD o RFC3339"
// @Param        fecha_fin     query  string  false  "AAAA-MM-DD (incluye el día) o RFC3339"
// @Success      200  {object}  dto.KardexCard
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex/productos/{id} [get]
func (h *KardexHandler) ProductCard(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	card, err := h.query.ProductCard(c.UserContext(), c.Params("id"), c.Query("almacen_id"), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(card)
}

// PostMovement godoc
// @Summary      Registrar movimiento (ventas, compras, pedidos, traslados)
// @Tags         kardex
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "Para TRANSFERENCIA: almacen_id origen y almacen_destino_id"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kardex/movimientos [post]
func (h *KardexHandler) PostMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return writeInvalidBody(c)
	}
	if ok, err := validateBody(c, &in); !ok {
		return err
	}
	m, err := h.ledger.RegisterMovementFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(kardex.ToMovementResponse(m))
}
