package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
)

// AdjustmentHandler maneja /api/ajustes-inventario: ajustes manuales y su aprobación.
type AdjustmentHandler struct {
	ledger   *inventory.LedgerUseCase
	approval *inventory.ApprovalUseCase
	query    *kardex.QueryUseCase
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(ledger *inventory.LedgerUseCase, approval *inventory.ApprovalUseCase, query *kardex.QueryUseCase) *AdjustmentHandler {
	return &AdjustmentHandler{ledger: ledger, approval: approval, query: query}
}

// MovementTypes godoc
// @Summary      Catálogo de tipos de movimiento activos
// @Tags         ajustes-inventario
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.MovementTypeResponse
// @Router       /api/ajustes-inventario/tipos-movimiento [get]
func (h *AdjustmentHandler) MovementTypes(c *fiber.Ctx) error {
	return c.JSON(h.query.MovementTypes())
}

// List godoc
// @Summary      Listar ajustes de inventario
// @Description  Excluye compras, ventas y traslados. Más recientes primero.
// @Tags         ajustes-inventario
// @Security     Bearer
// @Produce      json
// @Param        page               query  int     false  "Página (desde 1)"
// @Param        limit              query  int     false  "Tamaño de página (máx. 100)"
// @Param        estado_movimiento  query  string  false  "PENDIENTE, APROBADO o RECHAZADO"
// @Param        tipo_movimiento    query  string  false  "Código del tipo"
// @Param        search             query  string  false  "Texto libre (producto, SKU, motivo, usuario)"
// @Success      200  {object}  dto.MovementPage
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ajustes-inventario [get]
func (h *AdjustmentHandler) List(c *fiber.Ctx) error {
	page, err := h.query.ListMovements(c.UserContext(), kardex.MovementQuery{
		PageRequest:     pageFromQuery(c),
		TypeCode:        c.Query("tipo_movimiento"),
		Status:          c.Query("estado_movimiento"),
		Search:          c.Query("search"),
		AdjustmentsOnly: true,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

// Get godoc
// @Summary      Detalle de un movimiento
// @Tags         ajustes-inventario
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ajustes-inventario/{id} [get]
func (h *AdjustmentHandler) Get(c *fiber.Ctx) error {
	m, err := h.query.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(m)
}

// Create godoc
// @Summary      Registrar ajuste de inventario
// @Description  Queda PENDIENTE si el tipo requiere autorización; si no, se aplica de inmediato.
// @Tags         ajustes-inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "producto_id, tipo_movimiento, cantidad (entero positivo)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ajustes-inventario [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return writeInvalidBody(c)
	}
	if ok, err := validateBody(c, &in); !ok {
		return err
	}
	m, err := h.ledger.RegisterAdjustmentFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(kardex.ToMovementResponse(m))
}

// Approve godoc
// @Summary      Aprobar movimiento pendiente
// @Description  Aplica el movimiento con el stock y el costo vigentes al momento de aprobar.
// @Tags         ajustes-inventario
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ajustes-inventario/{id}/aprobar [post]
func (h *AdjustmentHandler) Approve(c *fiber.Ctx) error {
	m, err := h.approval.Approve(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(kardex.ToMovementResponse(m))
}

// Reject godoc
// @Summary      Rechazar movimiento pendiente
// @Tags         ajustes-inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del movimiento"
// @Param        body  body  dto.RejectMovementRequest  true  "motivo"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ajustes-inventario/{id}/rechazar [post]
func (h *AdjustmentHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return writeInvalidBody(c)
	}
	if ok, err := validateBody(c, &in); !ok {
		return err
	}
	m, err := h.approval.Reject(c.UserContext(), c.Params("id"), GetUserID(c), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(kardex.ToMovementResponse(m))
}
