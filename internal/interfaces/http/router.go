package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/infrastructure/ws"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *inventory.LedgerUseCase
	Approval  *inventory.ApprovalUseCase
	Query     *kardex.QueryUseCase
	Hub       *ws.Hub // nil desactiva /ws/kardex
	JWTSecret string
	JWTIssuer string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	auth := AuthMiddleware(deps.JWTSecret, deps.JWTIssuer)
	approvers := RequireRole(entity.RoleAdmin, entity.RoleSupervisor)

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", auth)

	// Ajustes de inventario
	adjustments := api.Group("/ajustes-inventario")
	adjustmentHandler := NewAdjustmentHandler(deps.Ledger, deps.Approval, deps.Query)
	adjustments.Get("/tipos-movimiento", adjustmentHandler.MovementTypes)
	adjustments.Get("/", adjustmentHandler.List)
	adjustments.Post("/", adjustmentHandler.Create)
	adjustments.Get("/:id", adjustmentHandler.Get)
	adjustments.Post("/:id/aprobar", approvers, adjustmentHandler.Approve)
	adjustments.Post("/:id/rechazar", approvers, adjustmentHandler.Reject)

	// KARDEX
	kardexGroup := api.Group("/kardex")
	kardexHandler := NewKardexHandler(deps.Ledger, deps.Query)
	kardexGroup.Get("/movimientos", kardexHandler.ListMovements)
	kardexGroup.Post("/movimientos", kardexHandler.PostMovement)
	kardexGroup.Get("/resumen", kardexHandler.Summary)
	kardexGroup.Get("/productos/:id", kardexHandler.ProductCard)

	if deps.Hub != nil {
		app.Get("/ws/kardex", requireUpgrade, auth, kardexStream(deps.Hub))
	}
}
