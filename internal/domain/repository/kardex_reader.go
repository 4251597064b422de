package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// KardexReader es el puerto de solo lectura del KARDEX. No expone métodos que muten
// estado: los reportes nunca pueden "corregir" un número.
type KardexReader interface {
	ListMovements(ctx context.Context, filter MovementFilter) ([]MovementView, int, error)
	GetMovement(ctx context.Context, id string) (*MovementView, error)
	Summary(ctx context.Context, filter SummaryFilter) (*SummaryResult, error)
	// ProductCard devuelve los movimientos APROBADOS de un producto en orden de finalización.
	ProductCard(ctx context.Context, filter CardFilter) ([]entity.InventoryMovement, error)
}

// MovementFilter filtros del listado de movimientos. Los campos vacíos no filtran.
type MovementFilter struct {
	ProductID       string
	WarehouseID     string
	TypeCode        string
	Status          string
	Operation       string
	AdjustmentsOnly bool // excluye ventas, compras y traslados (subconjunto ajustes-inventario)
	Search          string
	From            *time.Time
	To              *time.Time
	Limit           int
	Offset          int
}

// SummaryFilter rango y producto para el resumen.
type SummaryFilter struct {
	ProductID string
	From      *time.Time
	To        *time.Time
}

// CardFilter filtros de la tarjeta KARDEX de un producto.
type CardFilter struct {
	ProductID   string
	WarehouseID string
	From        *time.Time
	To          *time.Time
}

// MovementView movimiento con los datos anidados que muestra el cliente.
type MovementView struct {
	Movement     entity.InventoryMovement
	Product      entity.Product
	CreatedBy    entity.User
	AuthorizedBy *entity.User
}

// TypeTotal totales agregados por tipo de movimiento.
type TypeTotal struct {
	TypeCode  string
	Operation string
	Count     int64
	Quantity  int64
	TotalCost decimal.Decimal
}

// SummaryResult resultado crudo del resumen del KARDEX.
type SummaryResult struct {
	ByType   []TypeTotal
	Pending  int64
	Approved int64
	Rejected int64
}
