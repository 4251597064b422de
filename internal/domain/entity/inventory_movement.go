package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del movimiento (workflow de autorización).
const (
	MovementStatusPending  = "PENDIENTE"
	MovementStatusApproved = "APROBADO"
	MovementStatusRejected = "RECHAZADO"
)

// Origen del precio unitario registrado en el movimiento.
const (
	PriceSourceRequested   = "SOLICITADO"     // enviado explícitamente por el productor
	PriceSourceAverageCost = "COSTO_PROMEDIO" // tomado del costo promedio del producto al confirmar
)

// InventoryMovement es una entrada del KARDEX. Una vez sale de PENDIENTE solo cambian
// los campos de auditoría; las correcciones se hacen con movimientos compensatorios.
type InventoryMovement struct {
	ID                string
	ProductID         string
	WarehouseID       string
	TypeCode          string // código del MovementType (ej. SALIDA_MERMA)
	Operation         string // ENTRADA, SALIDA, TRANSFERENCIA (copiado del tipo al admitir)
	Quantity          int64  // siempre positivo; la dirección la da Operation
	UnitPrice         decimal.Decimal
	PriceSource       string
	TotalCost         decimal.Decimal
	StockBefore       int64
	StockAfter        int64 // provisional mientras está PENDIENTE
	ReferenceDocument string
	DocumentNumber    string
	Date              time.Time
	CreatedBy         string
	AuthorizedBy      string
	AuthorizedAt      *time.Time
	Reason            string
	RejectionReason   string
	Notes             string
	Status            string
	LinkID            string // agrupa las dos mitades de una TRANSFERENCIA
	TargetWarehouseID string // solo TRANSFERENCIA: almacén de la otra mitad
	Sequence          int64  // orden de finalización; 0 mientras está PENDIENTE
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsPending indica si el movimiento aún espera autorización.
func (m *InventoryMovement) IsPending() bool {
	return m.Status == MovementStatusPending
}

// IsTransfer indica si el movimiento es una mitad de un traslado entre almacenes.
func (m *InventoryMovement) IsTransfer() bool {
	return m.LinkID != ""
}
