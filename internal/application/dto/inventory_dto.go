package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/kardex/movimientos (contrato de productores).
// Para TRANSFERENCIA: almacen_id es el origen y almacen_destino_id el destino.
type RegisterMovementRequest struct {
	ProductID             string           `json:"producto_id" validate:"required"`
	WarehouseID           string           `json:"almacen_id,omitempty"`
	TargetWarehouseID     string           `json:"almacen_destino_id,omitempty"`
	TypeCode              string           `json:"tipo_movimiento" validate:"required"`
	Quantity              decimal.Decimal  `json:"cantidad"`
	UnitPrice             *decimal.Decimal `json:"precio_unitario,omitempty"`
	Reason                string           `json:"motivo_movimiento,omitempty"`
	Notes                 string           `json:"observaciones,omitempty"`
	DocumentNumber        string           `json:"numero_documento,omitempty"`
	ReferenceDocument     string           `json:"documento_referencia,omitempty"`
	RequiresAuthorization *bool            `json:"requiere_autorizacion,omitempty"`
}

// CreateAdjustmentRequest body para POST /api/ajustes-inventario.
// cantidad llega como número y debe ser un entero positivo.
type CreateAdjustmentRequest struct {
	ProductID             string           `json:"producto_id" validate:"required"`
	WarehouseID           string           `json:"almacen_id,omitempty"`
	TypeCode              string           `json:"tipo_movimiento" validate:"required"`
	Quantity              decimal.Decimal  `json:"cantidad"`
	UnitPrice             *decimal.Decimal `json:"precio_unitario,omitempty"`
	Reason                string           `json:"motivo_movimiento,omitempty"`
	Notes                 string           `json:"observaciones,omitempty"`
	DocumentNumber        string           `json:"numero_documento,omitempty"`
	RequiresAuthorization *bool            `json:"requiere_autorizacion,omitempty"`
}

// RejectMovementRequest body para POST /api/ajustes-inventario/:id/rechazar.
type RejectMovementRequest struct {
	Reason string `json:"motivo" validate:"required"`
}

// MovementTypeResponse elemento de GET /api/ajustes-inventario/tipos-movimiento.
type MovementTypeResponse struct {
	Code                  string `json:"codigo"`
	Name                  string `json:"nombre"`
	Operation             string `json:"tipo_operacion"`
	AffectsStock          bool   `json:"afecta_stock"`
	RequiresAuthorization bool   `json:"requiere_autorizacion"`
	RequiresDocument      bool   `json:"requiere_documento"`
}

// ProductSummary datos del producto anidados en un movimiento.
type ProductSummary struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"nombre"`
	Stock        int64           `json:"stock_actual"`
	AverageCost  decimal.Decimal `json:"costo_promedio"`
	MinimumStock int64           `json:"stock_minimo"`
	MaximumStock int64           `json:"stock_maximo"`
}

// UserSummary datos del usuario anidados en un movimiento.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"nombre"`
	Email string `json:"email,omitempty"`
}

// MovementResponse movimiento del KARDEX tal como lo consume el cliente.
type MovementResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"producto_id"`
	WarehouseID       string          `json:"almacen_id"`
	TargetWarehouseID string          `json:"almacen_destino_id,omitempty"`
	LinkID            string          `json:"link_id,omitempty"`
	TypeCode          string          `json:"tipo_movimiento"`
	Operation         string          `json:"tipo_operacion"`
	Quantity          int64           `json:"cantidad"`
	UnitPrice         decimal.Decimal `json:"precio_unitario"`
	PriceSource       string          `json:"origen_precio"`
	TotalCost         decimal.Decimal `json:"costo_total"`
	StockBefore       int64           `json:"stock_anterior"`
	StockAfter        int64           `json:"stock_nuevo"`
	ReferenceDocument string          `json:"documento_referencia"`
	DocumentNumber    string          `json:"numero_documento,omitempty"`
	Date              time.Time       `json:"fecha_movimiento"`
	UserID            string          `json:"usuario_id"`
	AuthorizedBy      string          `json:"autorizado_por,omitempty"`
	AuthorizedAt      *time.Time      `json:"fecha_autorizacion,omitempty"`
	Reason            string          `json:"motivo_movimiento,omitempty"`
	RejectionReason   string          `json:"motivo_rechazo,omitempty"`
	Notes             string          `json:"observaciones,omitempty"`
	Status            string          `json:"estado_movimiento"`
	Sequence          int64           `json:"secuencia,omitempty"`
	Product           *ProductSummary `json:"producto,omitempty"`
	User              *UserSummary    `json:"usuario,omitempty"`
	Authorizer        *UserSummary    `json:"autorizadoPor,omitempty"`
}

// MovementPage respuesta paginada de movimientos.
type MovementPage struct {
	Data       []MovementResponse `json:"data"`
	Pagination PageResponse       `json:"pagination"`
}
