package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TypeTotalDTO totales de un tipo de movimiento en el período.
type TypeTotalDTO struct {
	TypeCode  string          `json:"tipo_movimiento"`
	Operation string          `json:"tipo_operacion"`
	Count     int64           `json:"cantidad_movimientos"`
	Quantity  int64           `json:"cantidad_total"`
	TotalCost decimal.Decimal `json:"costo_total"`
}

// DirectionTotalDTO totales agregados por dirección.
type DirectionTotalDTO struct {
	Count     int64           `json:"cantidad_movimientos"`
	Quantity  int64           `json:"cantidad_total"`
	TotalCost decimal.Decimal `json:"costo_total"`
}

// KardexSummary respuesta de GET /api/kardex/resumen. Solo los movimientos APROBADOS
// suman cantidades y costos; los conteos por estado incluyen todos.
type KardexSummary struct {
	From      *time.Time        `json:"fecha_inicio,omitempty"`
	To        *time.Time        `json:"fecha_fin,omitempty"`
	ProductID string            `json:"producto_id,omitempty"`
	ByType    []TypeTotalDTO    `json:"por_tipo"`
	Entradas  DirectionTotalDTO `json:"entradas"`
	Salidas   DirectionTotalDTO `json:"salidas"`
	Transfers DirectionTotalDTO `json:"transferencias"`
	Pending   int64             `json:"pendientes"`
	Approved  int64             `json:"aprobados"`
	Rejected  int64             `json:"rechazados"`
}

// KardexCardLine una línea de la tarjeta KARDEX de un producto.
type KardexCardLine struct {
	Sequence    int64           `json:"secuencia"`
	MovementID  string          `json:"movimiento_id"`
	Date        time.Time       `json:"fecha_movimiento"`
	WarehouseID string          `json:"almacen_id"`
	TypeCode    string          `json:"tipo_movimiento"`
	Operation   string          `json:"tipo_operacion"`
	QuantityIn  int64           `json:"entrada"`
	QuantityOut int64           `json:"salida"`
	StockBefore int64           `json:"stock_anterior"`
	StockAfter  int64           `json:"stock_nuevo"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	TotalCost   decimal.Decimal `json:"costo_total"`
	Document    string          `json:"numero_documento,omitempty"`
}

// KardexCard respuesta de GET /api/kardex/productos/:id.
type KardexCard struct {
	Product ProductSummary   `json:"producto"`
	Lines   []KardexCardLine `json:"movimientos"`
}

// MovementEventMessage mensaje que reciben los clientes de /ws/kardex.
type MovementEventMessage struct {
	Event    string           `json:"evento"`
	Movement MovementResponse `json:"movimiento"`
}
