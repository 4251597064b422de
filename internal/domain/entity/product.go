package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// Stock y Cost solo los escribe el paso de confirmación del KARDEX; el resto del
// sistema los lee.
type Product struct {
	ID        string
	SKU       string
	Name      string
	Stock     int64           // stock_actual: suma de los saldos por almacén
	Cost      decimal.Decimal // costo promedio ponderado (inicia en 0)
	MinStock  int64
	MaxStock  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
