package entity

import "time"

// Stock representa el saldo de un producto en un almacén. La tarjeta KARDEX se
// lleva por almacén: stock_anterior/stock_nuevo de cada movimiento se refieren a este saldo.
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    int64
	UpdatedAt   time.Time
}
