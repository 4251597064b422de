package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por almacén+producto.
// Usado dentro de transacciones; el llamador ya tiene bloqueado el producto.
type StockRepository interface {
	Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Si no existe devuelve saldo cero.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
}
