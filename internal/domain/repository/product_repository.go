package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// UpdateStockAndCost es el único camino de escritura de stock_actual y costo_promedio.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) hasta el fin de la tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	UpdateStockAndCost(ctx context.Context, productID string, stock int64, cost decimal.Decimal) error
}
