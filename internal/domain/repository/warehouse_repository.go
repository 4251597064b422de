package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de lectura de almacenes (DIP).
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
}
