package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// MovementTypeRepository lee el catálogo tipos_movimiento.
type MovementTypeRepository interface {
	List(ctx context.Context) ([]entity.MovementType, error)
}
