package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.MovementTypeRepository = (*MovementTypeRepo)(nil)

// MovementTypeRepo lee el catálogo tipos_movimiento.
type MovementTypeRepo struct {
	q Querier
}

// NewMovementTypeRepository construye el adaptador del catálogo.
func NewMovementTypeRepository(q Querier) *MovementTypeRepo {
	return &MovementTypeRepo{q: q}
}

// List devuelve todos los tipos, activos e inactivos, ordenados por código.
func (r *MovementTypeRepo) List(ctx context.Context) ([]entity.MovementType, error) {
	rows, err := r.q.Query(ctx, `
		SELECT codigo, nombre, tipo_operacion, afecta_stock, requiere_autorizacion, requiere_documento, activo
		FROM tipos_movimiento ORDER BY codigo`)
	if err != nil {
		return nil, fmt.Errorf("list movement types: %w", err)
	}
	defer rows.Close()
	var list []entity.MovementType
	for rows.Next() {
		var t entity.MovementType
		if err := rows.Scan(&t.Code, &t.Name, &t.Operation, &t.AffectsStock,
			&t.RequiresAuthorization, &t.RequiresDocument, &t.Active); err != nil {
			return nil, fmt.Errorf("scan movement type: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
