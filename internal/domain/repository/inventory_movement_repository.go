package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de escritura del KARDEX. No hay borrado:
// un movimiento solo se crea, se finaliza (APROBADO) o se rechaza.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error)
	// GetForUpdate bloquea la fila del movimiento hasta el fin de la tx.
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryMovement, error)
	// ListByLinkForUpdate bloquea y devuelve las mitades de una TRANSFERENCIA.
	ListByLinkForUpdate(ctx context.Context, linkID string) ([]*entity.InventoryMovement, error)
	// Finalize pasa un movimiento PENDIENTE a APROBADO escribiendo los saldos confirmados.
	// Devuelve domain.ErrInvalidStateTransition si la fila ya no está PENDIENTE.
	Finalize(ctx context.Context, movement *entity.InventoryMovement) error
	// Reject pasa un movimiento PENDIENTE a RECHAZADO sin efecto en stock.
	Reject(ctx context.Context, id, rejectedBy, reason string, at time.Time) error
	// NextSequence reserva el siguiente número de orden de finalización.
	NextSequence(ctx context.Context) (int64, error)
}
