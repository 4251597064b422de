package inventory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: o se escriben movimiento, saldo y
// producto juntos, o no se escribe nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// MovementPoster es el contrato que usan los productores de movimientos (ventas,
// compras, pedidos de clientes, ajustes manuales) para escribir en el KARDEX.
type MovementPoster interface {
	PostMovement(ctx context.Context, input MovementInputDTO) (*entity.InventoryMovement, error)
}

// Tipos de evento publicados tras cada cambio de estado del KARDEX.
const (
	EventMovementCreated  = "movimiento.creado"
	EventMovementApproved = "movimiento.aprobado"
	EventMovementRejected = "movimiento.rechazado"
)

// MovementEvent notificación de un cambio ya confirmado en BD.
type MovementEvent struct {
	Type     string
	Movement *entity.InventoryMovement
}

// EventPublisher recibe los eventos del KARDEX (ej. hub websocket). Publish no debe bloquear.
type EventPublisher interface {
	Publish(ctx context.Context, event MovementEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, MovementEvent) {}
