package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ApprovalUseCase gobierna la máquina de estados PENDIENTE → APROBADO | RECHAZADO.
// Aprobar no contiene aritmética propia: dispara la confirmación del LedgerUseCase.
type ApprovalUseCase struct {
	ledger *LedgerUseCase
}

// NewApprovalUseCase construye el caso de uso sobre el motor de KARDEX.
func NewApprovalUseCase(ledger *LedgerUseCase) *ApprovalUseCase {
	return &ApprovalUseCase{ledger: ledger}
}

// Approve revalida el stock contra el saldo actual y confirma el movimiento.
// Si el stock ya no alcanza devuelve *domain.InsufficientStockError y el movimiento
// sigue PENDIENTE para reintentar o rechazar. Un traslado se aprueba con sus dos mitades.
func (uc *ApprovalUseCase) Approve(ctx context.Context, movementID, approverID string) (*entity.InventoryMovement, error) {
	if strings.TrimSpace(movementID) == "" {
		return nil, domain.NewValidationError("id", "es requerido")
	}
	if approverID == "" {
		return nil, domain.ErrUnauthorized
	}

	var target *entity.InventoryMovement
	var rows []*entity.InventoryMovement
	err := uc.ledger.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		var err error
		target, rows, err = lockPending(ctx, movRepo, movementID)
		if err != nil {
			return err
		}
		mt, err := uc.ledger.registry.Resolve(target.TypeCode)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		at := uc.ledger.now()
		for _, m := range rows {
			m.AuthorizedBy = approverID
			m.AuthorizedAt = &at
		}
		return uc.ledger.commit(ctx, movRepo, stockRepo, productRepo, rows, mt, true)
	})
	if err != nil {
		if target != nil {
			uc.ledger.logFailure(err, target)
		}
		return nil, err
	}

	uc.ledger.log.Info().
		Str("movimiento_id", target.ID).
		Str("producto_id", target.ProductID).
		Str("tipo_movimiento", target.TypeCode).
		Str("autorizado_por", approverID).
		Int64("stock_nuevo", target.StockAfter).
		Msg("movimiento aprobado")
	for _, m := range rows {
		uc.ledger.publisher.Publish(ctx, MovementEvent{Type: EventMovementApproved, Movement: m})
	}
	return target, nil
}

// Reject pasa el movimiento a RECHAZADO sin efecto en stock. El motivo es obligatorio
// y queda guardado para auditoría.
func (uc *ApprovalUseCase) Reject(ctx context.Context, movementID, approverID, reason string) (*entity.InventoryMovement, error) {
	reason = strings.TrimSpace(reason)
	if strings.TrimSpace(movementID) == "" {
		return nil, domain.NewValidationError("id", "es requerido")
	}
	if approverID == "" {
		return nil, domain.ErrUnauthorized
	}
	if reason == "" {
		return nil, domain.NewValidationError("motivo", "es requerido para rechazar")
	}

	var target *entity.InventoryMovement
	var rows []*entity.InventoryMovement
	err := uc.ledger.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		_ repository.StockRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		target, rows, err = lockPending(ctx, movRepo, movementID)
		if err != nil {
			return err
		}
		at := uc.ledger.now()
		for _, m := range rows {
			if err := movRepo.Reject(ctx, m.ID, approverID, reason, at); err != nil {
				return err
			}
			m.Status = entity.MovementStatusRejected
			m.AuthorizedBy = approverID
			m.AuthorizedAt = &at
			m.RejectionReason = reason
			m.UpdatedAt = at
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.ledger.log.Info().
		Str("movimiento_id", target.ID).
		Str("producto_id", target.ProductID).
		Str("rechazado_por", approverID).
		Str("motivo", reason).
		Msg("movimiento rechazado")
	for _, m := range rows {
		uc.ledger.publisher.Publish(ctx, MovementEvent{Type: EventMovementRejected, Movement: m})
	}
	return target, nil
}

// lockPending bloquea el movimiento (o las dos mitades si es traslado) y exige estado
// PENDIENTE. Las mitades se bloquean juntas por link_id en orden de id; el producto se
// bloquea después, así el orden es siempre movimiento → producto.
func lockPending(ctx context.Context, movRepo repository.InventoryMovementRepository, id string) (*entity.InventoryMovement, []*entity.InventoryMovement, error) {
	m, err := movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if m == nil {
		return nil, nil, domain.ErrNotFound
	}

	if !m.IsTransfer() {
		m, err = movRepo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if m == nil {
			return nil, nil, domain.ErrNotFound
		}
		if !m.IsPending() {
			return m, nil, domain.ErrInvalidStateTransition
		}
		return m, []*entity.InventoryMovement{m}, nil
	}

	pair, err := movRepo.ListByLinkForUpdate(ctx, m.LinkID)
	if err != nil {
		return nil, nil, err
	}
	var target *entity.InventoryMovement
	for _, p := range pair {
		if p.ID == m.ID {
			target = p
		}
	}
	if target == nil {
		return nil, nil, errors.New("traslado sin su mitad solicitada")
	}
	for _, p := range pair {
		if !p.IsPending() {
			return target, nil, domain.ErrInvalidStateTransition
		}
	}
	return target, pair, nil
}
