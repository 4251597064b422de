package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*MovementRepo)(nil)

// MovementRepo log de movimientos. Solo crea, finaliza o rechaza: no hay borrado.
type MovementRepo struct {
	store *Store
	tx    *tx
}

// Create agrega el movimiento al log.
func (r *MovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movements[m.ID]; ok {
		return fmt.Errorf("crear movimiento %s: %w", m.ID, domain.ErrConflict)
	}
	s.movements[m.ID] = *m
	s.order = append(s.order, m.ID)
	id := m.ID
	r.tx.onRollback(func() {
		delete(s.movements, id)
		for i := len(s.order) - 1; i >= 0; i-- {
			if s.order[i] == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	})
	return nil
}

// GetByID devuelve una copia del movimiento o nil.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	m, ok := r.store.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// GetForUpdate bloquea el movimiento hasta el fin de la tx.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	if err := r.tx.lockMovements(ctx, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// ListByLinkForUpdate bloquea las mitades de un traslado en orden de id.
func (r *MovementRepo) ListByLinkForUpdate(ctx context.Context, linkID string) ([]*entity.InventoryMovement, error) {
	if linkID == "" {
		return nil, nil
	}
	r.store.mu.RLock()
	var ids []string
	for _, id := range r.store.order {
		if r.store.movements[id].LinkID == linkID {
			ids = append(ids, id)
		}
	}
	r.store.mu.RUnlock()

	if err := r.tx.lockMovements(ctx, ids...); err != nil {
		return nil, err
	}
	sort.Strings(ids)
	out := make([]*entity.InventoryMovement, 0, len(ids))
	for _, id := range ids {
		m, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Finalize pasa un movimiento PENDIENTE a APROBADO con los saldos confirmados.
func (r *MovementRepo) Finalize(ctx context.Context, m *entity.InventoryMovement) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.movements[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if prev.Status != entity.MovementStatusPending {
		return domain.ErrInvalidStateTransition
	}
	next := prev
	next.UnitPrice = m.UnitPrice
	next.TotalCost = m.TotalCost
	next.StockBefore = m.StockBefore
	next.StockAfter = m.StockAfter
	next.AuthorizedBy = m.AuthorizedBy
	next.AuthorizedAt = m.AuthorizedAt
	next.Sequence = m.Sequence
	next.Status = entity.MovementStatusApproved
	next.UpdatedAt = m.UpdatedAt
	s.movements[m.ID] = next
	r.tx.onRollback(func() { s.movements[prev.ID] = prev })
	return nil
}

// Reject pasa un movimiento PENDIENTE a RECHAZADO.
func (r *MovementRepo) Reject(ctx context.Context, id, rejectedBy, reason string, at time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.movements[id]
	if !ok {
		return domain.ErrNotFound
	}
	if prev.Status != entity.MovementStatusPending {
		return domain.ErrInvalidStateTransition
	}
	next := prev
	next.Status = entity.MovementStatusRejected
	next.AuthorizedBy = rejectedBy
	next.AuthorizedAt = &at
	next.RejectionReason = reason
	next.UpdatedAt = at
	s.movements[id] = next
	r.tx.onRollback(func() { s.movements[id] = prev })
	return nil
}

// NextSequence como una secuencia de PostgreSQL: no retrocede en rollback.
func (r *MovementRepo) NextSequence(ctx context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.seq++
	return r.store.seq, nil
}
