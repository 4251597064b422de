package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// movementColumns columnas de movimientos_inventario en el orden de scanMovement.
const movementColumns = `
	m.id, m.producto_id, m.almacen_id, COALESCE(m.almacen_destino_id::text, ''), COALESCE(m.link_id::text, ''),
	m.tipo_movimiento, m.tipo_operacion, m.cantidad, m.precio_unitario, m.origen_precio, m.costo_total,
	m.stock_anterior, m.stock_nuevo, m.documento_referencia, COALESCE(m.numero_documento, ''),
	m.fecha_movimiento, m.usuario_id, COALESCE(m.autorizado_por::text, ''), m.fecha_autorizacion,
	COALESCE(m.motivo_movimiento, ''), COALESCE(m.motivo_rechazo, ''), COALESCE(m.observaciones, ''),
	m.estado_movimiento, COALESCE(m.secuencia, 0), m.created_at, m.updated_at`

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimientos_inventario (
			id, producto_id, almacen_id, almacen_destino_id, link_id, tipo_movimiento, tipo_operacion,
			cantidad, precio_unitario, origen_precio, costo_total, stock_anterior, stock_nuevo,
			documento_referencia, numero_documento, fecha_movimiento, usuario_id, autorizado_por,
			fecha_autorizacion, motivo_movimiento, observaciones, estado_movimiento, secuencia,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.WarehouseID, nullIfEmpty(m.TargetWarehouseID), nullIfEmpty(m.LinkID),
		m.TypeCode, m.Operation, m.Quantity, m.UnitPrice, m.PriceSource, m.TotalCost,
		m.StockBefore, m.StockAfter, m.ReferenceDocument, nullIfEmpty(m.DocumentNumber),
		m.Date, m.CreatedBy, nullIfEmpty(m.AuthorizedBy), m.AuthorizedAt,
		nullIfEmpty(m.Reason), nullIfEmpty(m.Notes), m.Status, nullIfZero(m.Sequence),
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create inventory movement %s: %w", m.ID, domain.ErrConflict)
		}
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movimientos_inventario m WHERE m.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get inventory movement: %w", err)
	}
	return m, nil
}

// GetForUpdate obtiene el movimiento bloqueando su fila.
func (r *InventoryMovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx,
		`SELECT `+movementColumns+` FROM movimientos_inventario m WHERE m.id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("get inventory movement for update: %w", err)
	}
	return m, nil
}

// ListByLinkForUpdate bloquea las mitades de un traslado en orden de id, el mismo orden
// para cualquier tx que las toque.
func (r *InventoryMovementRepo) ListByLinkForUpdate(ctx context.Context, linkID string) ([]*entity.InventoryMovement, error) {
	if linkID == "" {
		return nil, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+movementColumns+` FROM movimientos_inventario m WHERE m.link_id = $1 ORDER BY m.id FOR UPDATE`, linkID)
	if err != nil {
		return nil, fmt.Errorf("list movements by link: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Finalize pasa el movimiento a APROBADO. El WHERE sobre el estado hace que dos
// finalizaciones concurrentes no puedan ganar ambas.
func (r *InventoryMovementRepo) Finalize(ctx context.Context, m *entity.InventoryMovement) error {
	query := `
		UPDATE movimientos_inventario SET
			precio_unitario = $2, costo_total = $3, stock_anterior = $4, stock_nuevo = $5,
			autorizado_por = $6, fecha_autorizacion = $7, secuencia = $8,
			estado_movimiento = 'APROBADO', updated_at = $9
		WHERE id = $1 AND estado_movimiento = 'PENDIENTE'`
	cmd, err := r.q.Exec(ctx, query,
		m.ID, m.UnitPrice, m.TotalCost, m.StockBefore, m.StockAfter,
		nullIfEmpty(m.AuthorizedBy), m.AuthorizedAt, nullIfZero(m.Sequence), m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("finalize inventory movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.missingOrFinal(ctx, m.ID)
	}
	return nil
}

// Reject pasa el movimiento a RECHAZADO sin tocar saldos.
func (r *InventoryMovementRepo) Reject(ctx context.Context, id, rejectedBy, reason string, at time.Time) error {
	query := `
		UPDATE movimientos_inventario SET
			estado_movimiento = 'RECHAZADO', autorizado_por = $2, fecha_autorizacion = $3,
			motivo_rechazo = $4, updated_at = $3
		WHERE id = $1 AND estado_movimiento = 'PENDIENTE'`
	cmd, err := r.q.Exec(ctx, query, id, nullIfEmpty(rejectedBy), at, reason)
	if err != nil {
		return fmt.Errorf("reject inventory movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.missingOrFinal(ctx, id)
	}
	return nil
}

// NextSequence toma el siguiente valor de la secuencia de finalización.
func (r *InventoryMovementRepo) NextSequence(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('movimientos_inventario_secuencia')`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next kardex sequence: %w", err)
	}
	return seq, nil
}

func (r *InventoryMovementRepo) missingOrFinal(ctx context.Context, id string) error {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movimientos_inventario WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check inventory movement: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrInvalidStateTransition
}

// scanMovement devuelve nil, nil si no hay fila.
func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	err := row.Scan(
		&m.ID, &m.ProductID, &m.WarehouseID, &m.TargetWarehouseID, &m.LinkID,
		&m.TypeCode, &m.Operation, &m.Quantity, &m.UnitPrice, &m.PriceSource, &m.TotalCost,
		&m.StockBefore, &m.StockAfter, &m.ReferenceDocument, &m.DocumentNumber,
		&m.Date, &m.CreatedBy, &m.AuthorizedBy, &m.AuthorizedAt,
		&m.Reason, &m.RejectionReason, &m.Notes,
		&m.Status, &m.Sequence, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}
