package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.KardexReader = (*KardexQueryRepo)(nil)

// KardexQueryRepo consultas de solo lectura del KARDEX (listados, resumen, tarjeta).
type KardexQueryRepo struct {
	q       Querier
	builder squirrel.StatementBuilderType
}

// NewKardexQueryRepository construye el lector sobre el pool.
func NewKardexQueryRepository(q Querier) *KardexQueryRepo {
	return &KardexQueryRepo{
		q:       q,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var movementSelect = []string{
	"m.id", "m.producto_id", "m.almacen_id",
	"COALESCE(m.almacen_destino_id::text, '') AS almacen_destino_id",
	"COALESCE(m.link_id::text, '') AS link_id",
	"m.tipo_movimiento", "m.tipo_operacion", "m.cantidad", "m.precio_unitario", "m.origen_precio",
	"m.costo_total", "m.stock_anterior", "m.stock_nuevo", "m.documento_referencia",
	"COALESCE(m.numero_documento, '') AS numero_documento",
	"m.fecha_movimiento", "m.usuario_id",
	"COALESCE(m.autorizado_por::text, '') AS autorizado_por",
	"m.fecha_autorizacion",
	"COALESCE(m.motivo_movimiento, '') AS motivo_movimiento",
	"COALESCE(m.motivo_rechazo, '') AS motivo_rechazo",
	"COALESCE(m.observaciones, '') AS observaciones",
	"m.estado_movimiento",
	"COALESCE(m.secuencia, 0) AS secuencia",
	"m.created_at", "m.updated_at",
}

var viewSelect = append(append([]string(nil), movementSelect...),
	"p.sku AS producto_sku",
	"p.name AS producto_nombre",
	"p.stock AS producto_stock",
	"p.cost AS producto_costo",
	"COALESCE(u.name, '') AS usuario_nombre",
	"COALESCE(u.email, '') AS usuario_email",
	"COALESCE(a.name, '') AS autorizador_nombre",
	"COALESCE(a.email, '') AS autorizador_email",
)

type movementRow struct {
	ID                string          `db:"id"`
	ProductID         string          `db:"producto_id"`
	WarehouseID       string          `db:"almacen_id"`
	TargetWarehouseID string          `db:"almacen_destino_id"`
	LinkID            string          `db:"link_id"`
	TypeCode          string          `db:"tipo_movimiento"`
	Operation         string          `db:"tipo_operacion"`
	Quantity          int64           `db:"cantidad"`
	UnitPrice         decimal.Decimal `db:"precio_unitario"`
	PriceSource       string          `db:"origen_precio"`
	TotalCost         decimal.Decimal `db:"costo_total"`
	StockBefore       int64           `db:"stock_anterior"`
	StockAfter        int64           `db:"stock_nuevo"`
	ReferenceDocument string          `db:"documento_referencia"`
	DocumentNumber    string          `db:"numero_documento"`
	Date              time.Time       `db:"fecha_movimiento"`
	CreatedBy         string          `db:"usuario_id"`
	AuthorizedBy      string          `db:"autorizado_por"`
	AuthorizedAt      *time.Time      `db:"fecha_autorizacion"`
	Reason            string          `db:"motivo_movimiento"`
	RejectionReason   string          `db:"motivo_rechazo"`
	Notes             string          `db:"observaciones"`
	Status            string          `db:"estado_movimiento"`
	Sequence          int64           `db:"secuencia"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`

	ProductSKU      string          `db:"producto_sku"`
	ProductName     string          `db:"producto_nombre"`
	ProductStock    int64           `db:"producto_stock"`
	ProductCost     decimal.Decimal `db:"producto_costo"`
	CreatorName     string          `db:"usuario_nombre"`
	CreatorEmail    string          `db:"usuario_email"`
	AuthorizerName  string          `db:"autorizador_nombre"`
	AuthorizerEmail string          `db:"autorizador_email"`
}

func (r movementRow) movement() entity.InventoryMovement {
	return entity.InventoryMovement{
		ID:                r.ID,
		ProductID:         r.ProductID,
		WarehouseID:       r.WarehouseID,
		TargetWarehouseID: r.TargetWarehouseID,
		LinkID:            r.LinkID,
		TypeCode:          r.TypeCode,
		Operation:         r.Operation,
		Quantity:          r.Quantity,
		UnitPrice:         r.UnitPrice,
		PriceSource:       r.PriceSource,
		TotalCost:         r.TotalCost,
		StockBefore:       r.StockBefore,
		StockAfter:        r.StockAfter,
		ReferenceDocument: r.ReferenceDocument,
		DocumentNumber:    r.DocumentNumber,
		Date:              r.Date,
		CreatedBy:         r.CreatedBy,
		AuthorizedBy:      r.AuthorizedBy,
		AuthorizedAt:      r.AuthorizedAt,
		Reason:            r.Reason,
		RejectionReason:   r.RejectionReason,
		Notes:             r.Notes,
		Status:            r.Status,
		Sequence:          r.Sequence,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func (r movementRow) view() repository.MovementView {
	v := repository.MovementView{
		Movement: r.movement(),
		Product: entity.Product{
			ID:    r.ProductID,
			SKU:   r.ProductSKU,
			Name:  r.ProductName,
			Stock: r.ProductStock,
			Cost:  r.ProductCost,
		},
		CreatedBy: entity.User{ID: r.CreatedBy, Name: r.CreatorName, Email: r.CreatorEmail},
	}
	if r.AuthorizedBy != "" {
		v.AuthorizedBy = &entity.User{ID: r.AuthorizedBy, Name: r.AuthorizerName, Email: r.AuthorizerEmail}
	}
	return v
}

func (r *KardexQueryRepo) fromView(q squirrel.SelectBuilder) squirrel.SelectBuilder {
	return q.From("movimientos_inventario m").
		Join("products p ON p.id = m.producto_id").
		LeftJoin("users u ON u.id = m.usuario_id").
		LeftJoin("users a ON a.id = m.autorizado_por")
}

// ListMovements listado paginado, más recientes primero.
func (r *KardexQueryRepo) ListMovements(ctx context.Context, f repository.MovementFilter) ([]repository.MovementView, int, error) {
	countSQL, countArgs, err := applyMovementFilter(r.fromView(r.builder.Select("COUNT(*)")), f).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	q := applyMovementFilter(r.fromView(r.builder.Select(viewSelect...)), f).
		OrderBy("m.fecha_movimiento DESC", "m.created_at DESC", "m.id DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	views := make([]repository.MovementView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.view())
	}
	return views, total, nil
}

// GetMovement devuelve el movimiento con producto y usuarios, o nil.
func (r *KardexQueryRepo) GetMovement(ctx context.Context, id string) (*repository.MovementView, error) {
	sql, args, err := r.fromView(r.builder.Select(viewSelect...)).Where(squirrel.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}
	var row movementRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	v := row.view()
	return &v, nil
}

type statusCountRow struct {
	Status string `db:"estado_movimiento"`
	Total  int64  `db:"total"`
}

type typeTotalRow struct {
	TypeCode  string          `db:"tipo_movimiento"`
	Operation string          `db:"tipo_operacion"`
	Total     int64           `db:"total"`
	Quantity  int64           `db:"cantidad"`
	TotalCost decimal.Decimal `db:"costo_total"`
}

// Summary agrega por estado y por tipo. La mitad de entrada de un traslado no se cuenta.
func (r *KardexQueryRepo) Summary(ctx context.Context, f repository.SummaryFilter) (*repository.SummaryResult, error) {
	base := func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		q = q.From("movimientos_inventario m").
			Where("NOT (m.link_id IS NOT NULL AND m.tipo_operacion = ?)", entity.OperationEntrada)
		if f.ProductID != "" {
			q = q.Where(squirrel.Eq{"m.producto_id": f.ProductID})
		}
		return applyDateRange(q, f.From, f.To)
	}

	sql, args, err := base(r.builder.Select("m.estado_movimiento", "COUNT(*) AS total")).
		GroupBy("m.estado_movimiento").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build status summary: %w", err)
	}
	var counts []statusCountRow
	if err := pgxscan.Select(ctx, r.q, &counts, sql, args...); err != nil {
		return nil, fmt.Errorf("summary by status: %w", err)
	}
	res := &repository.SummaryResult{}
	for _, c := range counts {
		switch c.Status {
		case entity.MovementStatusPending:
			res.Pending = c.Total
		case entity.MovementStatusApproved:
			res.Approved = c.Total
		case entity.MovementStatusRejected:
			res.Rejected = c.Total
		}
	}

	sql, args, err = base(r.builder.Select(
		"m.tipo_movimiento",
		"MIN(m.tipo_operacion) AS tipo_operacion",
		"COUNT(*) AS total",
		"COALESCE(SUM(m.cantidad), 0)::bigint AS cantidad",
		"COALESCE(SUM(m.costo_total), 0) AS costo_total",
	)).
		Where(squirrel.Eq{"m.estado_movimiento": entity.MovementStatusApproved}).
		GroupBy("m.tipo_movimiento").
		OrderBy("m.tipo_movimiento").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build type summary: %w", err)
	}
	var totals []typeTotalRow
	if err := pgxscan.Select(ctx, r.q, &totals, sql, args...); err != nil {
		return nil, fmt.Errorf("summary by type: %w", err)
	}
	for _, t := range totals {
		res.ByType = append(res.ByType, repository.TypeTotal{
			TypeCode:  t.TypeCode,
			Operation: t.Operation,
			Count:     t.Total,
			Quantity:  t.Quantity,
			TotalCost: t.TotalCost,
		})
	}
	return res, nil
}

// ProductCard movimientos APROBADOS del producto en orden de finalización.
func (r *KardexQueryRepo) ProductCard(ctx context.Context, f repository.CardFilter) ([]entity.InventoryMovement, error) {
	q := r.builder.Select(movementSelect...).
		From("movimientos_inventario m").
		Where(squirrel.Eq{
			"m.producto_id":       f.ProductID,
			"m.estado_movimiento": entity.MovementStatusApproved,
		})
	if f.WarehouseID != "" {
		q = q.Where(squirrel.Eq{"m.almacen_id": f.WarehouseID})
	}
	sql, args, err := applyDateRange(q, f.From, f.To).OrderBy("m.secuencia").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build card query: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("product card: %w", err)
	}
	out := make([]entity.InventoryMovement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.movement())
	}
	return out, nil
}

func applyMovementFilter(q squirrel.SelectBuilder, f repository.MovementFilter) squirrel.SelectBuilder {
	eq := squirrel.Eq{}
	if f.ProductID != "" {
		eq["m.producto_id"] = f.ProductID
	}
	if f.WarehouseID != "" {
		eq["m.almacen_id"] = f.WarehouseID
	}
	if f.TypeCode != "" {
		eq["m.tipo_movimiento"] = strings.ToUpper(f.TypeCode)
	}
	if f.Status != "" {
		eq["m.estado_movimiento"] = f.Status
	}
	if f.Operation != "" {
		eq["m.tipo_operacion"] = f.Operation
	}
	if len(eq) > 0 {
		q = q.Where(eq)
	}
	if f.AdjustmentsOnly {
		q = q.Where(squirrel.NotEq{"m.tipo_movimiento": inventory.ProducerTypeCodes()})
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pat := "%" + escapeLike(search) + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"p.name": pat},
			squirrel.ILike{"p.sku": pat},
			squirrel.ILike{"m.tipo_movimiento": pat},
			squirrel.ILike{"m.motivo_movimiento": pat},
			squirrel.ILike{"m.observaciones": pat},
			squirrel.ILike{"m.numero_documento": pat},
			squirrel.ILike{"u.name": pat},
		})
	}
	return applyDateRange(q, f.From, f.To)
}

func applyDateRange(q squirrel.SelectBuilder, from, to *time.Time) squirrel.SelectBuilder {
	if from != nil {
		q = q.Where(squirrel.GtOrEq{"m.fecha_movimiento": *from})
	}
	if to != nil {
		q = q.Where(squirrel.LtOrEq{"m.fecha_movimiento": *to})
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
