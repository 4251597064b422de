package kardex

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// QueryUseCase es la fachada de lectura del KARDEX: listados, resumen y tarjeta por
// producto. Solo depende de repository.KardexReader, que no tiene métodos de escritura.
type QueryUseCase struct {
	reader      repository.KardexReader
	productRepo repository.ProductRepository
	registry    *inventory.Registry
}

// NewQueryUseCase construye la fachada de consultas.
func NewQueryUseCase(reader repository.KardexReader, productRepo repository.ProductRepository, registry *inventory.Registry) *QueryUseCase {
	return &QueryUseCase{reader: reader, productRepo: productRepo, registry: registry}
}

// MovementQuery filtros de listado recibidos por HTTP.
type MovementQuery struct {
	dto.PageRequest
	ProductID       string
	WarehouseID     string
	TypeCode        string
	Status          string
	Search          string
	From            *time.Time
	To              *time.Time
	AdjustmentsOnly bool
}

var validStatuses = map[string]bool{
	entity.MovementStatusPending:  true,
	entity.MovementStatusApproved: true,
	entity.MovementStatusRejected: true,
}

// ListMovements devuelve una página de movimientos con producto y usuarios anidados.
func (uc *QueryUseCase) ListMovements(ctx context.Context, q MovementQuery) (*dto.MovementPage, error) {
	q.DefaultPage()
	status := strings.ToUpper(strings.TrimSpace(q.Status))
	if status != "" && !validStatuses[status] {
		return nil, domain.NewValidationError("estado_movimiento", "valor no válido: "+q.Status)
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, domain.NewValidationError("fecha_fin", "no puede ser anterior a fecha_inicio")
	}

	views, total, err := uc.reader.ListMovements(ctx, repository.MovementFilter{
		ProductID:       q.ProductID,
		WarehouseID:     q.WarehouseID,
		TypeCode:        strings.ToUpper(strings.TrimSpace(q.TypeCode)),
		Status:          status,
		AdjustmentsOnly: q.AdjustmentsOnly,
		Search:          strings.TrimSpace(q.Search),
		From:            q.From,
		To:              q.To,
		Limit:           q.Limit,
		Offset:          q.Offset(),
	})
	if err != nil {
		return nil, err
	}

	data := make([]dto.MovementResponse, 0, len(views))
	for _, v := range views {
		data = append(data, toMovementView(v))
	}
	return &dto.MovementPage{Data: data, Pagination: dto.NewPageResponse(q.PageRequest, total)}, nil
}

// GetMovement devuelve un movimiento con sus datos anidados.
func (uc *QueryUseCase) GetMovement(ctx context.Context, id string) (*dto.MovementResponse, error) {
	v, err := uc.reader.GetMovement(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	out := toMovementView(*v)
	return &out, nil
}

// Summary agrega el log por tipo y dirección en el rango indicado. Es idempotente:
// sobre un log sin cambios devuelve siempre los mismos totales.
func (uc *QueryUseCase) Summary(ctx context.Context, productID string, from, to *time.Time) (*dto.KardexSummary, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.NewValidationError("fecha_fin", "no puede ser anterior a fecha_inicio")
	}
	res, err := uc.reader.Summary(ctx, repository.SummaryFilter{ProductID: productID, From: from, To: to})
	if err != nil {
		return nil, err
	}

	out := &dto.KardexSummary{
		From:      from,
		To:        to,
		ProductID: productID,
		ByType:    make([]dto.TypeTotalDTO, 0, len(res.ByType)),
		Entradas:  dto.DirectionTotalDTO{TotalCost: decimal.Zero},
		Salidas:   dto.DirectionTotalDTO{TotalCost: decimal.Zero},
		Transfers: dto.DirectionTotalDTO{TotalCost: decimal.Zero},
		Pending:   res.Pending,
		Approved:  res.Approved,
		Rejected:  res.Rejected,
	}
	for _, tt := range res.ByType {
		op := uc.operationOf(tt)
		out.ByType = append(out.ByType, dto.TypeTotalDTO{
			TypeCode:  tt.TypeCode,
			Operation: op,
			Count:     tt.Count,
			Quantity:  tt.Quantity,
			TotalCost: tt.TotalCost,
		})
		var dir *dto.DirectionTotalDTO
		switch op {
		case entity.OperationEntrada:
			dir = &out.Entradas
		case entity.OperationSalida:
			dir = &out.Salidas
		default:
			dir = &out.Transfers
		}
		dir.Count += tt.Count
		dir.Quantity += tt.Quantity
		dir.TotalCost = dir.TotalCost.Add(tt.TotalCost)
	}
	sort.Slice(out.ByType, func(i, j int) bool { return out.ByType[i].TypeCode < out.ByType[j].TypeCode })
	return out, nil
}

// operationOf toma la dirección del catálogo; si el tipo ya no está activo usa el
// prefijo del código.
func (uc *QueryUseCase) operationOf(tt repository.TypeTotal) string {
	if t, err := uc.registry.Resolve(tt.TypeCode); err == nil {
		return t.Operation
	}
	for _, op := range []string{entity.OperationTransferencia, entity.OperationEntrada, entity.OperationSalida} {
		if strings.HasPrefix(tt.TypeCode, op+"_") {
			return op
		}
	}
	return tt.Operation
}

// ProductCard arma la tarjeta KARDEX de un producto: movimientos APROBADOS en orden de
// finalización con entradas, salidas y saldo.
func (uc *QueryUseCase) ProductCard(ctx context.Context, productID, warehouseID string, from, to *time.Time) (*dto.KardexCard, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	movs, err := uc.reader.ProductCard(ctx, repository.CardFilter{
		ProductID:   productID,
		WarehouseID: warehouseID,
		From:        from,
		To:          to,
	})
	if err != nil {
		return nil, err
	}

	card := &dto.KardexCard{Product: toProductSummary(*product), Lines: make([]dto.KardexCardLine, 0, len(movs))}
	for _, m := range movs {
		line := dto.KardexCardLine{
			Sequence:    m.Sequence,
			MovementID:  m.ID,
			Date:        m.Date,
			WarehouseID: m.WarehouseID,
			TypeCode:    m.TypeCode,
			Operation:   m.Operation,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			UnitPrice:   m.UnitPrice,
			TotalCost:   m.TotalCost,
			Document:    m.DocumentNumber,
		}
		if m.Operation == entity.OperationSalida {
			line.QuantityOut = m.Quantity
		} else {
			line.QuantityIn = m.Quantity
		}
		card.Lines = append(card.Lines, line)
	}
	return card, nil
}

// MovementTypes devuelve el catálogo activo.
func (uc *QueryUseCase) MovementTypes() []dto.MovementTypeResponse {
	types := uc.registry.List()
	out := make([]dto.MovementTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, ToMovementTypeResponse(t))
	}
	return out
}
