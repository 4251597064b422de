package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
	"github.com/shopspring/decimal"
)

var _ MovementPoster = (*LedgerUseCase)(nil)

// LedgerConfig parámetros del motor de KARDEX.
type LedgerConfig struct {
	DefaultWarehouseID string // almacén usado cuando el productor no envía almacen_id
	AllowNegativeStock bool   // backorders: permite que una SALIDA deje saldo negativo
}

// LedgerUseCase admite y confirma movimientos de inventario. La confirmación bloquea la
// fila del producto (SELECT FOR UPDATE) para serializar los movimientos del mismo producto.
type LedgerUseCase struct {
	txRunner      TxRunner
	registry      *inventory.Registry
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	publisher     EventPublisher
	cfg           LedgerConfig
	log           *logger.Logger
	now           func() time.Time
}

// NewLedgerUseCase construye el caso de uso. publisher puede ser nil.
func NewLedgerUseCase(
	txRunner TxRunner,
	registry *inventory.Registry,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	publisher EventPublisher,
	cfg LedgerConfig,
	log *logger.Logger,
) *LedgerUseCase {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner:      txRunner,
		registry:      registry,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		publisher:     publisher,
		cfg:           cfg,
		log:           log,
		now:           time.Now,
	}
}

// MovementInputDTO entrada para registrar un movimiento en el KARDEX.
// Para TRANSFERENCIA: WarehouseID es el origen y TargetWarehouseID el destino.
// UnitPrice nil significa "usar el costo promedio del producto al confirmar".
// RequiresAuthorization nil sigue al tipo; true fuerza PENDIENTE; false sobre un tipo
// que exige autorización es un intento de saltar la aprobación.
type MovementInputDTO struct {
	UserID                string
	ProductID             string
	WarehouseID           string
	TargetWarehouseID     string
	TypeCode              string
	Quantity              decimal.Decimal
	UnitPrice             *decimal.Decimal
	Reason                string
	Notes                 string
	DocumentNumber        string
	ReferenceDocument     string
	RequiresAuthorization *bool
}

// Registry expone el catálogo de tipos de movimiento.
func (uc *LedgerUseCase) Registry() *inventory.Registry {
	return uc.registry
}

// PostMovement admite un movimiento. Si el tipo requiere autorización queda PENDIENTE sin
// tocar el stock; si no, se confirma en la misma llamada y queda APROBADO.
// Para un traslado devuelve la mitad de salida; la de entrada comparte LinkID.
func (uc *LedgerUseCase) PostMovement(ctx context.Context, input MovementInputDTO) (*entity.InventoryMovement, error) {
	mt, qty, err := uc.validate(&input)
	if err != nil {
		return nil, err
	}

	requiresAuth := mt.RequiresAuthorization
	if input.RequiresAuthorization != nil {
		if !*input.RequiresAuthorization && mt.RequiresAuthorization {
			return nil, domain.ErrAuthorizationRequired
		}
		requiresAuth = requiresAuth || *input.RequiresAuthorization
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.ensureWarehouse(ctx, input.WarehouseID); err != nil {
		return nil, err
	}
	if mt.IsTransfer() {
		if err := uc.ensureWarehouse(ctx, input.TargetWarehouseID); err != nil {
			return nil, err
		}
	}

	movs := uc.buildMovements(input, mt, qty)

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		if requiresAuth {
			return uc.admitPending(ctx, movRepo, stockRepo, productRepo, movs, mt)
		}
		return uc.commit(ctx, movRepo, stockRepo, productRepo, movs, mt, false)
	})
	if err != nil {
		uc.logFailure(err, movs[0])
		return nil, err
	}

	uc.log.Info().
		Str("movimiento_id", movs[0].ID).
		Str("producto_id", movs[0].ProductID).
		Str("tipo_movimiento", movs[0].TypeCode).
		Str("estado", movs[0].Status).
		Int64("stock_anterior", movs[0].StockBefore).
		Int64("stock_nuevo", movs[0].StockAfter).
		Msg("movimiento registrado")
	for _, m := range movs {
		uc.publisher.Publish(ctx, MovementEvent{Type: EventMovementCreated, Movement: m})
	}
	return movs[0], nil
}

// validate normaliza la entrada y resuelve el tipo. Devuelve la cantidad como entero.
func (uc *LedgerUseCase) validate(input *MovementInputDTO) (entity.MovementType, int64, error) {
	input.ProductID = strings.TrimSpace(input.ProductID)
	input.WarehouseID = strings.TrimSpace(input.WarehouseID)
	input.TargetWarehouseID = strings.TrimSpace(input.TargetWarehouseID)
	input.DocumentNumber = strings.TrimSpace(input.DocumentNumber)

	if input.UserID == "" {
		return entity.MovementType{}, 0, domain.ErrUnauthorized
	}
	if input.ProductID == "" {
		return entity.MovementType{}, 0, domain.NewValidationError("producto_id", "es requerido")
	}
	if strings.TrimSpace(input.TypeCode) == "" {
		return entity.MovementType{}, 0, domain.NewValidationError("tipo_movimiento", "es requerido")
	}
	qty, err := ParseQuantity(input.Quantity)
	if err != nil {
		return entity.MovementType{}, 0, err
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return entity.MovementType{}, 0, domain.NewValidationError("precio_unitario", "no puede ser negativo")
	}

	mt, err := uc.registry.Resolve(input.TypeCode)
	if err != nil {
		return entity.MovementType{}, 0, domain.NewValidationError("tipo_movimiento", "tipo de movimiento desconocido: "+input.TypeCode)
	}
	input.TypeCode = mt.Code

	if mt.RequiresDocument && input.DocumentNumber == "" {
		return entity.MovementType{}, 0, domain.NewValidationError("numero_documento", "es requerido para el tipo "+mt.Code)
	}
	if input.WarehouseID == "" {
		input.WarehouseID = uc.cfg.DefaultWarehouseID
	}
	if input.WarehouseID == "" {
		return entity.MovementType{}, 0, domain.NewValidationError("almacen_id", "es requerido")
	}
	if mt.IsTransfer() {
		if input.TargetWarehouseID == "" {
			return entity.MovementType{}, 0, domain.NewValidationError("almacen_destino_id", "es requerido para traslados")
		}
		if input.TargetWarehouseID == input.WarehouseID {
			return entity.MovementType{}, 0, domain.NewValidationError("almacen_destino_id", "debe ser distinto del almacén origen")
		}
	}
	return mt, qty, nil
}

// ParseQuantity exige un entero positivo no mayor que inventory.MaxQuantity: rechaza
// fracciones, cero y negativos.
func ParseQuantity(q decimal.Decimal) (int64, error) {
	if !q.IsInteger() {
		return 0, domain.NewValidationError("cantidad", "debe ser un número entero")
	}
	if q.Sign() <= 0 {
		return 0, domain.NewValidationError("cantidad", "debe ser mayor que cero")
	}
	if q.GreaterThan(decimal.NewFromInt(inventory.MaxQuantity)) {
		return 0, domain.NewValidationError("cantidad", fmt.Sprintf("no puede superar %d", inventory.MaxQuantity))
	}
	return q.IntPart(), nil
}

func (uc *LedgerUseCase) ensureWarehouse(ctx context.Context, id string) error {
	wh, err := uc.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if wh == nil || !wh.Active {
		return domain.ErrNotFound
	}
	return nil
}

// buildMovements arma la fila (o las dos filas enlazadas de un traslado) sin saldos.
func (uc *LedgerUseCase) buildMovements(input MovementInputDTO, mt entity.MovementType, qty int64) []*entity.InventoryMovement {
	now := uc.now()
	base := entity.InventoryMovement{
		ProductID:         input.ProductID,
		WarehouseID:       input.WarehouseID,
		TypeCode:          mt.Code,
		Operation:         mt.Operation,
		Quantity:          qty,
		PriceSource:       entity.PriceSourceAverageCost,
		ReferenceDocument: input.ReferenceDocument,
		DocumentNumber:    input.DocumentNumber,
		Date:              now,
		CreatedBy:         input.UserID,
		Reason:            strings.TrimSpace(input.Reason),
		Notes:             strings.TrimSpace(input.Notes),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if input.UnitPrice != nil {
		base.UnitPrice = *input.UnitPrice
		base.PriceSource = entity.PriceSourceRequested
	}
	if base.ReferenceDocument == "" {
		base.ReferenceDocument = mt.Code
	}

	if !mt.IsTransfer() {
		m := base
		m.ID = uuid.New().String()
		return []*entity.InventoryMovement{&m}
	}

	linkID := uuid.New().String()
	out := base
	out.ID = uuid.New().String()
	out.Operation = entity.OperationSalida
	out.LinkID = linkID
	out.TargetWarehouseID = input.TargetWarehouseID

	in := base
	in.ID = uuid.New().String()
	in.Operation = entity.OperationEntrada
	in.WarehouseID = input.TargetWarehouseID
	in.LinkID = linkID
	in.TargetWarehouseID = input.WarehouseID
	return []*entity.InventoryMovement{&out, &in}
}

// admitPending guarda los movimientos en PENDIENTE. stock_anterior se toma del saldo
// actual y stock_nuevo es solo el valor provisional que ve el solicitante: puede quedar
// en negativo, la suficiencia se valida al aprobar.
func (uc *LedgerUseCase) admitPending(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	movs []*entity.InventoryMovement,
	mt entity.MovementType,
) error {
	product, err := productRepo.GetByID(ctx, movs[0].ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	for _, m := range movs {
		stock, err := stockRepo.Get(ctx, m.ProductID, m.WarehouseID)
		if err != nil {
			return err
		}
		after, err := provisionalBalance(stock.Quantity, m, mt)
		if err != nil {
			return withLocation(err, m)
		}
		m.StockBefore = stock.Quantity
		m.StockAfter = after
		if m.PriceSource == entity.PriceSourceAverageCost {
			m.UnitPrice = product.Cost
		}
		m.TotalCost = m.UnitPrice.Mul(decimal.NewFromInt(m.Quantity))
		m.Status = entity.MovementStatusPending
		if err := movRepo.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// commit es el único camino que escribe stock_actual y costo_promedio. Bloquea el
// producto, vuelve a leer los saldos bajo el bloqueo, recalcula y escribe todo en la
// misma transacción. pending indica que las filas ya existen en PENDIENTE.
func (uc *LedgerUseCase) commit(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	movs []*entity.InventoryMovement,
	mt entity.MovementType,
	pending bool,
) error {
	product, err := productRepo.GetForUpdate(ctx, movs[0].ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	newCost := product.Cost
	newProductStock := product.Stock
	for _, m := range movs {
		stock, err := stockRepo.GetForUpdate(ctx, m.ProductID, m.WarehouseID)
		if err != nil {
			return err
		}
		after, err := uc.balanceFor(stock.Quantity, m, mt)
		if err != nil {
			return withLocation(err, m)
		}
		if m.PriceSource == entity.PriceSourceAverageCost {
			m.UnitPrice = product.Cost
		}
		m.TotalCost = m.UnitPrice.Mul(decimal.NewFromInt(m.Quantity))
		m.StockBefore = stock.Quantity
		m.StockAfter = after

		// costo_promedio es del producto: pondera con el stock total, no con el del almacén
		if !m.IsTransfer() && inventory.ChangesAverageCost(m.Operation, mt.AffectsStock, m.UnitPrice) {
			newCost = inventory.ComputeNewAverageCost(newCost, newProductStock, m.Quantity, m.UnitPrice)
		}
		if mt.AffectsStock {
			newProductStock, err = inventory.AddToTotal(newProductStock, after-stock.Quantity)
			if err != nil {
				return err
			}
			stock.Quantity = after
			stock.UpdatedAt = uc.now()
			if err := stockRepo.Upsert(ctx, stock); err != nil {
				return err
			}
		}
	}

	if mt.AffectsStock {
		if err := productRepo.UpdateStockAndCost(ctx, product.ID, newProductStock, newCost); err != nil {
			return err
		}
	}

	for _, m := range movs {
		seq, err := movRepo.NextSequence(ctx)
		if err != nil {
			return err
		}
		m.Sequence = seq
		m.Status = entity.MovementStatusApproved
		m.UpdatedAt = uc.now()
		if pending {
			err = movRepo.Finalize(ctx, m)
		} else {
			err = movRepo.Create(ctx, m)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// balanceFor aplica la dirección efectiva de la fila (las mitades de un traslado son
// SALIDA/ENTRADA) respetando afecta_stock del tipo.
func (uc *LedgerUseCase) balanceFor(before int64, m *entity.InventoryMovement, mt entity.MovementType) (int64, error) {
	rowType := mt
	rowType.Operation = m.Operation
	return inventory.ApplyMovement(before, m.Quantity, rowType, uc.cfg.AllowNegativeStock)
}

func provisionalBalance(before int64, m *entity.InventoryMovement, mt entity.MovementType) (int64, error) {
	rowType := mt
	rowType.Operation = m.Operation
	return inventory.ApplyMovement(before, m.Quantity, rowType, true)
}

func withLocation(err error, m *entity.InventoryMovement) error {
	var ise *domain.InsufficientStockError
	if errors.As(err, &ise) {
		ise.ProductID = m.ProductID
		ise.WarehouseID = m.WarehouseID
	}
	return err
}

func (uc *LedgerUseCase) logFailure(err error, m *entity.InventoryMovement) {
	var ise *domain.InsufficientStockError
	switch {
	case errors.As(err, &ise):
		uc.log.Warn().
			Str("producto_id", ise.ProductID).
			Str("almacen_id", ise.WarehouseID).
			Int64("disponible", ise.Available).
			Int64("solicitado", ise.Requested).
			Msg("stock insuficiente")
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidStateTransition):
	default:
		uc.log.Error().Err(err).
			Str("movimiento_id", m.ID).
			Str("producto_id", m.ProductID).
			Msg("error registrando movimiento")
	}
}
