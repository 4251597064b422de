package kardex_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	ledger   *inventory.LedgerUseCase
	approval *inventory.ApprovalUseCase
	query    *kardex.QueryUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	store.AddWarehouse(entity.Warehouse{ID: "wh-1", Name: "Principal", Active: true})
	store.AddWarehouse(entity.Warehouse{ID: "wh-2", Name: "Sucursal", Active: true})
	store.AddUser(entity.User{ID: "u-bodega", Name: "Luisa Pérez", Email: "luisa@example.com"})
	store.AddUser(entity.User{ID: "u-super", Name: "Supervisor"})
	products := memory.NewProductRepository(store)
	require.NoError(t, products.Create(context.Background(), &entity.Product{ID: "p-1", SKU: "CAF-500", Name: "Café molido", Cost: decimal.NewFromInt(10), MinStock: 5, MaxStock: 100}))
	require.NoError(t, store.SeedStock("p-1", "wh-1", 50))

	registry := domaininv.NewRegistry(domaininv.DefaultMovementTypes()...)
	ledger := inventory.NewLedgerUseCase(memory.NewTxRunner(store), registry, products, memory.NewWarehouseRepository(store), nil, inventory.LedgerConfig{DefaultWarehouseID: "wh-1"}, nil)
	return &env{
		ledger:   ledger,
		approval: inventory.NewApprovalUseCase(ledger),
		query:    kardex.NewQueryUseCase(memory.NewKardexReader(store), products, registry),
	}
}

func (e *env) post(t *testing.T, code string, qty int64, mutate ...func(*inventory.MovementInputDTO)) *entity.InventoryMovement {
	t.Helper()
	in := inventory.MovementInputDTO{UserID: "u-bodega", ProductID: "p-1", TypeCode: code, Quantity: decimal.NewFromInt(qty), DocumentNumber: "DOC-1"}
	for _, m := range mutate {
		m(&in)
	}
	m, err := e.ledger.PostMovement(context.Background(), in)
	require.NoError(t, err)
	return m
}

// scenario: +10 aprobado, merma 5 pendiente→aprobada, merma 3 rechazada, traslado 4.
func (e *env) scenario(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	e.post(t, "ENTRADA_AJUSTE_POSITIVO", 10)
	m := e.post(t, "SALIDA_MERMA", 5)
	_, err := e.approval.Approve(ctx, m.ID, "u-super")
	require.NoError(t, err)
	r := e.post(t, "SALIDA_MERMA", 3)
	_, err = e.approval.Reject(ctx, r.ID, "u-super", "conteo erróneo")
	require.NoError(t, err)
	e.post(t, "TRANSFERENCIA_ALMACEN", 4, func(in *inventory.MovementInputDTO) { in.TargetWarehouseID = "wh-2" })
	e.post(t, "SALIDA_MERMA", 2)
}

func TestListMovements_DatosAnidados(t *testing.T) {
	e := newEnv(t)
	e.scenario(t)

	page, err := e.query.ListMovements(context.Background(), kardex.MovementQuery{Status: "rechazado"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	got := page.Data[0]
	assert.Equal(t, entity.MovementStatusRejected, got.Status)
	assert.Equal(t, "conteo erróneo", got.RejectionReason)
	require.NotNil(t, got.Product)
	assert.Equal(t, "Café molido", got.Product.Name)
	require.NotNil(t, got.User)
	assert.Equal(t, "Luisa Pérez", got.User.Name)
	require.NotNil(t, got.Authorizer)
	assert.Equal(t, "Supervisor", got.Authorizer.Name)
	assert.Equal(t, dto.PageResponse{Page: 1, Limit: 20, Total: 1, TotalPages: 1}, page.Pagination)
}

func TestListMovements_SoloAjustesYBusqueda(t *testing.T) {
	e := newEnv(t)
	e.scenario(t)

	page, err := e.query.ListMovements(context.Background(), kardex.MovementQuery{AdjustmentsOnly: true, PageRequest: dto.PageRequest{Page: 1, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Pagination.Total, "el traslado no es un ajuste")
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Len(t, page.Data, 2)

	page, err = e.query.ListMovements(context.Background(), kardex.MovementQuery{Search: "cafe"})
	require.NoError(t, err)
	assert.Equal(t, 6, page.Pagination.Total)
}

func TestListMovements_FiltrosInvalidos(t *testing.T) {
	e := newEnv(t)
	_, err := e.query.ListMovements(context.Background(), kardex.MovementQuery{Status: "BORRADO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	from := time.Now()
	to := from.Add(-time.Hour)
	_, err = e.query.ListMovements(context.Background(), kardex.MovementQuery{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListMovements_PaginaFueraDeRango(t *testing.T) {
	e := newEnv(t)
	e.scenario(t)

	page, err := e.query.ListMovements(context.Background(), kardex.MovementQuery{
		PageRequest: dto.PageRequest{Page: math.MaxInt / 10, Limit: 20},
	})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, 6, page.Pagination.Total)
	assert.Equal(t, math.MaxInt/20, page.Pagination.Page)

	page, err = e.query.ListMovements(context.Background(), kardex.MovementQuery{
		PageRequest: dto.PageRequest{Page: 2, Limit: 5},
	})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
}

func TestGetMovement(t *testing.T) {
	e := newEnv(t)
	m := e.post(t, "ENTRADA_AJUSTE_POSITIVO", 1)

	got, err := e.query.GetMovement(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, int64(51), got.StockAfter)

	_, err = e.query.GetMovement(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSummary_PorDireccionEIdempotente(t *testing.T) {
	e := newEnv(t)
	e.scenario(t)
	ctx := context.Background()

	first, err := e.query.Summary(ctx, "p-1", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Entradas.Count)
	assert.Equal(t, int64(10), first.Entradas.Quantity)
	assert.Equal(t, int64(1), first.Salidas.Count, "solo la merma aprobada")
	assert.Equal(t, int64(5), first.Salidas.Quantity)
	assert.True(t, first.Salidas.TotalCost.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, int64(1), first.Transfers.Count)
	assert.Equal(t, int64(4), first.Transfers.Quantity)
	assert.Equal(t, int64(3), first.Approved)
	assert.Equal(t, int64(1), first.Pending)
	assert.Equal(t, int64(1), first.Rejected)

	codes := make([]string, 0, len(first.ByType))
	for _, tt := range first.ByType {
		codes = append(codes, tt.TypeCode)
	}
	assert.Equal(t, []string{"ENTRADA_AJUSTE_POSITIVO", "SALIDA_MERMA", "TRANSFERENCIA_ALMACEN"}, codes)

	second, err := e.query.Summary(ctx, "p-1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSummary_RangoFuturoVacio(t *testing.T) {
	e := newEnv(t)
	e.scenario(t)
	from := time.Now().Add(24 * time.Hour)

	s, err := e.query.Summary(context.Background(), "", &from, nil)
	require.NoError(t, err)
	assert.Empty(t, s.ByType)
	assert.Zero(t, s.Approved+s.Pending+s.Rejected)
	assert.True(t, s.Entradas.TotalCost.IsZero())
}

func TestProductCard_LineasEncadenadas(t *testing.T) {
	e := newEnv(t)
	e.scenario(t)

	card, err := e.query.ProductCard(context.Background(), "p-1", "wh-1", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "CAF-500", card.Product.SKU)
	assert.Equal(t, int64(55), card.Product.Stock, "stock_actual suma todos los almacenes")
	require.Len(t, card.Lines, 3)

	assert.Equal(t, int64(10), card.Lines[0].QuantityIn)
	assert.Equal(t, int64(5), card.Lines[1].QuantityOut)
	assert.Equal(t, "TRANSFERENCIA_ALMACEN", card.Lines[2].TypeCode)
	assert.Equal(t, int64(4), card.Lines[2].QuantityOut)

	prev := int64(50)
	for _, l := range card.Lines {
		assert.Equal(t, prev, l.StockBefore)
		prev = l.StockAfter
	}
	assert.Equal(t, int64(51), prev)
}

func TestProductCard_ProductoInexistente(t *testing.T) {
	e := newEnv(t)
	_, err := e.query.ProductCard(context.Background(), "no-existe", "", nil, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovementTypes_CatalogoActivo(t *testing.T) {
	e := newEnv(t)
	types := e.query.MovementTypes()
	require.NotEmpty(t, types)
	assert.Equal(t, "ENTRADA_AJUSTE_POSITIVO", types[0].Code)
}
