package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Confirmación inmediata ──────────────────────────────────────────────────

func TestPostMovement_EntradaSinAutorizacion_AfectaStock(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})

	m, err := f.post(t, "ENTRADA_AJUSTE_POSITIVO", 10)
	require.NoError(t, err)

	assert.Equal(t, entity.MovementStatusApproved, m.Status)
	assert.Equal(t, int64(50), m.StockBefore)
	assert.Equal(t, int64(60), m.StockAfter)
	assert.Equal(t, mainWH, m.WarehouseID)
	assert.Positive(t, m.Sequence)
	assert.Equal(t, int64(60), f.product(t, productID).Stock)
	assert.Equal(t, []string{inventory.EventMovementCreated}, f.events.types())
}

func TestPostMovement_EntradaConCosto_RecalculaPromedio(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})
	require.NoError(t, memory.NewProductRepository(f.store).Create(context.Background(), &entity.Product{ID: "prod-2", SKU: "SKU-2", Name: "Frijol", Cost: decimal.NewFromInt(10)}))
	require.NoError(t, f.store.SeedStock("prod-2", mainWH, 5))

	m, err := f.post(t, "ENTRADA_COMPRA", 5, withPrice(20), withDocument("FC-001"), func(in *inventory.MovementInputDTO) { in.ProductID = "prod-2" })
	require.NoError(t, err)

	assert.Equal(t, entity.PriceSourceRequested, m.PriceSource)
	assert.True(t, m.TotalCost.Equal(decimal.NewFromInt(100)))
	p := f.product(t, "prod-2")
	assert.True(t, p.Cost.Equal(decimal.NewFromInt(15)), "costo esperado 15, obtenido %s", p.Cost)
	assert.Equal(t, int64(10), p.Stock)
}

func TestPostMovement_EntradaEnOtroAlmacen_PonderaConStockTotal(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})

	m, err := f.post(t, "ENTRADA_COMPRA", 10, withPrice(20), withDocument("FC-002"), func(in *inventory.MovementInputDTO) { in.WarehouseID = secondWH })
	require.NoError(t, err)
	assert.Equal(t, int64(0), m.StockBefore, "stock_anterior es el saldo del almacén")
	assert.Equal(t, int64(10), m.StockAfter)

	// (10*50 + 20*10) / 60
	p := f.product(t, productID)
	assert.True(t, p.Cost.Equal(decimal.RequireFromString("11.666667")), "costo: %s", p.Cost)
	assert.Equal(t, int64(60), p.Stock)
}

func TestPostMovement_SalidaNoCambiaCosto_UsaCostoPromedio(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})

	m, err := f.post(t, "SALIDA_VENTA", 5, withDocument("FV-10"))
	require.NoError(t, err)

	assert.Equal(t, entity.PriceSourceAverageCost, m.PriceSource)
	assert.True(t, m.UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.True(t, m.TotalCost.Equal(decimal.NewFromInt(50)))
	assert.True(t, f.product(t, productID).Cost.Equal(decimal.NewFromInt(10)))
}

func TestPostMovement_TipoSinEfectoEnStock(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})

	m, err := f.post(t, "ENTRADA_CONSIGNACION_INFORMATIVA", 7, withPrice(99))
	require.NoError(t, err)

	assert.Equal(t, entity.MovementStatusApproved, m.Status)
	assert.Equal(t, m.StockBefore, m.StockAfter)
	p := f.product(t, productID)
	assert.Equal(t, int64(50), p.Stock)
	assert.True(t, p.Cost.Equal(decimal.NewFromInt(10)), "un tipo informativo no recalcula costo")
}

func TestPostMovement_Backorder(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{AllowNegativeStock: true})

	m, err := f.post(t, "SALIDA_VENTA", 60, withDocument("FV-11"))
	require.NoError(t, err)
	assert.Equal(t, int64(-10), m.StockAfter)
	assert.Equal(t, int64(-10), f.product(t, productID).Stock)
}

// ── Validaciones de admisión ────────────────────────────────────────────────

func TestPostMovement_CantidadSobreElMaximo(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})

	_, err := f.post(t, "ENTRADA_AJUSTE_POSITIVO", math.MaxInt64)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "cantidad", ve.Field)

	m, err := f.post(t, "ENTRADA_AJUSTE_POSITIVO", domaininv.MaxQuantity)
	require.NoError(t, err)
	assert.Equal(t, 50+domaininv.MaxQuantity, m.StockAfter)
}

func TestPostMovement_SaldoDesbordado_NoPersiste(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{AllowNegativeStock: true})
	require.NoError(t, f.store.SeedStock(productID, mainWH, math.MaxInt64-10))

	_, err := f.post(t, "ENTRADA_AJUSTE_POSITIVO", 11)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(math.MaxInt64-10), f.product(t, productID).Stock)

	require.NoError(t, f.store.SeedStock(productID, mainWH, math.MinInt64+10))
	_, err = f.post(t, "SALIDA_VENTA", 11, withDocument("FV-12"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el backorder no puede dar la vuelta a positivo")
	assert.Equal(t, int64(math.MinInt64+10), f.product(t, productID).Stock)
	assert.Empty(t, f.events.types())
}

func TestPostMovement_StockTotalDesbordado_NoPersiste(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})
	require.NoError(t, f.store.SeedStock(productID, mainWH, math.MaxInt64-50))
	require.NoError(t, f.store.SeedStock(productID, secondWH, 40))

	_, err := f.post(t, "ENTRADA_AJUSTE_POSITIVO", 20, func(in *inventory.MovementInputDTO) { in.WarehouseID = secondWH })
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(math.MaxInt64-10), f.product(t, productID).Stock)
}

func TestPostMovement_StockInsuficiente_NoPersiste(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})

	_, err := f.post(t, "SALIDA_VENTA", 100, withDocument("FV-13"))
	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, int64(50), ise.Available)
	assert.Equal(t, int64(100), ise.Requested)
	assert.Equal(t, mainWH, ise.WarehouseID)

	views, total, err := memory.NewKardexReader(f.store).ListMovements(context.Background(), repositoryFilterAll())
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, views)
	assert.Empty(t, f.events.types())
}

func TestPostMovement_CantidadInvalida(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})

	for name, qty := range map[string]decimal.Decimal{
		"fraccion": decimal.RequireFromString("2.5"),
		"cero":     decimal.Zero,
		"negativa": decimal.NewFromInt(-3),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.ledger.PostMovement(context.Background(), inventory.MovementInputDTO{
				UserID: userID, ProductID: productID, TypeCode: "ENTRADA_AJUSTE_POSITIVO", Quantity: qty,
			})
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "cantidad", ve.Field)
		})
	}
}

func TestPostMovement_TipoDesconocido(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})
	_, err := f.post(t, "SALIDA_INVENTADA", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPostMovement_DocumentoRequerido(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})
	_, err := f.post(t, "SALIDA_VENTA", 1)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "numero_documento", ve.Field)
}

func TestPostMovement_ProductoOAlmacenInexistente(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})

	_, err := f.post(t, "ENTRADA_AJUSTE_POSITIVO", 1, func(in *inventory.MovementInputDTO) { in.ProductID = "no-existe" })
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.post(t, "ENTRADA_AJUSTE_POSITIVO", 1, func(in *inventory.MovementInputDTO) { in.WarehouseID = "wh-cerrado" })
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostMovement_SinUsuario(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})
	_, err := f.post(t, "ENTRADA_AJUSTE_POSITIVO", 1, func(in *inventory.MovementInputDTO) { in.UserID = "" })
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestPostMovement_NoPermiteSaltarAutorizacion(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})

	_, err := f.post(t, "SALIDA_MERMA", 5, withAuthorization(false))
	require.ErrorIs(t, err, domain.ErrAuthorizationRequired)
	assert.Equal(t, int64(50), f.product(t, productID).Stock)
}

func TestPostMovement_ForzarAutorizacion(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})

	m, err := f.post(t, "ENTRADA_AJUSTE_POSITIVO", 5, withAuthorization(true))
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusPending, m.Status)
	assert.Equal(t, int64(50), f.product(t, productID).Stock)
}

// ── Concurrencia ────────────────────────────────────────────────────────────

func TestPostMovement_SalidasConcurrentes_SoloUnaPasa(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})
	require.NoError(t, f.store.SeedStock(productID, mainWH, 10))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.post(t, "SALIDA_VENTA", 6, withDocument("FV-C"))
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, int64(4), f.product(t, productID).Stock)
}

func TestPostMovement_CadenaDeSaldos(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := "ENTRADA_AJUSTE_POSITIVO"
			if i%2 == 1 {
				code = "SALIDA_VENTA"
			}
			_, err := f.post(t, code, 3, withDocument("D"))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	lines, err := memory.NewKardexReader(f.store).ProductCard(context.Background(), cardFilter(productID, mainWH))
	require.NoError(t, err)
	require.Len(t, lines, 10)
	prev := int64(50)
	for _, l := range lines {
		assert.Equal(t, prev, l.StockBefore, "secuencia %d", l.Sequence)
		prev = l.StockAfter
	}
	assert.Equal(t, int64(50), prev)
	assert.Equal(t, int64(50), f.product(t, productID).Stock)
}

// ── Traslados ───────────────────────────────────────────────────────────────

func TestPostMovement_Traslado_DosFilasEnlazadas(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})

	out, err := f.post(t, "TRANSFERENCIA_ALMACEN", 20, func(in *inventory.MovementInputDTO) { in.TargetWarehouseID = secondWH })
	require.NoError(t, err)

	assert.Equal(t, entity.OperationSalida, out.Operation)
	assert.Equal(t, int64(50), out.StockBefore)
	assert.Equal(t, int64(30), out.StockAfter)
	require.NotEmpty(t, out.LinkID)

	lines, err := memory.NewKardexReader(f.store).ProductCard(context.Background(), cardFilter(productID, secondWH))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	in := lines[0]
	assert.Equal(t, out.LinkID, in.LinkID)
	assert.Equal(t, entity.OperationEntrada, in.Operation)
	assert.Equal(t, int64(0), in.StockBefore)
	assert.Equal(t, int64(20), in.StockAfter)

	p := f.product(t, productID)
	assert.Equal(t, int64(50), p.Stock, "un traslado no cambia el total del producto")
	assert.True(t, p.Cost.Equal(decimal.NewFromInt(10)))
}

func TestPostMovement_Traslado_MismoAlmacen(t *testing.T) {
	f := newFixture(t, inventory.LedgerConfig{})
	_, err := f.post(t, "TRANSFERENCIA_ALMACEN", 1, func(in *inventory.MovementInputDTO) { in.TargetWarehouseID = mainWH })
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseQuantity(t *testing.T) {
	n, err := inventory.ParseQuantity(decimal.RequireFromString("12.000"))
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	_, err = inventory.ParseQuantity(decimal.RequireFromString("0.5"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
