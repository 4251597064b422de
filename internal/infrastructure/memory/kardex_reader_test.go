package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMovements(t *testing.T, s *memory.Store, movs ...entity.InventoryMovement) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, memory.NewTxRunner(s).Run(ctx, func(movRepo repository.InventoryMovementRepository, _ repository.StockRepository, _ repository.ProductRepository) error {
		for i := range movs {
			if err := movRepo.Create(ctx, &movs[i]); err != nil {
				return err
			}
		}
		return nil
	}))
}

func TestKardexReader_BusquedaSinTildes(t *testing.T) {
	s := newStore(t)
	seedMovements(t, s,
		entity.InventoryMovement{ID: "m-1", ProductID: "p-1", WarehouseID: "wh-1", TypeCode: "SALIDA_MERMA", Operation: entity.OperationSalida, Quantity: 5, Status: entity.MovementStatusPending, CreatedBy: "u-1", Date: time.Now()},
	)

	views, total, err := memory.NewKardexReader(s).ListMovements(context.Background(), repository.MovementFilter{Search: "AZUCAR", Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "Azúcar morena", views[0].Product.Name)
	assert.Equal(t, "Bodeguero Uno", views[0].CreatedBy.Name)
	assert.Nil(t, views[0].AuthorizedBy)
}

func TestKardexReader_FiltrosYPaginacion(t *testing.T) {
	s := newStore(t)
	now := time.Now()
	seedMovements(t, s,
		entity.InventoryMovement{ID: "m-1", ProductID: "p-1", TypeCode: "ENTRADA_COMPRA", Operation: entity.OperationEntrada, Quantity: 1, Status: entity.MovementStatusApproved, Date: now.Add(-2 * time.Hour)},
		entity.InventoryMovement{ID: "m-2", ProductID: "p-1", TypeCode: "SALIDA_MERMA", Operation: entity.OperationSalida, Quantity: 2, Status: entity.MovementStatusPending, Date: now.Add(-time.Hour)},
		entity.InventoryMovement{ID: "m-3", ProductID: "p-1", TypeCode: "SALIDA_MERMA", Operation: entity.OperationSalida, Quantity: 3, Status: entity.MovementStatusRejected, Date: now},
	)
	reader := memory.NewKardexReader(s)
	ctx := context.Background()

	views, total, err := reader.ListMovements(ctx, repository.MovementFilter{AdjustmentsOnly: true, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, views, 1)
	assert.Equal(t, "m-3", views[0].Movement.ID, "más reciente primero")

	views, _, err = reader.ListMovements(ctx, repository.MovementFilter{Status: entity.MovementStatusPending})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "m-2", views[0].Movement.ID)

	from := now.Add(-90 * time.Minute)
	_, total, err = reader.ListMovements(ctx, repository.MovementFilter{From: &from})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	views, total, err = reader.ListMovements(ctx, repository.MovementFilter{Offset: 10, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, views)

	views, _, err = reader.ListMovements(ctx, repository.MovementFilter{Offset: -36, Limit: 2})
	require.NoError(t, err, "un offset negativo se trata como cero")
	require.Len(t, views, 2)
	assert.Equal(t, "m-3", views[0].Movement.ID)
}

func TestKardexReader_ResumenCuentaTrasladoUnaVez(t *testing.T) {
	s := newStore(t)
	now := time.Now()
	seedMovements(t, s,
		entity.InventoryMovement{ID: "t-1", ProductID: "p-1", TypeCode: "TRANSFERENCIA_ALMACEN", Operation: entity.OperationSalida, LinkID: "l-1", Quantity: 4, TotalCost: decimal.NewFromInt(40), Status: entity.MovementStatusApproved, Date: now},
		entity.InventoryMovement{ID: "t-2", ProductID: "p-1", TypeCode: "TRANSFERENCIA_ALMACEN", Operation: entity.OperationEntrada, LinkID: "l-1", Quantity: 4, TotalCost: decimal.NewFromInt(40), Status: entity.MovementStatusApproved, Date: now},
		entity.InventoryMovement{ID: "m-1", ProductID: "p-1", TypeCode: "SALIDA_MERMA", Operation: entity.OperationSalida, Quantity: 2, Status: entity.MovementStatusPending, Date: now},
	)

	res, err := memory.NewKardexReader(s).Summary(context.Background(), repository.SummaryFilter{ProductID: "p-1"})
	require.NoError(t, err)
	require.Len(t, res.ByType, 1)
	assert.Equal(t, int64(1), res.ByType[0].Count)
	assert.Equal(t, int64(4), res.ByType[0].Quantity)
	assert.Equal(t, int64(1), res.Approved)
	assert.Equal(t, int64(1), res.Pending)
}

func TestKardexReader_TarjetaEnOrdenDeFinalizacion(t *testing.T) {
	s := newStore(t)
	seedMovements(t, s,
		entity.InventoryMovement{ID: "a", ProductID: "p-1", Status: entity.MovementStatusApproved, Sequence: 2},
		entity.InventoryMovement{ID: "b", ProductID: "p-1", Status: entity.MovementStatusApproved, Sequence: 1},
		entity.InventoryMovement{ID: "c", ProductID: "p-1", Status: entity.MovementStatusPending},
	)
	card, err := memory.NewKardexReader(s).ProductCard(context.Background(), repository.CardFilter{ProductID: "p-1"})
	require.NoError(t, err)
	require.Len(t, card, 2)
	assert.Equal(t, "b", card[0].ID)
	assert.Equal(t, "a", card[1].ID)
}
