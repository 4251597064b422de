package inventory_test

import (
	"errors"
	"math"
	"testing"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeNewBalance_Entrada(t *testing.T) {
	for _, tc := range []struct{ anterior, cantidad int64 }{{0, 1}, {50, 10}, {-4, 4}} {
		got, err := inventory.ComputeNewBalance(tc.anterior, tc.cantidad, entity.OperationEntrada, false)
		require.NoError(t, err)
		assert.Equal(t, tc.anterior+tc.cantidad, got)
	}
}

func TestComputeNewBalance_Salida(t *testing.T) {
	got, err := inventory.ComputeNewBalance(60, 5, entity.OperationSalida, false)
	require.NoError(t, err)
	assert.Equal(t, int64(55), got)

	got, err = inventory.ComputeNewBalance(6, 6, entity.OperationSalida, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got, "dejar el saldo en cero es válido")
}

func TestComputeNewBalance_SalidaSinStock(t *testing.T) {
	_, err := inventory.ComputeNewBalance(4, 6, entity.OperationSalida, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(4), ise.Available)
	assert.Equal(t, int64(6), ise.Requested)
}

func TestComputeNewBalance_SalidaConBackorder(t *testing.T) {
	got, err := inventory.ComputeNewBalance(4, 6, entity.OperationSalida, true)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), got)
}

func TestComputeNewBalance_CantidadNoPositiva(t *testing.T) {
	for _, q := range []int64{0, -1} {
		_, err := inventory.ComputeNewBalance(10, q, entity.OperationEntrada, false)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}
}

func TestComputeNewBalance_TransferenciaNoSoportada(t *testing.T) {
	_, err := inventory.ComputeNewBalance(10, 1, entity.OperationTransferencia, false)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestComputeNewBalance_Desbordamiento(t *testing.T) {
	_, err := inventory.ComputeNewBalance(50, math.MaxInt64, entity.OperationEntrada, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.ComputeNewBalance(math.MaxInt64-1, 2, entity.OperationEntrada, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.ComputeNewBalance(-5, math.MaxInt64, entity.OperationSalida, true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "un backorder no puede dar la vuelta a positivo")

	got, err := inventory.ComputeNewBalance(math.MaxInt64-1, 1, entity.OperationEntrada, false)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)
}

func TestAddToTotal(t *testing.T) {
	got, err := inventory.AddToTotal(60, -5)
	require.NoError(t, err)
	assert.Equal(t, int64(55), got)

	_, err = inventory.AddToTotal(math.MaxInt64, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.AddToTotal(math.MinInt64, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestComputeTransfer(t *testing.T) {
	origen, destino, err := inventory.ComputeTransfer(10, 3, 4, false)
	require.NoError(t, err)
	assert.Equal(t, int64(6), origen)
	assert.Equal(t, int64(7), destino)

	_, _, err = inventory.ComputeTransfer(2, 3, 4, false)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}

func TestApplyMovement_TipoSinEfectoEnStock(t *testing.T) {
	informativo := entity.MovementType{Code: "X", Operation: entity.OperationSalida, AffectsStock: false, Active: true}
	got, err := inventory.ApplyMovement(3, 10, informativo, false)
	require.NoError(t, err, "un tipo sin efecto en stock no valida suficiencia")
	assert.Equal(t, int64(3), got)
}
