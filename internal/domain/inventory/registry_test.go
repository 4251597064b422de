package inventory_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Resolve(t *testing.T) {
	reg := inventory.NewRegistry(inventory.DefaultMovementTypes()...)

	merma, err := reg.Resolve("SALIDA_MERMA")
	require.NoError(t, err)
	assert.Equal(t, entity.OperationSalida, merma.Operation)
	assert.True(t, merma.RequiresAuthorization)
	assert.True(t, merma.AffectsStock)

	ajuste, err := reg.Resolve(" entrada_ajuste_positivo ")
	require.NoError(t, err, "el código se normaliza a mayúsculas")
	assert.False(t, ajuste.RequiresAuthorization)
}

func TestRegistry_CodigoDesconocido(t *testing.T) {
	reg := inventory.NewRegistry(inventory.DefaultMovementTypes()...)
	_, err := reg.Resolve("SALIDA_INEXISTENTE")
	assert.True(t, errors.Is(err, domain.ErrUnknownMovementType))
}

func TestRegistry_TipoInactivoNoResuelve(t *testing.T) {
	reg := inventory.NewRegistry(entity.MovementType{Code: "SALIDA_VIEJA", Operation: entity.OperationSalida, Active: false})
	_, err := reg.Resolve("SALIDA_VIEJA")
	assert.True(t, errors.Is(err, domain.ErrUnknownMovementType))
	assert.Empty(t, reg.List())
}

func TestDefaultMovementTypes_PrefijoCoincideConOperacion(t *testing.T) {
	for _, mt := range inventory.DefaultMovementTypes() {
		assert.True(t, strings.HasPrefix(mt.Code, mt.Operation+"_"),
			"%s debe llevar el prefijo de su operación %s", mt.Code, mt.Operation)
	}
}

func TestRegistry_ListOrdenado(t *testing.T) {
	reg := inventory.NewRegistry(inventory.DefaultMovementTypes()...)
	list := reg.List()
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Code, list[i].Code)
	}
}

func TestIsAdjustment(t *testing.T) {
	assert.True(t, inventory.IsAdjustment("SALIDA_MERMA"))
	assert.True(t, inventory.IsAdjustment("entrada_ajuste_positivo"))
	assert.False(t, inventory.IsAdjustment("SALIDA_VENTA"))
	assert.False(t, inventory.IsAdjustment("TRANSFERENCIA_ALMACEN"))
	assert.Len(t, inventory.ProducerTypeCodes(), 3)
}
