package inventory

import (
	"math"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// MaxQuantity es la cantidad máxima aceptada en un solo movimiento.
const MaxQuantity int64 = 1_000_000_000

// ComputeNewBalance calcula stock_nuevo a partir de stock_anterior, la cantidad y la
// dirección del movimiento. Una SALIDA que deje el saldo en negativo devuelve
// *domain.InsufficientStockError salvo que allowNegative esté activo (backorders).
// TRANSFERENCIA no se resuelve aquí: usar ComputeTransfer.
func ComputeNewBalance(stockAnterior, cantidad int64, operation string, allowNegative bool) (int64, error) {
	if cantidad <= 0 {
		return 0, domain.NewValidationError("cantidad", "debe ser un entero positivo")
	}
	switch operation {
	case entity.OperationEntrada:
		if stockAnterior > math.MaxInt64-cantidad {
			return 0, domain.NewValidationError("cantidad", "el saldo resultante excede el máximo representable")
		}
		return stockAnterior + cantidad, nil
	case entity.OperationSalida:
		if stockAnterior < math.MinInt64+cantidad {
			return 0, domain.NewValidationError("cantidad", "el saldo resultante excede el mínimo representable")
		}
		nuevo := stockAnterior - cantidad
		if nuevo < 0 && !allowNegative {
			return 0, &domain.InsufficientStockError{Available: stockAnterior, Requested: cantidad}
		}
		return nuevo, nil
	default:
		return 0, domain.NewValidationError("tipo_operacion", "operación no soportada: "+operation)
	}
}

// ComputeTransfer descuenta la cantidad del almacén origen y la suma al destino.
// El origen no puede quedar en negativo salvo que allowNegative esté activo.
func ComputeTransfer(origen, destino, cantidad int64, allowNegative bool) (int64, int64, error) {
	origenNuevo, err := ComputeNewBalance(origen, cantidad, entity.OperationSalida, allowNegative)
	if err != nil {
		return 0, 0, err
	}
	destinoNuevo, err := ComputeNewBalance(destino, cantidad, entity.OperationEntrada, allowNegative)
	if err != nil {
		return 0, 0, err
	}
	return origenNuevo, destinoNuevo, nil
}

// ApplyMovement resuelve el saldo nuevo según el tipo: los tipos que no afectan stock
// devuelven el mismo saldo.
func ApplyMovement(stockAnterior, cantidad int64, t entity.MovementType, allowNegative bool) (int64, error) {
	if !t.AffectsStock {
		if cantidad <= 0 {
			return 0, domain.NewValidationError("cantidad", "debe ser un entero positivo")
		}
		return stockAnterior, nil
	}
	return ComputeNewBalance(stockAnterior, cantidad, t.Operation, allowNegative)
}

// AddToTotal suma delta al stock total del producto sin desbordar int64.
func AddToTotal(total, delta int64) (int64, error) {
	if (delta > 0 && total > math.MaxInt64-delta) || (delta < 0 && total < math.MinInt64-delta) {
		return 0, domain.NewValidationError("cantidad", "el stock total del producto excede el máximo representable")
	}
	return total + delta, nil
}
