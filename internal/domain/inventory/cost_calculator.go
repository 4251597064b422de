package inventory

import (
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ComputeNewAverageCost implementa el costo promedio ponderado móvil (servicio de dominio).
// NuevoCosto = ((StockAnterior * CostoActual) + (CantEntrada * CostoEntrada)) / (StockAnterior + CantEntrada)
//
// Un stock anterior negativo (backorder) no aporta peso. Si el divisor queda en cero
// se conserva el costo actual.
func ComputeNewAverageCost(oldCost decimal.Decimal, oldQty, incomingQty int64, incomingUnitCost decimal.Decimal) decimal.Decimal {
	if oldQty < 0 {
		oldQty = 0
	}
	prev := decimal.NewFromInt(oldQty)
	in := decimal.NewFromInt(incomingQty)
	sum := prev.Add(in)
	if sum.LessThanOrEqual(decimal.Zero) {
		return oldCost
	}
	num := prev.Mul(oldCost).Add(in.Mul(incomingUnitCost))
	return num.DivRound(sum, 6)
}

// ChangesAverageCost indica si un movimiento debe recalcular el costo promedio:
// solo las ENTRADAS que afectan stock y traen costo (precio_unitario > 0).
func ChangesAverageCost(operation string, affectsStock bool, unitPrice decimal.Decimal) bool {
	return affectsStock && operation == entity.OperationEntrada && unitPrice.GreaterThan(decimal.Zero)
}
