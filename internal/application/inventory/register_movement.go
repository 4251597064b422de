package inventory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP del productor genérico
// (POST /api/kardex/movimientos) al caso de uso PostMovement.
func (uc *LedgerUseCase) RegisterMovementFromRequest(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*entity.InventoryMovement, error) {
	return uc.PostMovement(ctx, MovementInputDTO{
		UserID:                userID,
		ProductID:             in.ProductID,
		WarehouseID:           in.WarehouseID,
		TargetWarehouseID:     in.TargetWarehouseID,
		TypeCode:              in.TypeCode,
		Quantity:              in.Quantity,
		UnitPrice:             in.UnitPrice,
		Reason:                in.Reason,
		Notes:                 in.Notes,
		DocumentNumber:        in.DocumentNumber,
		ReferenceDocument:     in.ReferenceDocument,
		RequiresAuthorization: in.RequiresAuthorization,
	})
}

// RegisterAdjustmentFromRequest adapta el body de POST /api/ajustes-inventario.
// Los ajustes se registran en el almacén por defecto.
func (uc *LedgerUseCase) RegisterAdjustmentFromRequest(ctx context.Context, userID string, in dto.CreateAdjustmentRequest) (*entity.InventoryMovement, error) {
	return uc.PostMovement(ctx, MovementInputDTO{
		UserID:                userID,
		ProductID:             in.ProductID,
		WarehouseID:           in.WarehouseID,
		TypeCode:              in.TypeCode,
		Quantity:              in.Quantity,
		UnitPrice:             in.UnitPrice,
		Reason:                in.Reason,
		Notes:                 in.Notes,
		DocumentNumber:        in.DocumentNumber,
		ReferenceDocument:     "AJUSTE_INVENTARIO",
		RequiresAuthorization: in.RequiresAuthorization,
	})
}
