package kardex

import (
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ToMovementResponse convierte un movimiento al formato del cliente (sin datos anidados).
func ToMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                m.ID,
		ProductID:         m.ProductID,
		WarehouseID:       m.WarehouseID,
		TargetWarehouseID: m.TargetWarehouseID,
		LinkID:            m.LinkID,
		TypeCode:          m.TypeCode,
		Operation:         m.Operation,
		Quantity:          m.Quantity,
		UnitPrice:         m.UnitPrice,
		PriceSource:       m.PriceSource,
		TotalCost:         m.TotalCost,
		StockBefore:       m.StockBefore,
		StockAfter:        m.StockAfter,
		ReferenceDocument: m.ReferenceDocument,
		DocumentNumber:    m.DocumentNumber,
		Date:              m.Date,
		UserID:            m.CreatedBy,
		AuthorizedBy:      m.AuthorizedBy,
		AuthorizedAt:      m.AuthorizedAt,
		Reason:            m.Reason,
		RejectionReason:   m.RejectionReason,
		Notes:             m.Notes,
		Status:            m.Status,
		Sequence:          m.Sequence,
	}
}

// ToMovementTypeResponse convierte un tipo de movimiento del catálogo.
func ToMovementTypeResponse(t entity.MovementType) dto.MovementTypeResponse {
	return dto.MovementTypeResponse{
		Code:                  t.Code,
		Name:                  t.Name,
		Operation:             t.Operation,
		AffectsStock:          t.AffectsStock,
		RequiresAuthorization: t.RequiresAuthorization,
		RequiresDocument:      t.RequiresDocument,
	}
}

func toProductSummary(p entity.Product) dto.ProductSummary {
	return dto.ProductSummary{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Stock:        p.Stock,
		AverageCost:  p.Cost,
		MinimumStock: p.MinStock,
		MaximumStock: p.MaxStock,
	}
}

func toUserSummary(u entity.User) *dto.UserSummary {
	if u.ID == "" {
		return nil
	}
	return &dto.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toMovementView(v repository.MovementView) dto.MovementResponse {
	out := ToMovementResponse(&v.Movement)
	p := toProductSummary(v.Product)
	out.Product = &p
	out.User = toUserSummary(v.CreatedBy)
	if v.AuthorizedBy != nil {
		out.Authorizer = toUserSummary(*v.AuthorizedBy)
	}
	return out
}
