package inventory_test

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

func repositoryFilterAll() repository.MovementFilter {
	return repository.MovementFilter{Limit: 100}
}

func cardFilter(productID, warehouseID string) repository.CardFilter {
	return repository.CardFilter{ProductID: productID, WarehouseID: warehouseID}
}

func listByLink(f *fixture, linkID string) ([]entity.InventoryMovement, int, error) {
	views, total, err := memory.NewKardexReader(f.store).ListMovements(context.Background(), repository.MovementFilter{Limit: 100})
	if err != nil {
		return nil, 0, err
	}
	var out []entity.InventoryMovement
	for _, v := range views {
		if v.Movement.LinkID == linkID {
			out = append(out, v.Movement)
		}
	}
	return out, total, nil
}
