package memory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var (
	_ repository.WarehouseRepository    = (*WarehouseRepo)(nil)
	_ repository.MovementTypeRepository = (*MovementTypeRepo)(nil)
)

// WarehouseRepo lectura de almacenes.
type WarehouseRepo struct {
	store *Store
}

// NewWarehouseRepository construye el repo.
func NewWarehouseRepository(store *Store) *WarehouseRepo {
	return &WarehouseRepo{store: store}
}

// GetByID devuelve el almacén o nil.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	w, ok := r.store.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

// MovementTypeRepo catálogo de tipos cargado con SetMovementTypes.
type MovementTypeRepo struct {
	store *Store
}

// NewMovementTypeRepository construye el repo.
func NewMovementTypeRepository(store *Store) *MovementTypeRepo {
	return &MovementTypeRepo{store: store}
}

// List devuelve una copia del catálogo.
func (r *MovementTypeRepo) List(ctx context.Context) ([]entity.MovementType, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return append([]entity.MovementType(nil), r.store.types...), nil
}
