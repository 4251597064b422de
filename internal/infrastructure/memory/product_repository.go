package memory

import (
	"context"
	"errors"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var errNoTx = errors.New("memory: operación requiere transacción")

// ProductRepo implementación en memoria de ProductRepository. Fuera de una tx solo
// sirve para lecturas y altas.
type ProductRepo struct {
	store *Store
	tx    *tx
}

// NewProductRepository repo sin transacción (lecturas y altas).
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

// Create registra el producto. Falla con ErrConflict si el id o el SKU ya existen.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; ok {
		return domain.ErrConflict
	}
	for _, existing := range s.products {
		if p.SKU != "" && existing.SKU == p.SKU {
			return domain.ErrConflict
		}
	}
	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.products[p.ID] = *p
	if r.tx != nil {
		id := p.ID
		r.tx.onRollback(func() { delete(s.products, id) })
	}
	return nil
}

// GetByID devuelve una copia del producto o nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate toma el bloqueo del producto hasta el fin de la tx y devuelve la fila.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if r.tx == nil {
		return nil, errNoTx
	}
	if err := r.tx.lockProduct(ctx, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// UpdateStockAndCost escribe stock_actual y costo_promedio. Exige el bloqueo del producto.
func (r *ProductRepo) UpdateStockAndCost(ctx context.Context, productID string, stock int64, cost decimal.Decimal) error {
	if r.tx == nil || !r.tx.products[productID] {
		return errNoTx
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p := prev
	p.Stock = stock
	p.Cost = cost
	p.UpdatedAt = s.now()
	s.products[productID] = p
	r.tx.onRollback(func() { s.products[productID] = prev })
	return nil
}
