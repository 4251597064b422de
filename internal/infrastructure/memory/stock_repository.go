package memory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo saldos por (producto, almacén). Solo existe dentro de una tx.
type StockRepo struct {
	store *Store
	tx    *tx
}

// Get devuelve el saldo; si no hay fila devuelve saldo cero.
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	st, ok := r.store.stocks[stockKey{productID, warehouseID}]
	if !ok {
		st = entity.Stock{ProductID: productID, WarehouseID: warehouseID}
	}
	return &st, nil
}

// GetForUpdate el saldo vive bajo el bloqueo del producto; lo toma si aún no lo tiene.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	if err := r.tx.lockProduct(ctx, productID); err != nil {
		return nil, err
	}
	return r.Get(ctx, productID, warehouseID)
}

// Upsert escribe el saldo. Exige el bloqueo del producto.
func (r *StockRepo) Upsert(ctx context.Context, st *entity.Stock) error {
	if !r.tx.products[st.ProductID] {
		return errNoTx
	}
	s := r.store
	k := stockKey{st.ProductID, st.WarehouseID}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.stocks[k]
	s.stocks[k] = *st
	r.tx.onRollback(func() {
		if existed {
			s.stocks[k] = prev
		} else {
			delete(s.stocks, k)
		}
	})
	return nil
}
