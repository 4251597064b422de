package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con repos atados a una transacción en memoria: los bloqueos
// se liberan al final y, si fn falla, las escrituras se deshacen en orden inverso.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run implementa inventory.TxRunner.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	t := &tx{
		store:     r.store,
		products:  make(map[string]bool),
		movements: make(map[string]bool),
	}
	defer t.release()
	defer func() {
		if p := recover(); p != nil {
			t.rollback()
			panic(p)
		}
	}()

	if err := fn(&MovementRepo{store: r.store, tx: t}, &StockRepo{store: r.store, tx: t}, &ProductRepo{store: r.store, tx: t}); err != nil {
		t.rollback()
		return err
	}
	return nil
}

// tx estado de una transacción: bloqueos retenidos y log de deshacer.
type tx struct {
	store     *Store
	products  map[string]bool
	movements map[string]bool
	undo      []func()
}

func (t *tx) lockProduct(ctx context.Context, id string) error {
	if t.products[id] {
		return nil
	}
	if err := t.store.productLocks.lock(ctx, id); err != nil {
		return err
	}
	t.products[id] = true
	return nil
}

// lockMovements bloquea en orden de id para que dos tx nunca se crucen.
func (t *tx) lockMovements(ctx context.Context, ids ...string) error {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	for _, id := range sorted {
		if t.movements[id] {
			continue
		}
		if err := t.store.movementLocks.lock(ctx, id); err != nil {
			return err
		}
		t.movements[id] = true
	}
	return nil
}

// onRollback registra cómo deshacer una escritura. Se ejecuta con store.mu tomado.
func (t *tx) onRollback(f func()) {
	t.undo = append(t.undo, f)
}

func (t *tx) rollback() {
	t.store.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.store.mu.Unlock()
	t.undo = nil
}

func (t *tx) release() {
	for id := range t.movements {
		t.store.movementLocks.unlock(id)
	}
	for id := range t.products {
		t.store.productLocks.unlock(id)
	}
}
