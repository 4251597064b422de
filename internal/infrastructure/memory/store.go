package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

type stockKey struct {
	productID   string
	warehouseID string
}

// Store guarda el KARDEX en memoria. Los datos se protegen con mu (secciones cortas);
// la serialización por producto y por movimiento la dan productLocks y movementLocks,
// que se retienen hasta el fin de la transacción igual que un SELECT FOR UPDATE.
type Store struct {
	mu         sync.RWMutex
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	users      map[string]entity.User
	stocks     map[stockKey]entity.Stock
	movements  map[string]entity.InventoryMovement
	order      []string
	types      []entity.MovementType
	seq        int64

	productLocks  *keyedLocks
	movementLocks *keyedLocks
	now           func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:      make(map[string]entity.Product),
		warehouses:    make(map[string]entity.Warehouse),
		users:         make(map[string]entity.User),
		stocks:        make(map[stockKey]entity.Stock),
		movements:     make(map[string]entity.InventoryMovement),
		productLocks:  newKeyedLocks(),
		movementLocks: newKeyedLocks(),
		now:           time.Now,
	}
}

// AddWarehouse registra o reemplaza un almacén.
func (s *Store) AddWarehouse(w entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = s.now()
	}
	w.UpdatedAt = w.CreatedAt
	s.warehouses[w.ID] = w
}

// AddUser registra o reemplaza un usuario (solo datos de presentación).
func (s *Store) AddUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// SetMovementTypes fija el catálogo que devuelve MovementTypeRepo.
func (s *Store) SetMovementTypes(types []entity.MovementType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types = append([]entity.MovementType(nil), types...)
}

// SeedStock fija el saldo inicial de un producto en un almacén sin pasar por el KARDEX.
// Solo para datos de arranque; stock_actual del producto se recalcula como la suma.
func (s *Store) SeedStock(productID, warehouseID string, qty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return fmt.Errorf("seed stock: %w: producto %s", domain.ErrNotFound, productID)
	}
	if _, ok := s.warehouses[warehouseID]; !ok {
		return fmt.Errorf("seed stock: %w: almacén %s", domain.ErrNotFound, warehouseID)
	}
	k := stockKey{productID, warehouseID}
	p.Stock += qty - s.stocks[k].Quantity
	s.stocks[k] = entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: qty, UpdatedAt: s.now()}
	s.products[productID] = p
	return nil
}

// keyedLocks mutex por clave con adquisición cancelable por contexto.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]chan struct{})}
}

func (k *keyedLocks) lock(ctx context.Context, key string) error {
	k.mu.Lock()
	ch, ok := k.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		k.locks[key] = ch
	}
	k.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (k *keyedLocks) unlock(key string) {
	k.mu.Lock()
	ch := k.locks[key]
	k.mu.Unlock()
	<-ch
}
