package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	productID  = "prod-1"
	mainWH     = "wh-principal"
	secondWH   = "wh-sucursal"
	userID     = "user-bodega"
	approverID = "user-supervisor"
)

// recordingPublisher guarda los eventos publicados.
type recordingPublisher struct {
	mu     sync.Mutex
	events []inventory.MovementEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e inventory.MovementEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	copied := *e.Movement
	p.events = append(p.events, inventory.MovementEvent{Type: e.Type, Movement: &copied})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store    *memory.Store
	ledger   *inventory.LedgerUseCase
	approval *inventory.ApprovalUseCase
	events   *recordingPublisher
}

// newFixture producto con 50 unidades en el almacén principal y costo promedio 10.
func newFixture(t *testing.T, cfg inventory.LedgerConfig) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.AddWarehouse(entity.Warehouse{ID: mainWH, Name: "Principal", Active: true})
	store.AddWarehouse(entity.Warehouse{ID: secondWH, Name: "Sucursal", Active: true})
	store.AddWarehouse(entity.Warehouse{ID: "wh-cerrado", Name: "Cerrado", Active: false})
	require.NoError(t, memory.NewProductRepository(store).Create(context.Background(), &entity.Product{
		ID: productID, SKU: "SKU-1", Name: "Arroz", Cost: decimal.NewFromInt(10),
	}))
	require.NoError(t, store.SeedStock(productID, mainWH, 50))

	if cfg.DefaultWarehouseID == "" {
		cfg.DefaultWarehouseID = mainWH
	}
	events := &recordingPublisher{}
	ledger := inventory.NewLedgerUseCase(
		memory.NewTxRunner(store),
		domaininv.NewRegistry(domaininv.DefaultMovementTypes()...),
		memory.NewProductRepository(store),
		memory.NewWarehouseRepository(store),
		events,
		cfg,
		nil,
	)
	return &fixture{store: store, ledger: ledger, approval: inventory.NewApprovalUseCase(ledger), events: events}
}

func (f *fixture) product(t *testing.T, id string) *entity.Product {
	t.Helper()
	p, err := memory.NewProductRepository(f.store).GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func (f *fixture) movement(t *testing.T, id string) entity.InventoryMovement {
	t.Helper()
	v, err := memory.NewKardexReader(f.store).GetMovement(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, v)
	return v.Movement
}

func (f *fixture) post(t *testing.T, typeCode string, qty int64, mutate ...func(*inventory.MovementInputDTO)) (*entity.InventoryMovement, error) {
	t.Helper()
	in := inventory.MovementInputDTO{
		UserID:    userID,
		ProductID: productID,
		TypeCode:  typeCode,
		Quantity:  decimal.NewFromInt(qty),
	}
	for _, m := range mutate {
		m(&in)
	}
	return f.ledger.PostMovement(context.Background(), in)
}

func withDocument(doc string) func(*inventory.MovementInputDTO) {
	return func(in *inventory.MovementInputDTO) { in.DocumentNumber = doc }
}

func withPrice(p int64) func(*inventory.MovementInputDTO) {
	return func(in *inventory.MovementInputDTO) {
		d := decimal.NewFromInt(p)
		in.UnitPrice = &d
	}
}

func withAuthorization(v bool) func(*inventory.MovementInputDTO) {
	return func(in *inventory.MovementInputDTO) { in.RequiresAuthorization = &v }
}
