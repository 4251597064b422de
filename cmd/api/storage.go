package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	domaininv "github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const memoryWarehouseID = "almacen-principal"

// storage adaptadores de persistencia según KARDEX_STORAGE.
type storage struct {
	txRunner      inventory.TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	typeRepo      repository.MovementTypeRepository
	reader        repository.KardexReader
	close         func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Kardex.Storage == config.StorageMemory {
		return openMemory(cfg, log), nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migraciones: %w", err)
	}
	return &storage{
		txRunner:      postgres.NewTxRunner(pool),
		productRepo:   postgres.NewProductRepository(pool),
		warehouseRepo: postgres.NewWarehouseRepository(pool),
		typeRepo:      postgres.NewMovementTypeRepository(pool),
		reader:        postgres.NewKardexQueryRepository(pool),
		close:         pool.Close,
	}, nil
}

// openMemory store en memoria con un almacén y un producto de demostración.
func openMemory(cfg *config.Config, log *logger.Logger) *storage {
	if cfg.Kardex.DefaultWarehouseID == "" {
		cfg.Kardex.DefaultWarehouseID = memoryWarehouseID
	}
	store := memory.NewStore()
	store.AddWarehouse(entity.Warehouse{ID: cfg.Kardex.DefaultWarehouseID, Name: "Almacén principal", Active: true})
	store.SetMovementTypes(domaininv.DefaultMovementTypes())

	products := memory.NewProductRepository(store)
	now := time.Now()
	demo := &entity.Product{ID: "producto-demo", SKU: "DEMO-001", Name: "Producto de demostración",
		Cost: decimal.NewFromInt(1000), MinStock: 5, MaxStock: 500, CreatedAt: now, UpdatedAt: now}
	if err := products.Create(context.Background(), demo); err == nil {
		_ = store.SeedStock(demo.ID, cfg.Kardex.DefaultWarehouseID, 100)
	}
	log.Warn().Str("almacen_id", cfg.Kardex.DefaultWarehouseID).Msg("KARDEX en memoria: los datos se pierden al reiniciar")

	return &storage{
		txRunner:      memory.NewTxRunner(store),
		productRepo:   products,
		warehouseRepo: memory.NewWarehouseRepository(store),
		typeRepo:      memory.NewMovementTypeRepository(store),
		reader:        memory.NewKardexReader(store),
		close:         func() {},
	}
}

// loadRegistry carga tipos_movimiento; con la tabla vacía usa el catálogo por defecto.
func loadRegistry(ctx context.Context, repo repository.MovementTypeRepository, log *logger.Logger) (*domaininv.Registry, error) {
	types, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar tipos de movimiento: %w", err)
	}
	if len(types) == 0 {
		log.Warn().Msg("tipos_movimiento vacío, usando catálogo por defecto (ver cmd/seed_kardex)")
		types = domaininv.DefaultMovementTypes()
	}
	log.Info().Int("tipos", len(types)).Msg("catálogo de movimientos cargado")
	return domaininv.NewRegistry(types...), nil
}
