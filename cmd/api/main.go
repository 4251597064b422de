package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/kardex"
	"github.com/jhoicas/kardex-api/internal/infrastructure/ws"
	httpRouter "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Kardex.Storage).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento del KARDEX")
	}
	defer st.close()

	registry, err := loadRegistry(ctx, st.typeRepo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("catálogo de movimientos")
	}

	// Eventos del KARDEX hacia la UI (/ws/kardex)
	hub := ws.NewHub(256, log.Component("ws"))
	go hub.Run(ctx)

	ledgerUC := inventory.NewLedgerUseCase(
		st.txRunner, registry, st.productRepo, st.warehouseRepo, hub,
		inventory.LedgerConfig{
			DefaultWarehouseID: cfg.Kardex.DefaultWarehouseID,
			AllowNegativeStock: cfg.Kardex.AllowNegativeStock,
		},
		log.Component("kardex"),
	)
	approvalUC := inventory.NewApprovalUseCase(ledgerUC)
	queryUC := kardex.NewQueryUseCase(st.reader, st.productRepo, registry)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "KARDEX API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Kardex.Storage})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:    ledgerUC,
		Approval:  approvalUC,
		Query:     queryUC,
		Hub:       hub,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	cancel()

	log.Info().Msg("aplicación detenida")
}
