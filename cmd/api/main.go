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

	"github.com/jcastillo/puntoventa-api/internal/application/auth"
	"github.com/jcastillo/puntoventa-api/internal/application/inventory"
	"github.com/jcastillo/puntoventa-api/internal/application/sales"
	"github.com/jcastillo/puntoventa-api/internal/application/usecase"
	infracache "github.com/jcastillo/puntoventa-api/internal/infrastructure/cache"
	infrapdf "github.com/jcastillo/puntoventa-api/internal/infrastructure/pdf"
	"github.com/jcastillo/puntoventa-api/internal/infrastructure/postgres"
	httpRouter "github.com/jcastillo/puntoventa-api/internal/interfaces/http"
	"github.com/jcastillo/puntoventa-api/pkg/config"
	"github.com/jcastillo/puntoventa-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (lecturas fuera de transacción)
	tenantRepo := postgres.NewTenantRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cache de stock: Redis si está configurado, noop si no
	var stockCache inventory.StockCache = infracache.NoopStockCache{}
	if cfg.Redis.Enabled() {
		redisCache := infracache.NewRedisStockCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer redisCache.Close()
		stockCache = redisCache
		log.Info().Str("addr", cfg.Redis.Addr).Msg("cache de stock en Redis activo")
	}

	// Casos de uso
	tenantUC := usecase.NewTenantUseCase(tenantRepo)
	storeUC := usecase.NewStoreUseCase(storeRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	userUC := usecase.NewUserUseCase(userRepo, storeRepo)
	inventoryUC := inventory.NewUseCase(txRunner, movementRepo, storeRepo, productRepo, stockCache)
	createSaleUC := sales.NewCreateSaleUseCase(txRunner, storeRepo, productRepo, stockCache)
	voidSaleUC := sales.NewVoidSaleUseCase(txRunner, stockCache)
	saleQueryUC := sales.NewQueryUseCase(saleRepo)
	receiptGenerator := infrapdf.NewMarotoReceiptGenerator()
	saleReceiptUC := sales.NewReceiptUseCase(saleRepo, storeRepo, productRepo, receiptGenerator)
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "PuntoVenta API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		TenantUC:    tenantUC,
		StoreUC:     storeUC,
		ProductUC:   productUC,
		UserUC:      userUC,
		InventoryUC: inventoryUC,
		CreateSale:  createSaleUC,
		VoidSale:    voidSaleUC,
		SaleQuery:   saleQueryUC,
		SaleReceipt: saleReceiptUC,
		JWTSecret:   cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
