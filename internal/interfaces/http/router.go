package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastillo/puntoventa-api/internal/application/auth"
	"github.com/jcastillo/puntoventa-api/internal/application/inventory"
	"github.com/jcastillo/puntoventa-api/internal/application/sales"
	"github.com/jcastillo/puntoventa-api/internal/application/usecase"
	"github.com/jcastillo/puntoventa-api/internal/domain"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	TenantUC    *usecase.TenantUseCase
	StoreUC     *usecase.StoreUseCase
	ProductUC   *usecase.ProductUseCase
	UserUC      *usecase.UserUseCase
	InventoryUC *inventory.UseCase
	CreateSale  *sales.CreateSaleUseCase
	VoidSale    *sales.VoidSaleUseCase
	SaleQuery   *sales.QueryUseCase
	SaleReceipt *sales.ReceiptUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Tenants (público: registro de empresas)
	tenants := api.Group("/tenants")
	tenantHandler := NewTenantHandler(deps.TenantUC)
	tenants.Post("/", tenantHandler.Create)
	tenants.Get("/", tenantHandler.List)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stores (protegido)
	stores := protected.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Post("/", storeHandler.Create)
	stores.Get("/", storeHandler.List)
	stores.Put("/:id", storeHandler.Update)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/barcode/:barcode", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Users (protegido, solo ADMIN)
	users := protected.Group("/users", RequireRole(domain.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Put("/:id", userHandler.Update)

	// Inventory: kardex y stock (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Post("/movements", RequirePermission(domain.PermRecordInbound), inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/stock", inventoryHandler.GetStock)
	invGroup.Get("/stock/barcode/:barcode", inventoryHandler.GetStockByBarcode)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale, deps.VoidSale, deps.SaleQuery, deps.SaleReceipt)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/void", saleHandler.Void)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
}
