package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/application/auth"
	"github.com/jhoicas/warehouse-api/internal/application/fulfillment"
	"github.com/jhoicas/warehouse-api/internal/application/ledger"
	"github.com/jhoicas/warehouse-api/internal/application/location"
	"github.com/jhoicas/warehouse-api/internal/application/query"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Registry    *location.Registry
	Ledger      *ledger.Ledger
	ProductUC   *usecase.ProductUseCase
	Engine      *fulfillment.Engine
	PickListUC  *usecase.PickListUseCase
	Projection  *query.Projection
	Idempotency IdempotencyStore
	JWTSecret   string
}

// Router registra las rutas de la API.
// Lectura: cualquier rol. Stock y órdenes: operator o admin. Topología, bajas y usuarios: admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleOperator, entity.RoleViewer)
	operator := RequireRole(entity.RoleAdmin, entity.RoleOperator)
	admin := RequireRole(entity.RoleAdmin)

	protected.Post("/auth/register", admin, authHandler.Register)

	locationHandler := NewLocationHandler(deps.Registry)
	protected.Get("/locations", anyRole, locationHandler.ListLocations)
	protected.Get("/locations/schematic", anyRole, locationHandler.Schematic)
	protected.Get("/modules", anyRole, locationHandler.ListModules)
	protected.Post("/modules", admin, locationHandler.CreateModule)
	protected.Get("/modules/:id/trays", anyRole, locationHandler.ListTrays)
	protected.Get("/modules/:id/trays/:slot", anyRole, locationHandler.ResolveTray)
	protected.Get("/trays/:id/occupied", anyRole, locationHandler.IsOccupied)

	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", anyRole, productHandler.List)
	products.Post("/", operator, productHandler.Create)
	products.Get("/sku/:sku", anyRole, productHandler.GetBySKU)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Put("/:id", operator, productHandler.Update)
	products.Delete("/:id", admin, productHandler.Delete)

	stockHandler := NewStockHandler(deps.Ledger)
	stock := protected.Group("/stock", operator)
	stock.Post("/assign", stockHandler.Assign)
	stock.Post("/move", stockHandler.Move)
	stock.Post("/remove", stockHandler.Remove)

	orderHandler := NewOrderHandler(deps.Engine, deps.PickListUC)
	orders := protected.Group("/orders")
	orders.Get("/", anyRole, orderHandler.List)
	orders.Post("/", operator, orderHandler.Create)
	orders.Get("/:id", anyRole, orderHandler.GetByID)
	orders.Delete("/:id", admin, orderHandler.Delete)
	orders.Post("/:id/fulfill", operator, Idempotency(deps.Idempotency, "fulfill"), orderHandler.Fulfill)
	orders.Post("/:id/cancel", operator, orderHandler.Cancel)
	orders.Get("/:id/picklist", anyRole, orderHandler.PickList)

	dashboardHandler := NewDashboardHandler(deps.Projection)
	protected.Get("/dashboard/stats", anyRole, dashboardHandler.Stats)
	protected.Get("/search", anyRole, dashboardHandler.Search)
}
