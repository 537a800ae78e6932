package http

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/purchasing"
	"github.com/jhoicas/inventario-ledger/internal/application/sales"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger         *inventory.StockLedger
	PurchaseOrders *purchasing.OrderUseCase
	Receiving      *purchasing.ReceivingUseCase
	SalesOrders    *sales.OrderUseCase
	Reservation    *sales.ReservationUseCase
	Delivery       *sales.DeliveryUseCase
	Tokens         *jwt.Manager
	// MetricsHandler se monta en /metrics si no es nil (p. ej. promhttp.Handler()).
	MetricsHandler http.Handler
}

// NewApp construye la aplicación Fiber con middlewares comunes, /health y las rutas de la API.
func NewApp(appName string, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": appName})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	Router(app, deps)
	return app
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.Tokens))

	stockWriters := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	sellers := RequireRole(entity.RoleAdmin, entity.RoleVendedor)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Libro mayor de stock
	inv := api.Group("/inventory")
	invHandler := NewInventoryHandler(deps.Ledger)
	inv.Post("/increase", stockWriters, invHandler.Increase)
	inv.Post("/decrease", stockWriters, invHandler.Decrease)
	inv.Post("/adjust", adminOnly, invHandler.Adjust)
	inv.Get("/products/:productId/stocks", invHandler.ListStocks)
	inv.Get("/products/:productId/available", invHandler.Available)
	inv.Get("/skus/:sku/available", invHandler.AvailableBySKU)
	inv.Get("/stocks/:stockId/history", invHandler.History)
	inv.Get("/stocks/:stockId/audit", adminOnly, invHandler.Audit)

	// Órdenes de compra
	po := api.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.PurchaseOrders, deps.Receiving)
	po.Post("/", stockWriters, poHandler.Create)
	po.Get("/", poHandler.List)
	po.Get("/:id", poHandler.GetByID)
	po.Get("/:id/pdf", poHandler.PDF)
	po.Post("/:id/place", stockWriters, poHandler.Place)
	po.Patch("/:id/lines/:detailId", stockWriters, poHandler.UpdateLine)
	po.Post("/:id/receive", stockWriters, poHandler.Receive)
	po.Post("/:id/cancel", stockWriters, poHandler.Cancel)
	po.Delete("/:id", stockWriters, poHandler.Delete)

	// Órdenes de venta
	so := api.Group("/sales-orders")
	soHandler := NewSalesOrderHandler(deps.SalesOrders, deps.Reservation, deps.Delivery)
	so.Post("/", sellers, soHandler.Create)
	so.Get("/", soHandler.List)
	so.Get("/:id", soHandler.GetByID)
	so.Patch("/:id/lines/:detailId", sellers, soHandler.UpdateLine)
	so.Post("/:id/prepare", sellers, soHandler.Prepare)
	so.Post("/:id/deliver", stockWriters, soHandler.Deliver)
	so.Post("/:id/cancel", sellers, soHandler.Cancel)
	so.Delete("/:id", sellers, soHandler.Delete)
}
