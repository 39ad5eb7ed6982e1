package controllers

import (
	"github.com/JeerTeles/ROMARIO-MERCADINHO/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Controllers bundles every HTTP handler group.
type Controllers struct {
	Customers *CustomerController
	Ledger    *LedgerController
	Stock     *StockController
	Admin     *AdminController
}

// NewApp creates the Fiber app with JSON errors, panic recovery and request
// logging installed.
func NewApp(log zerolog.Logger, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "mercadinho-ledger",
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log, m))
	return app
}

// RegisterRoutes defines the API routes. adminGate guards destructive
// operations.
func RegisterRoutes(router fiber.Router, c Controllers, adminGate fiber.Handler) {
	customers := router.Group("/customers")
	customers.Get("/", c.Customers.List)
	customers.Get("/by-id/:nationalId", c.Customers.GetByNationalID)
	customers.Get("/by-name/:name", c.Customers.SearchByName)
	customers.Post("/", c.Customers.Create)
	customers.Get("/:id", c.Customers.Get)
	customers.Put("/:id", adminGate, c.Customers.Update)
	customers.Delete("/:id", adminGate, c.Customers.Delete)
	customers.Get("/:id/items", c.Ledger.ListItems)
	customers.Post("/:id/items", c.Ledger.AddItem)
	customers.Delete("/:id/items/:itemId", c.Ledger.RemoveItem)

	router.Get("/ledger", c.Ledger.ListAll)

	stock := router.Group("/stock")
	stock.Get("/", c.Stock.List)
	stock.Get("/select-list", c.Stock.SelectList)
	stock.Post("/", c.Stock.Create)
	stock.Get("/:id", c.Stock.Get)
	stock.Put("/:id", adminGate, c.Stock.Update)
	stock.Delete("/:id", adminGate, c.Stock.Delete)

	admin := router.Group("/admin")
	admin.Post("/verify-password", c.Admin.VerifyPassword)
	admin.Put("/password", adminGate, c.Admin.ChangePassword)
}

// RegisterOpsRoutes adds the health probe and the prometheus endpoint.
func RegisterOpsRoutes(router fiber.Router, m *metrics.Metrics) {
	router.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})
	router.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
}
