package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/exhibition-api/internal/application/billing"
	"github.com/jhoicas/exhibition-api/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CustomerUC  *billing.CustomerUseCase
	BillUC      *billing.BillUseCase
	ExportUC    *billing.ExportUseCase
	StatementUC *billing.StatementUseCase
	Site        config.SiteConfig
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", Operator())

	siteHandler := NewSiteHandler(deps.Site)
	api.Get("/site", siteHandler.Get)

	// Customers
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.ExportUC, deps.StatementUC, deps.Log)
	billHandler := NewBillHandler(deps.BillUC, deps.Log)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/export", customerHandler.Export)
	customers.Get("/code/:customerID", customerHandler.GetByCode)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)
	customers.Post("/:id/welcome", customerHandler.SendWelcome)
	customers.Get("/:id/qr.png", customerHandler.QRCode)
	customers.Get("/:id/statement.pdf", customerHandler.Statement)
	customers.Get("/:id/bills", billHandler.ListByCustomer)
	customers.Post("/:id/bills", billHandler.Create)

	// Bills
	bills := api.Group("/bills")
	bills.Get("/", billHandler.List)
	bills.Get("/:id", billHandler.GetByID)
	bills.Put("/:id", billHandler.Update)
	bills.Delete("/:id", billHandler.Delete)
}
