package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendafacil-api/internal/application/auth"
	"github.com/jhoicas/vendafacil-api/internal/application/fiscal"
	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	EmitUC    *fiscal.EmitUseCase
	InvoiceUC *fiscal.InvoiceUseCase
	ReceiptUC *fiscal.ReceiptUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	supervisors := RequireRole(entity.RoleAdmin, entity.RoleManager)

	// Emisión de documento fiscal por venta
	sales := protected.Group("/sales")
	fiscalHandler := NewFiscalHandler(deps.EmitUC)
	sales.Post("/:id/nfe", fiscalHandler.Emit)
	sales.Get("/:id/nfe/preview", fiscalHandler.Preview)

	// Documentos fiscales emitidos
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.ReceiptUC)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/export", invoiceHandler.Export)
	invoices.Post("/void-range", supervisors, invoiceHandler.VoidRange)
	invoices.Get("/:id/xml", invoiceHandler.DownloadXML)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Post("/:id/cancel", supervisors, invoiceHandler.Cancel)
	invoices.Post("/:id/return", invoiceHandler.CreateReturn)
}
