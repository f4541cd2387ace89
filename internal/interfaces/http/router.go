package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Timesheet-api/internal/application/auth"
	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
// CustomerUC y TemplateUC son opcionales: sin ellos no se registran sus rutas.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	InvoiceUC  invoiceService
	CustomerUC customerService
	TemplateUC templateService
	Users      userLookup
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token y cuenta activa)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	if deps.Users != nil {
		protected.Use(RequireActiveUser(deps.Users))
	}
	managers := RequireRole(entity.RoleAdmin, entity.RoleTeamlead)

	// asignar roles es exclusivo de admin; el registro público siempre crea "user"
	protected.Post("/users", RequireRole(entity.RoleAdmin), authHandler.CreateUser)

	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices := protected.Group("/invoices")
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/preview", invoiceHandler.Preview)
	invoices.Post("/", managers, invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/download", invoiceHandler.Download)
	invoices.Patch("/:id/status", managers, invoiceHandler.ChangeStatus)
	invoices.Delete("/:id", RequireRole(entity.RoleAdmin), invoiceHandler.Delete)

	protected.Get("/invoice-templates", invoiceHandler.ListTemplates)
	protected.Get("/invoice-documents", invoiceHandler.ListDocuments)
	if deps.TemplateUC != nil {
		protected.Post("/invoice-templates", managers, NewTemplateHandler(deps.TemplateUC).Create)
	}

	if deps.CustomerUC != nil {
		customerHandler := NewCustomerHandler(deps.CustomerUC)
		customers := protected.Group("/customers")
		customers.Get("/", customerHandler.List)
		customers.Post("/", managers, customerHandler.Create)
		customers.Get("/:id", customerHandler.GetByID)
	}
}
