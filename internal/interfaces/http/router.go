package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/OrdemServico-api/internal/application/analytics"
	"github.com/jhoicas/OrdemServico-api/internal/application/auth"
	appos "github.com/jhoicas/OrdemServico-api/internal/application/serviceorder"
	"github.com/jhoicas/OrdemServico-api/internal/application/usecase"
	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	OrderUC     *appos.UseCase
	DocumentsUC *appos.DocumentsUseCase
	ClientUC    *usecase.ClientUseCase
	CatalogUC   *usecase.CatalogUseCase
	CompanyUC   *usecase.CompanyUseCase
	DashboardUC *analytics.DashboardUseCase
	ReportUC    *analytics.ReportUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/users", adminOnly, authHandler.ListUsers)
	protected.Post("/users", adminOnly, authHandler.Register)

	// Órdenes de servicio; las rutas fijas van antes de /:id.
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.DocumentsUC)
	orders.Get("/", orderHandler.History)
	orders.Post("/", orderHandler.Create)
	orders.Get("/export/csv", orderHandler.ExportCSV)
	orders.Post("/import/csv", orderHandler.ImportCSV)
	orders.Get("/:id", orderHandler.Get)
	orders.Put("/:id", orderHandler.Update)
	orders.Post("/:id/image", orderHandler.UploadImage)
	orders.Get("/:id/pdf", orderHandler.PDF)

	// Clientes y vehículos
	clientHandler := NewClientHandler(deps.ClientUC)
	protected.Get("/clients", clientHandler.List)
	protected.Get("/clients/search", clientHandler.Search)
	protected.Get("/clients/:id/vehicles", clientHandler.Vehicles)
	protected.Post("/vehicles", clientHandler.AddVehicle)

	// Catálogo de servicios estándar
	protected.Get("/services", NewCatalogHandler(deps.CatalogUC).List)

	// Ficha del taller (cambios solo admin)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	protected.Get("/company", companyHandler.Get)
	protected.Put("/company", adminOnly, companyHandler.Update)
	protected.Post("/company/logo", adminOnly, companyHandler.UploadLogo)
	protected.Post("/company/pix-qr", adminOnly, companyHandler.UploadPixQR)

	// Dashboard y reportes
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.ReportUC)
	protected.Get("/dashboard", dashboardHandler.Summary)
	protected.Get("/reports", dashboardHandler.Report)
}
