package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/franquicias-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName          string
	FranchiseUC      *usecase.FranchiseUseCase
	ReportUC         *usecase.ReportUseCase
	BatchConcurrency int
	// JWTSecret vacío deja las rutas de escritura sin autenticación.
	JWTSecret string
	// Ping verifica el almacén para /health; nil = siempre ok.
	Ping func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			if err := deps.Ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "service": deps.AppName})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	guard := writeGuard(deps.JWTSecret)
	franchiseHandler := NewFranchiseHandler(deps.FranchiseUC, deps.BatchConcurrency)
	branchHandler := NewBranchHandler(deps.FranchiseUC)
	reportHandler := NewReportHandler(deps.ReportUC)

	// Rutas estáticas antes de /:id para que no las capture el parámetro.
	franchises := app.Group("/api/franchises")
	franchises.Get("/count", franchiseHandler.Count)
	franchises.Get("/search", reportHandler.Search)
	franchises.Get("/exists/:name", franchiseHandler.Exists)
	franchises.Get("/name/:name", franchiseHandler.GetByName)
	franchises.Delete("/name/:name", guard(franchiseHandler.DeleteByName)...)
	franchises.Delete("/all", guard(franchiseHandler.DeleteAll)...)
	franchises.Post("/batch", guard(franchiseHandler.Batch)...)

	franchises.Post("/", guard(franchiseHandler.Create)...)
	franchises.Get("/", franchiseHandler.List)
	franchises.Get("/:id", franchiseHandler.GetByID)
	franchises.Put("/:id/name", guard(franchiseHandler.UpdateName)...)
	franchises.Delete("/:id", guard(franchiseHandler.Delete)...)
	franchises.Get("/:id/stats", reportHandler.Stats)
	franchises.Get("/:franchiseId/top-stock-products", reportHandler.TopStock)

	// Sucursales
	franchises.Post("/:franchiseId/branches", guard(branchHandler.AddBranch)...)
	franchises.Put("/:franchiseId/branches/:branchId/name", guard(branchHandler.UpdateBranchName)...)
	franchises.Delete("/:franchiseId/branches/:branchId", guard(branchHandler.DeleteBranch)...)

	// Productos
	products := franchises.Group("/:franchiseId/branches/:branchId/products")
	products.Post("/", guard(branchHandler.AddProduct)...)
	products.Delete("/:productId", guard(branchHandler.RemoveProduct)...)
	products.Put("/:productId/stock", guard(branchHandler.UpdateStock)...)
	products.Put("/:productId/name", guard(branchHandler.UpdateProductName)...)
}
