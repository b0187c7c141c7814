// Package handlers: HTTP-поверхность сервиса экспорта.
package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Routes
// ============================================================

// Register вешает маршруты экспорта на router.
func Register(router fiber.Router, exports *ExportHandler, designs *DesignHandler) {
	rooms := router.Group("/rooms/:room")
	rooms.Put("/design", designs.PutDesign)
	rooms.Get("/surface", designs.GetSurface)
	rooms.Post("/exports/template", exports.ExportTemplate)
	rooms.Post("/exports/ai", exports.ExportAI)

	router.Get("/exports/:id", exports.GetRun)

	router.Get("/docs/openapi.yaml", OpenAPISpec)
	router.Get("/docs", SwaggerUI("docs/openapi.yaml"))
}
