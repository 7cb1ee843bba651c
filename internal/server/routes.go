package server

import (
	"github.com/caredx/genogram/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Genogram routes
	apiRoutes.POST("/genogram/layout", routes.LayoutGenogramHandler)
	apiRoutes.POST("/genogram/generate", routes.GenerateGenogramHandler)
	apiRoutes.GET("/genogram/schema", routes.GetGenogramSchemaHandler)

	// Model usage routes
	apiRoutes.GET("/ai/metrics", routes.GetAIMetricsHandler)
	apiRoutes.DELETE("/ai/metrics", routes.ResetAIMetricsHandler)
}
