package routes

import (
	"net/http"

	"github.com/caredx/genogram/pkg/ai"
	"github.com/caredx/genogram/pkg/genogram"

	"github.com/labstack/echo/v4"
)

// GetGenogramSchemaHandler returns the JSON schema of the rendered graph.
func GetGenogramSchemaHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, ai.GenerateSchema(genogram.RenderGraph{}))
}
