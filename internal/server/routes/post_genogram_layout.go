package routes

import (
	"io"
	"net/http"
	"strings"

	"github.com/caredx/genogram/internal/server/middleware"
	"github.com/caredx/genogram/pkg/genogram"
	"github.com/caredx/genogram/pkg/logger"

	"github.com/labstack/echo/v4"
)

// LayoutGenogramHandler sanitizes, completes and lays out a genogram posted in
// either the current or the legacy shape. The body may be wrapped in an API
// envelope or a markdown code fence.
func LayoutGenogramHandler(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		logger.Error("Failed to read request body", "err", err)
		return c.JSON(http.StatusBadRequest, genogramResponse{
			Error: "Invalid request body",
		})
	}
	if strings.TrimSpace(string(body)) == "" {
		return c.JSON(http.StatusBadRequest, genogramResponse{
			Error: "Request body is empty",
		})
	}

	pipeline := c.(*middleware.AppContext).App.Pipeline
	res := pipeline.ProcessJSON(body)

	status := http.StatusOK
	if res.Shape == genogram.ShapeUnknown {
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, newGenogramResponse(res))
}
