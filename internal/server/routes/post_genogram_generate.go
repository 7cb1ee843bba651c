package routes

import (
	"errors"
	"net/http"

	"github.com/caredx/genogram/internal/server/middleware"
	"github.com/caredx/genogram/pkg/genogram"
	"github.com/caredx/genogram/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GenerateGenogramHandler extracts a genogram from free text with the
// configured model and returns it laid out.
func GenerateGenogramHandler(c echo.Context) error {
	type generateGenogramBody struct {
		Text string `json:"text" validate:"required"`
	}

	data := new(generateGenogramBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, genogramResponse{
			Error: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, genogramResponse{
			Error: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	res, err := app.Pipeline.Generate(c.Request().Context(), data.Text, app.AiClient)
	switch {
	case errors.Is(err, genogram.ErrEmptyText):
		return c.JSON(http.StatusBadRequest, genogramResponse{
			Error: "Text is empty",
		})
	case errors.Is(err, genogram.ErrNoClient):
		return c.JSON(http.StatusServiceUnavailable, genogramResponse{
			Error: "Text extraction is not configured",
		})
	case err != nil:
		logger.Error("Failed to generate genogram", "err", err)
		return c.JSON(http.StatusBadGateway, genogramResponse{
			Error: "Failed to generate genogram",
		})
	}

	return c.JSON(http.StatusOK, newGenogramResponse(res))
}
