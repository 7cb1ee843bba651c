package routes

import (
	"net/http"

	"github.com/caredx/genogram/internal/server/middleware"
	"github.com/caredx/genogram/pkg/ai"

	"github.com/labstack/echo/v4"
)

type aiMetricsResponse struct {
	Message string           `json:"message,omitempty"`
	Metrics *ai.ModelMetrics `json:"metrics,omitempty"`
}

// GetAIMetricsHandler returns the token usage accumulated by the model client
// since the last reset.
func GetAIMetricsHandler(c echo.Context) error {
	client := c.(*middleware.AppContext).App.AiClient
	if client == nil {
		return c.JSON(http.StatusServiceUnavailable, aiMetricsResponse{
			Message: "Text extraction is not configured",
		})
	}

	metrics := client.GetMetrics()
	return c.JSON(http.StatusOK, aiMetricsResponse{
		Metrics: &metrics,
	})
}

// ResetAIMetricsHandler clears the accumulated token usage.
func ResetAIMetricsHandler(c echo.Context) error {
	client := c.(*middleware.AppContext).App.AiClient
	if client == nil {
		return c.JSON(http.StatusServiceUnavailable, aiMetricsResponse{
			Message: "Text extraction is not configured",
		})
	}

	client.ResetMetrics()
	return c.JSON(http.StatusOK, aiMetricsResponse{
		Message: "Metrics reset",
	})
}
