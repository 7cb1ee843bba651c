package middleware

import (
	"github.com/caredx/genogram/internal/util"
	"github.com/caredx/genogram/pkg/ai"
	oai "github.com/caredx/genogram/pkg/ai/ollama"
	gai "github.com/caredx/genogram/pkg/ai/openai"
	"github.com/caredx/genogram/pkg/genogram"
	"github.com/caredx/genogram/pkg/logger"

	"github.com/labstack/echo/v4"
)

// App holds the dependencies shared by all request handlers.
type App struct {
	AiClient ai.GraphAIClient
	Pipeline *genogram.Pipeline
}

type AppContext struct {
	echo.Context
	App *App
}

// NewAIClient builds the model backend selected by AI_ADAPTER. It returns nil
// when no backend is configured, in which case text extraction is disabled.
func NewAIClient() ai.GraphAIClient {
	adapter := util.GetEnvString("AI_ADAPTER", "openai")

	switch adapter {
	case "ollama":
		client, err := oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
			ExtractionModel: util.GetEnv("AI_CHAT_EXTRACT_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),
		})
		if err != nil {
			logger.Error("Failed to create Ollama client", "err", err)
			return nil
		}
		return client
	case "openai":
		if util.GetEnv("AI_CHAT_KEY") == "" {
			logger.Warn("AI_CHAT_KEY is not set, text extraction is disabled")
			return nil
		}
		return gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
			ExtractionModel: util.GetEnvString("AI_CHAT_EXTRACT_MODEL", "gpt-4o-mini"),

			ChatURL: util.GetEnv("AI_CHAT_URL"),
			ChatKey: util.GetEnv("AI_CHAT_KEY"),
		})
	default:
		logger.Error("Unknown AI adapter, text extraction is disabled", "adapter", adapter)
		return nil
	}
}

// NewPipeline configures the genogram pipeline from the LAYOUT_*,
// AI_MAX_RETRIES and AI_THINKING variables.
func NewPipeline() *genogram.Pipeline {
	def := genogram.DefaultLayoutConfig()
	return genogram.NewPipeline(genogram.NewPipelineParams{
		Layout: genogram.LayoutConfig{
			OriginX:        util.GetEnvNumeric("LAYOUT_ORIGIN_X", def.OriginX),
			OriginY:        util.GetEnvNumeric("LAYOUT_ORIGIN_Y", def.OriginY),
			RowSpacing:     util.GetEnvNumeric("LAYOUT_ROW_SPACING", def.RowSpacing),
			NodeWidth:      util.GetEnvNumeric("LAYOUT_NODE_WIDTH", def.NodeWidth),
			GenerationSkew: util.GetEnvNumeric("LAYOUT_GENERATION_SKEW", def.GenerationSkew),
		},
		MaxRetries: int(util.GetEnvNumeric("AI_MAX_RETRIES", 3)),
		Thinking:   util.GetEnv("AI_THINKING"),
	})
}

func NewApp() *App {
	return &App{
		AiClient: NewAIClient(),
		Pipeline: NewPipeline(),
	}
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
