package openai

import (
	"github.com/caredx/genogram/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// GraphOpenAIClient talks to an OpenAI compatible chat completion API.
//
// A GraphOpenAIClient should be created using NewGraphOpenAIClient.
type GraphOpenAIClient struct {
	extractionModel string

	chatURL string

	metrics ai.MetricsRecorder

	ChatClient *openai.Client
}

// NewGraphOpenAIClientParams defines the configuration parameters for creating
// a new GraphOpenAIClient.
//
// ExtractionModel is used for structured output. ChatURL may be empty to use
// the official endpoint.
type NewGraphOpenAIClientParams struct {
	ExtractionModel string

	ChatURL string
	ChatKey string
}

// NewGraphOpenAIClient creates a client configured with the provided
// parameters.
//
// Example:
//
//	client := openai.NewGraphOpenAIClient(openai.NewGraphOpenAIClientParams{
//		ExtractionModel: "gpt-4o-mini",
//		ChatKey:         os.Getenv("OPENAI_API_KEY"),
//	})
func NewGraphOpenAIClient(
	params NewGraphOpenAIClientParams,
) *GraphOpenAIClient {
	return &GraphOpenAIClient{
		extractionModel: params.ExtractionModel,
		chatURL:         params.ChatURL,
		ChatClient:      newOpenaiClient(params.ChatURL, params.ChatKey),
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}

// ResetMetrics clears all accumulated token and timing metrics.
func (c *GraphOpenAIClient) ResetMetrics() {
	c.metrics.Reset()
}

// GetMetrics returns the accumulated token usage and timing metrics since the
// last reset.
func (c *GraphOpenAIClient) GetMetrics() ai.ModelMetrics {
	return c.metrics.Snapshot()
}
