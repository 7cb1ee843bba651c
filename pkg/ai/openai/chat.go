package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caredx/genogram/pkg/ai"
	"github.com/caredx/genogram/pkg/logger"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
)

var errNoClient = errors.New("openai client is not configured (missing api key)")

func (c *GraphOpenAIClient) messages(options ai.GenerateOptions, prompt string) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(options.SystemPrompts)+1)
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, openai.SystemMessage(sp))
	}
	return append(msgs, openai.UserMessage(prompt))
}

func (c *GraphOpenAIClient) applyThinking(body *openai.ChatCompletionNewParams, options ai.GenerateOptions) {
	if options.Thinking == "" {
		return
	}
	// reasoning models on the official endpoint only accept a temperature of 1
	if c.chatURL == "" {
		body.Temperature = openai.Float(1.0)
	}
	body.ReasoningEffort = shared.ReasoningEffort(options.Thinking)
}

func (c *GraphOpenAIClient) complete(ctx context.Context, body openai.ChatCompletionNewParams) (string, error) {
	if c.ChatClient == nil {
		return "", errNoClient
	}

	start := time.Now()
	response, err := c.ChatClient.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	duration := time.Since(start).Milliseconds()

	c.metrics.Add(ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   duration,
	})
	logger.Debug("[AI] Completion finished", "model", body.Model, "duration_ms", duration, "tokens", response.Usage.TotalTokens)

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response from model")
	}
	message := response.Choices[0].Message.Content
	if message == "" {
		return "", fmt.Errorf("empty response from model (finish_reason: %s)", response.Choices[0].FinishReason)
	}
	return message, nil
}

// GenerateCompletionWithFormat sends a prompt to the chat model and
// unmarshals the response into out, using the JSON schema of out as a strict
// response format.
//
// Example:
//
//	var out extractResponse
//	err := client.GenerateCompletionWithFormat(ctx, "genogram", "Family graph", text, &out)
func (c *GraphOpenAIClient) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        name,
		Description: openai.String(description),
		Schema:      ai.GenerateSchema(out),
		Strict:      openai.Bool(true),
	}

	options := ai.ApplyOptions(ai.GenerateOptions{
		Model:       c.extractionModel,
		Temperature: 0.1,
	}, opts...)

	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(options.Model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
		Messages:    c.messages(options, prompt),
		Temperature: openai.Float(options.Temperature),
	}
	c.applyThinking(&body, options)

	message, err := c.complete(ctx, body)
	if err != nil {
		return err
	}
	return ai.UnmarshalFlexible(message, out)
}
