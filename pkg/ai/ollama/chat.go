package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/caredx/genogram/pkg/ai"
	"github.com/caredx/genogram/pkg/logger"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
)

const (
	defaultContext  = 4096
	responseReserve = 1024
)

// contextSize estimates the context window needed for the prompt plus the
// answer. It returns 0 when the server default is large enough.
func contextSize(msgs []api.Message) (int, error) {
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return 0, err
	}
	tokens := responseReserve
	for _, m := range msgs {
		tokens += len(enc.Encode(m.Content, nil, nil))
	}
	if tokens <= defaultContext {
		return 0, nil
	}
	return tokens, nil
}

func messages(options ai.GenerateOptions, prompt string) []api.Message {
	msgs := make([]api.Message, 0, len(options.SystemPrompts)+1)
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, api.Message{Role: "system", Content: sp})
	}
	return append(msgs, api.Message{Role: "user", Content: prompt})
}

func (c *GraphOllamaClient) chat(ctx context.Context, req *api.ChatRequest, options ai.GenerateOptions) (string, error) {
	if options.Thinking != "" {
		req.Think = &api.ThinkValue{
			Value: options.Thinking,
		}
	}

	numCtx, err := contextSize(req.Messages)
	if err != nil {
		return "", err
	}
	if numCtx > 0 {
		req.Options["num_ctx"] = numCtx
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.reqLock.Release(1)

	var final api.ChatResponse
	if err := c.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}

	durationMs := final.Metrics.TotalDuration.Milliseconds()
	c.metrics.Add(ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   durationMs,
	})
	logger.Debug("[AI] Completion finished", "model", req.Model, "duration_ms", durationMs, "num_ctx", numCtx)

	if final.Message.Content == "" {
		return "", errors.New("empty response from model")
	}
	return final.Message.Content, nil
}

// GenerateCompletionWithFormat enforces the JSON schema of out and unmarshals
// the answer into out.
func (c *GraphOllamaClient) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	if out == nil {
		return errors.New("out must be a non-nil pointer")
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("out must be a non-nil pointer")
	}

	formatBytes, err := json.Marshal(ai.GenerateSchema(out))
	if err != nil {
		return err
	}

	options := ai.ApplyOptions(ai.GenerateOptions{
		Model:       c.extractionModel,
		Temperature: 0.1,
	}, opts...)

	stream := false
	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: messages(options, prompt),
		Stream:   &stream,
		Format:   json.RawMessage(formatBytes),
		Options:  map[string]any{"temperature": options.Temperature},
	}

	content, err := c.chat(ctx, req, options)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return ai.UnmarshalFlexible(content, out)
}
