package genogram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caredx/genogram/internal/util"
	"github.com/caredx/genogram/pkg/ai"
	"github.com/caredx/genogram/pkg/logger"
)

var (
	ErrEmptyText = errors.New("text is empty")
	ErrNoClient  = errors.New("no ai client configured")
)

// extractBackoff spaces out retries against rate limited model endpoints.
var extractBackoff = util.ExponentialBackoff(2*time.Second, 30*time.Second)

type extractResponse struct {
	Nodes []extractNode `json:"nodes" jsonschema_description:"One node per family member and one union node per couple"`
	Edges []extractEdge `json:"edges" jsonschema_description:"Relations between the nodes"`
}

type extractNode struct {
	ID          string `json:"id" jsonschema_description:"Short unique id such as p1 or u1"`
	Type        string `json:"type" jsonschema:"enum=person,enum=union"`
	Label       string `json:"label" jsonschema_description:"Kinship term or name, 本人 for the index subject"`
	Gender      string `json:"gender" jsonschema:"enum=male,enum=female,enum=unknown"`
	Deceased    bool   `json:"deceased"`
	IsSelf      bool   `json:"isSelf"`
	IsKeyPerson bool   `json:"isKeyPerson"`
	Generation  int    `json:"generation" jsonschema_description:"0 for the parents of the index subject"`
	Note        string `json:"note"`
	Status      string `json:"status" jsonschema:"enum=married,enum=divorced,enum=separated,enum=unknown"`
}

type extractEdge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Type     string `json:"type" jsonschema:"enum=union,enum=parent-child,enum=sibling"`
	Relation string `json:"relation" jsonschema_description:"Free text relation such as 夫婦, 親子 or 姉妹"`
}

// input converts the model answer into the current input shape so it takes
// the same sanitizing path as client payloads.
func (r extractResponse) input() CurrentInput {
	in := CurrentInput{
		Nodes: make([]Record, 0, len(r.Nodes)),
		Edges: make([]Record, 0, len(r.Edges)),
	}
	for _, n := range r.Nodes {
		data := Record{
			"generation": float64(n.Generation),
		}
		if n.Type == "union" {
			data["status"] = n.Status
		} else {
			data["label"] = n.Label
			data["gender"] = n.Gender
			data["isDeceased"] = n.Deceased
			data["isSelf"] = n.IsSelf
			data["isKeyPerson"] = n.IsKeyPerson
			data["note"] = n.Note
		}
		in.Nodes = append(in.Nodes, Record{
			"id":   n.ID,
			"type": n.Type,
			"data": data,
		})
	}
	for _, e := range r.Edges {
		in.Edges = append(in.Edges, Record{
			"source":   e.Source,
			"target":   e.Target,
			"type":     e.Type,
			"relation": e.Relation,
		})
	}
	return in
}

// Generate asks client to extract a genogram from free text and processes the
// answer. Extraction is retried on failure; only extraction errors are
// returned, record-level problems end up in the result diagnostics.
func (p *Pipeline) Generate(ctx context.Context, text string, client ai.GraphAIClient) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if client == nil {
		return nil, ErrNoClient
	}

	opts := []ai.GenerateOption{
		ai.WithSystemPrompts(ai.GenogramExtractPrompt),
		ai.WithTemperature(0.1),
	}
	if p.thinking != "" {
		opts = append(opts, ai.WithThinking(p.thinking))
	}

	start := time.Now()
	before := client.GetMetrics()
	var resp extractResponse
	err := util.RetryErrWithBackoff(ctx, p.maxRetries, extractBackoff, func(ctx context.Context) error {
		resp = extractResponse{}
		err := client.GenerateCompletionWithFormat(
			ctx,
			"genogram",
			"Family members and relations extracted from a case record",
			ai.GenogramExtractInput(text),
			&resp,
			opts...,
		)
		if err != nil {
			logger.Warn("[Genogram] Extraction attempt failed", "err", err)
			return err
		}
		if len(resp.Nodes) == 0 {
			return errors.New("model returned no nodes")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract genogram: %w", err)
	}

	res := p.ProcessInput(resp.input())
	after := client.GetMetrics()
	logger.Info(
		"[Genogram] Generated from text",
		"run_id", res.ID,
		"nodes", len(res.Render.Nodes),
		"edges", len(res.Render.Edges),
		"input_tokens", max(after.InputTokens-before.InputTokens, 0),
		"output_tokens", max(after.OutputTokens-before.OutputTokens, 0),
		"duration", time.Since(start),
	)
	return res, nil
}
