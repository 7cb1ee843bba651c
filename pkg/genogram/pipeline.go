package genogram

import (
	"encoding/json"
	"fmt"

	"github.com/caredx/genogram/pkg/ai"
	"github.com/caredx/genogram/pkg/common"
	"github.com/caredx/genogram/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Pipeline runs payloads through every stage. It holds no per-run state and
// is safe for concurrent use.
type Pipeline struct {
	classifier KinshipClassifier
	layout     LayoutConfig
	maxRetries int
	thinking   string
}

// NewPipelineParams configures a Pipeline. A nil Classifier selects the
// default vocabulary, a zero Layout the default spacing and MaxRetries below
// one a single extraction attempt. Thinking is passed to the model as the
// reasoning effort for text extraction; empty disables it.
type NewPipelineParams struct {
	Classifier KinshipClassifier
	Layout     LayoutConfig
	MaxRetries int
	Thinking   string
}

func NewPipeline(params NewPipelineParams) *Pipeline {
	c := params.Classifier
	if c == nil {
		c = NewDefaultClassifier()
	}
	layout := params.Layout
	if layout == (LayoutConfig{}) {
		layout = DefaultLayoutConfig()
	}
	retries := params.MaxRetries
	if retries < 1 {
		retries = 1
	}
	return &Pipeline{
		classifier: c,
		layout:     layout,
		maxRetries: retries,
		thinking:   params.Thinking,
	}
}

// Result is the outcome of one pipeline run.
type Result struct {
	ID          string        `json:"id"`
	Shape       Shape         `json:"shape"`
	Graph       *common.Graph `json:"-"`
	Render      RenderGraph   `json:"graph"`
	Fingerprint string        `json:"fingerprint"`
	Diagnostics []Diagnostic  `json:"diagnostics"`
}

// Process detects the shape of a decoded JSON payload and runs it through the
// matching stages. Payloads of any other Go type are converted through their
// JSON encoding first. An unrecognized payload yields an empty graph.
func (p *Pipeline) Process(payload any) *Result {
	d := &Diagnostics{}
	in, ok := Detect(normalizePayload(payload))
	if !ok {
		d.add(StageDetect, DiagUnknownShape, "", "payload has neither nodes nor members")
		return p.finish(ShapeUnknown, common.NewGraph(), d)
	}
	return p.run(in, d)
}

// ProcessInput runs an already detected input.
func (p *Pipeline) ProcessInput(in Input) *Result {
	return p.run(in, &Diagnostics{})
}

// ProcessJSON decodes raw model or client output leniently and processes it.
func (p *Pipeline) ProcessJSON(raw []byte) *Result {
	var payload any
	if err := ai.UnmarshalFlexible(string(raw), &payload); err != nil {
		d := &Diagnostics{}
		d.add(StageDetect, DiagUnknownShape, "", "payload is not JSON: %v", err)
		return p.finish(ShapeUnknown, common.NewGraph(), d)
	}
	return p.Process(payload)
}

func (p *Pipeline) run(in Input, d *Diagnostics) (res *Result) {
	shape := ShapeUnknown
	if in != nil {
		shape = in.Shape()
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("[Genogram] Pipeline panicked", "shape", shape, "panic", r)
			d.add(StageDetect, DiagUnknownShape, "", "payload could not be processed: %v", r)
			res = p.finish(shape, common.NewGraph(), d)
		}
	}()

	var g *common.Graph
	switch v := in.(type) {
	case CurrentInput:
		g = Sanitize(v, p.classifier, d)
		SynthesizeSiblings(g, p.classifier, d)
		SynthesizeSpouses(g, d)
		AssignGenerations(g, d)
	case LegacyInput:
		g = FromLegacy(v, p.classifier, d)
	default:
		d.add(StageDetect, DiagUnknownShape, "", "unsupported input %T", in)
		g = common.NewGraph()
	}
	Layout(g, p.layout)

	return p.finish(shape, g, d)
}

func (p *Pipeline) finish(shape Shape, g *common.Graph, d *Diagnostics) *Result {
	id, err := gonanoid.New()
	if err != nil {
		id = fmt.Sprintf("run-%d", len(g.Nodes))
	}

	rg := Render(g)
	res := &Result{
		ID:          id,
		Shape:       shape,
		Graph:       g,
		Render:      rg,
		Fingerprint: Fingerprint(rg),
		Diagnostics: d.Items(),
	}
	if res.Diagnostics == nil {
		res.Diagnostics = []Diagnostic{}
	}

	logger.Debug(
		"[Genogram] Processed payload",
		"run_id", id,
		"shape", shape,
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"diagnostics", d.Len(),
	)
	d.logSummary(id)

	return res
}

func normalizePayload(payload any) any {
	var raw string
	switch v := payload.(type) {
	case nil, map[string]any, []any:
		return payload
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		b, err := json.Marshal(payload)
		if err != nil {
			return nil
		}
		raw = string(b)
	}

	var out any
	if err := ai.UnmarshalFlexible(raw, &out); err != nil {
		return nil
	}
	return out
}
