package genogram

// Shape identifies which of the supported payload layouts was detected.
type Shape string

const (
	ShapeCurrent Shape = "current"
	ShapeLegacy  Shape = "legacy"
	ShapeUnknown Shape = "unknown"
)

// Record is one raw, untyped JSON object from the payload.
type Record = map[string]any

// Input is the detected payload. It is either CurrentInput or LegacyInput and
// is resolved once, at the boundary, before any graph logic runs.
type Input interface {
	Shape() Shape
}

// CurrentInput is the {nodes, edges} payload emitted by the extraction service
// and by the rendering surface after an edit.
type CurrentInput struct {
	Nodes []Record
	Edges []Record
}

// Shape implements Input.
func (CurrentInput) Shape() Shape { return ShapeCurrent }

// LegacyInput is the older {members, marriages} payload whose members carry an
// explicit generation.
type LegacyInput struct {
	Members   []Record
	Marriages []Record
}

// Shape implements Input.
func (LegacyInput) Shape() Shape { return ShapeLegacy }

// envelopeKeys are wrapper keys the upstream API puts around the graph.
var envelopeKeys = []string{"data", "genogram", "result"}

// Detect inspects a decoded JSON payload and returns the matching input shape.
//
// A top-level array resolves to its first element, and an object that carries
// neither shape is searched through the envelope keys ("data", "genogram",
// "result"). The second return value is false when no shape was recognized.
func Detect(payload any) (Input, bool) {
	return detect(payload, 0)
}

func detect(payload any, depth int) (Input, bool) {
	if depth > 3 {
		return nil, false
	}

	switch v := payload.(type) {
	case []any:
		if len(v) == 0 {
			return nil, false
		}
		return detect(v[0], depth+1)
	case map[string]any:
		if nodes, ok := v["nodes"]; ok {
			if list, ok := nodes.([]any); ok {
				return CurrentInput{
					Nodes: records(list),
					Edges: records(asList(v["edges"])),
				}, true
			}
		}
		if members, ok := v["members"]; ok {
			if list, ok := members.([]any); ok {
				return LegacyInput{
					Members:   records(list),
					Marriages: records(asList(v["marriages"])),
				}, true
			}
		}
		for _, key := range envelopeKeys {
			if inner, ok := v[key]; ok {
				if in, ok := detect(inner, depth+1); ok {
					return in, true
				}
			}
		}
	}

	return nil, false
}

func asList(v any) []any {
	list, _ := v.([]any)
	return list
}

// records keeps list entries that are JSON objects. Non-object entries are
// replaced by nil so that indices still line up with the raw payload.
func records(list []any) []Record {
	out := make([]Record, 0, len(list))
	for _, item := range list {
		rec, _ := item.(map[string]any)
		out = append(out, rec)
	}
	return out
}
