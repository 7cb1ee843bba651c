package genogram

import (
	"fmt"

	"github.com/caredx/genogram/pkg/logger"
)

// Stage names the pipeline stage that emitted a diagnostic.
type Stage string

const (
	StageDetect     Stage = "detect"
	StageSanitize   Stage = "sanitize"
	StageSiblings   Stage = "siblings"
	StageSpouses    Stage = "spouses"
	StageGeneration Stage = "generation"
	StageLayout     Stage = "layout"
)

// DiagnosticKind classifies a diagnostic.
type DiagnosticKind string

const (
	DiagUnknownShape     DiagnosticKind = "unknown_shape"
	DiagDroppedNode      DiagnosticKind = "dropped_node"
	DiagDroppedEdge      DiagnosticKind = "dropped_edge"
	DiagGeneratedID      DiagnosticKind = "generated_id"
	DiagInferredEdgeKind DiagnosticKind = "inferred_edge_kind"
	DiagSiblingEdge      DiagnosticKind = "sibling_edge"
	DiagSynthParents     DiagnosticKind = "synthesized_parents"
	DiagReusedParents    DiagnosticKind = "reused_parents"
	DiagSynthSpouse      DiagnosticKind = "synthesized_spouse"
	DiagSynthUnion       DiagnosticKind = "synthesized_union"
	DiagReroutedEdge     DiagnosticKind = "rerouted_edge"
	DiagUnreachedNode    DiagnosticKind = "unreached_node"
)

// Diagnostic is a non-fatal observation made while processing a payload.
type Diagnostic struct {
	Stage   Stage          `json:"stage"`
	Kind    DiagnosticKind `json:"kind"`
	Subject string         `json:"subject,omitempty"`
	Message string         `json:"message"`
}

// Diagnostics collects diagnostics in emission order. The zero value is ready
// to use and a nil *Diagnostics silently discards everything.
type Diagnostics struct {
	items []Diagnostic
}

func (d *Diagnostics) add(stage Stage, kind DiagnosticKind, subject string, format string, args ...any) {
	if d == nil {
		return
	}
	d.items = append(d.items, Diagnostic{
		Stage:   stage,
		Kind:    kind,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	})
}

// Items returns the collected diagnostics.
func (d *Diagnostics) Items() []Diagnostic {
	if d == nil {
		return nil
	}
	return d.items
}

// Count returns how many diagnostics of kind were collected.
func (d *Diagnostics) Count(kind DiagnosticKind) int {
	if d == nil {
		return 0
	}
	n := 0
	for _, item := range d.items {
		if item.Kind == kind {
			n++
		}
	}
	return n
}

// Len returns the number of collected diagnostics.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}

func (d *Diagnostics) logSummary(runID string) {
	if d.Len() == 0 {
		return
	}
	counts := make(map[DiagnosticKind]int)
	order := make([]DiagnosticKind, 0)
	for _, item := range d.items {
		if _, ok := counts[item.Kind]; !ok {
			order = append(order, item.Kind)
		}
		counts[item.Kind]++
	}
	keyvals := []any{"run_id", runID}
	for _, k := range order {
		keyvals = append(keyvals, string(k), counts[k])
	}
	logger.Debug("[Genogram] Diagnostics", keyvals...)
}
