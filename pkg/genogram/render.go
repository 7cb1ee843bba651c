package genogram

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/caredx/genogram/pkg/common"
)

// RenderGraph is the diagram representation handed to the front end. It uses
// the current input shape, so a rendered (and possibly dragged) graph can be
// posted back as input.
type RenderGraph struct {
	Nodes []RenderNode `json:"nodes" jsonschema_description:"Diagram nodes, persons and union junctions"`
	Edges []RenderEdge `json:"edges" jsonschema_description:"Diagram edges, union and parent-child"`
}

// RenderNode is a positioned diagram node.
type RenderNode struct {
	ID        string          `json:"id"`
	Type      string          `json:"type" jsonschema:"enum=person,enum=union" jsonschema_description:"Node type, or the raw type of an unrecognized node"`
	Position  common.Position `json:"position"`
	Draggable *bool           `json:"draggable,omitempty"`
	Data      RenderNodeData  `json:"data"`
}

// RenderNodeData carries the attributes shown on a node.
type RenderNodeData struct {
	Label       string `json:"label,omitempty"`
	Gender      string `json:"gender,omitempty" jsonschema:"enum=male,enum=female,enum=unknown"`
	IsDeceased  bool   `json:"isDeceased,omitempty"`
	IsSelf      bool   `json:"isSelf,omitempty"`
	IsKeyPerson bool   `json:"isKeyPerson,omitempty"`
	Generation  int    `json:"generation"`
	Note        string `json:"note,omitempty"`
	Placeholder string `json:"placeholder,omitempty" jsonschema:"enum=parent,enum=spouse"`
	Status      string `json:"status,omitempty"`
}

// RenderEdge is a diagram edge.
type RenderEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type" jsonschema:"enum=union,enum=parent-child"`
	Label  string `json:"label,omitempty"`
}

// Render converts g into its diagram representation. Nodes without a position
// are rendered at the origin.
func Render(g *common.Graph) RenderGraph {
	out := RenderGraph{
		Nodes: make([]RenderNode, 0, len(g.Nodes)),
		Edges: make([]RenderEdge, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		rn := RenderNode{
			ID:   n.ID,
			Type: string(n.Kind),
			Data: RenderNodeData{Generation: n.Generation},
		}
		if n.Position != nil {
			rn.Position = *n.Position
		}
		switch {
		case n.IsPerson():
			p := n.Person
			rn.Data.Label = p.Name
			rn.Data.Gender = string(p.Gender)
			rn.Data.IsDeceased = p.Deceased
			rn.Data.IsSelf = p.IsSelf
			rn.Data.IsKeyPerson = p.IsKeyPerson
			rn.Data.Note = p.Note
			rn.Data.Placeholder = string(p.Placeholder)
		case n.IsUnion():
			draggable := false
			rn.Draggable = &draggable
			if n.Union != nil {
				rn.Data.Status = string(n.Union.Status)
			}
		default:
			rn.Type = n.RawType
		}
		out.Nodes = append(out.Nodes, rn)
	}

	for _, e := range g.Edges {
		out.Edges = append(out.Edges, RenderEdge{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Type:   string(e.Kind),
			Label:  e.Relation,
		})
	}

	return out
}

// Fingerprint returns the hex SHA-256 of the JSON encoding of rg. Two graphs
// with the same fingerprint render identically.
func Fingerprint(rg RenderGraph) string {
	b, err := json.Marshal(rg)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
