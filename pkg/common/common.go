package common

import (
	"strconv"
	"strings"
)

// Graph is the strict genogram representation every pipeline stage works on.
// Nodes and edges live in ordered slices and reference each other by id only;
// the slice order is the iteration order of every stage, which is what makes
// the layout reproducible.
//
// A graph contains:
//   - Nodes: persons, union (marriage) junctions and pass-through nodes
//   - Edges: union edges between partners and union nodes, and parent-child
//     edges from a union node to a child
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	index map[string]int
}

// NodeKind distinguishes persons from union junctions.
type NodeKind string

const (
	NodeKindPerson  NodeKind = "person"
	NodeKindUnion   NodeKind = "union"
	NodeKindUnknown NodeKind = "unknown"
)

// Gender is the normalized gender of a person.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// UnionStatus is the relationship status carried by a union node.
type UnionStatus string

const (
	StatusMarried       UnionStatus = "married"
	StatusDivorced      UnionStatus = "divorced"
	StatusSeparated     UnionStatus = "separated"
	StatusUnknown       UnionStatus = "unknown"
	StatusNotApplicable UnionStatus = "not-applicable"
)

// EdgeKind classifies an edge.
//
// EdgeKindSiblingHint only exists between sanitization and sibling synthesis
// and never reaches the final graph.
type EdgeKind string

const (
	EdgeKindUnion       EdgeKind = "union"
	EdgeKindParentChild EdgeKind = "parent-child"
	EdgeKindSiblingHint EdgeKind = "sibling-hint"
)

// Placeholder tags persons that were synthesized to stand in for a relative
// missing from the input.
type Placeholder string

const (
	PlaceholderNone   Placeholder = ""
	PlaceholderParent Placeholder = "parent"
	PlaceholderSpouse Placeholder = "spouse"
)

// PlaceholderGeneration is the generation hint carried by synthesized parents
// until the generation assigner runs.
const PlaceholderGeneration = -1

// Position is a 2D coordinate on the rendering surface.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsDefault reports whether p is absent or still at the origin.
func (p *Position) IsDefault() bool {
	return p == nil || (p.X == 0 && p.Y == 0)
}

// Person holds the attributes of a PersonNode.
type Person struct {
	Name        string      `json:"name"`
	Gender      Gender      `json:"gender"`
	Deceased    bool        `json:"deceased"`
	IsSelf      bool        `json:"is_self"`
	IsKeyPerson bool        `json:"is_key_person"`
	Note        string      `json:"note,omitempty"`
	Placeholder Placeholder `json:"placeholder,omitempty"`
}

// Union holds the attributes of a UnionNode.
type Union struct {
	Status UnionStatus `json:"status"`
}

// Node is a single genogram node. Exactly one of Person or Union is set for
// person and union nodes; unknown nodes carry neither and keep their raw type.
//
// Position is the explicit position from the input (or a user drag) until the
// layout engine runs, after which it always holds the final coordinates.
type Node struct {
	ID         string    `json:"id"`
	Kind       NodeKind  `json:"kind"`
	RawType    string    `json:"raw_type,omitempty"`
	Generation int       `json:"generation"`
	Position   *Position `json:"position,omitempty"`
	Person     *Person   `json:"person,omitempty"`
	Union      *Union    `json:"union,omitempty"`
}

// IsPerson reports whether n is a person node.
func (n *Node) IsPerson() bool { return n.Kind == NodeKindPerson && n.Person != nil }

// IsUnion reports whether n is a union node.
func (n *Node) IsUnion() bool { return n.Kind == NodeKindUnion }

// Label returns the display label of the node.
func (n *Node) Label() string {
	if n.Person != nil {
		return n.Person.Name
	}
	return ""
}

// Edge is a directed, typed connection between two nodes.
type Edge struct {
	ID       string   `json:"id"`
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Kind     EdgeKind `json:"kind"`
	Relation string   `json:"relation,omitempty"`
}

// NewGraph returns an empty graph with an initialized index.
func NewGraph() *Graph {
	return &Graph{
		Nodes: make([]Node, 0),
		Edges: make([]Edge, 0),
		index: make(map[string]int),
	}
}

// Reindex rebuilds the id index after Nodes was modified directly.
// Later duplicates never shadow the first node with the same id.
func (g *Graph) Reindex() {
	g.index = make(map[string]int, len(g.Nodes))
	for i := range g.Nodes {
		if _, ok := g.index[g.Nodes[i].ID]; !ok {
			g.index[g.Nodes[i].ID] = i
		}
	}
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	if g.index == nil || len(g.index) != len(g.Nodes) {
		g.Reindex()
	}
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.Nodes[i], true
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.Node(id)
	return ok
}

// AddNode appends n and indexes it. It returns false when the id is taken.
func (g *Graph) AddNode(n Node) bool {
	if g.HasNode(n.ID) {
		return false
	}
	g.Nodes = append(g.Nodes, n)
	g.index[n.ID] = len(g.Nodes) - 1
	return true
}

// AddEdge appends e.
func (g *Graph) AddEdge(e Edge) {
	g.Edges = append(g.Edges, e)
}

// HasEdge reports whether an edge of kind runs from source to target.
func (g *Graph) HasEdge(source, target string, kind EdgeKind) bool {
	for _, e := range g.Edges {
		if e.Source == source && e.Target == target && e.Kind == kind {
			return true
		}
	}
	return false
}

// HasEdgeID reports whether an edge with the given id exists.
func (g *Graph) HasEdgeID(id string) bool {
	for _, e := range g.Edges {
		if e.ID == id {
			return true
		}
	}
	return false
}

// UniqueNodeID returns base, or base with the smallest numeric suffix that is
// not yet used by a node.
func (g *Graph) UniqueNodeID(base string) string {
	if !g.HasNode(base) {
		return base
	}
	for i := 2; ; i++ {
		id := base + "-" + strconv.Itoa(i)
		if !g.HasNode(id) {
			return id
		}
	}
}

// UniqueEdgeID returns base, or base with the smallest numeric suffix that is
// not yet used by an edge.
func (g *Graph) UniqueEdgeID(base string) string {
	used := make(map[string]struct{}, len(g.Edges))
	for _, e := range g.Edges {
		used[e.ID] = struct{}{}
	}
	if _, ok := used[base]; !ok {
		return base
	}
	for i := 2; ; i++ {
		id := base + "-" + strconv.Itoa(i)
		if _, ok := used[id]; !ok {
			return id
		}
	}
}

// ParseGender normalizes free-form gender input. Only recognized male and
// female spellings map to a gender; everything else is unknown.
func ParseGender(v string) Gender {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "male", "m", "man", "男", "男性":
		return GenderMale
	case "female", "f", "woman", "女", "女性":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// Opposite returns the opposite gender, or unknown when g is unknown.
func (g Gender) Opposite() Gender {
	switch g {
	case GenderMale:
		return GenderFemale
	case GenderFemale:
		return GenderMale
	default:
		return GenderUnknown
	}
}

// ParseUnionStatus normalizes a free-form relationship status.
func ParseUnionStatus(v string) UnionStatus {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "married", "marriage", "婚姻", "既婚", "結婚":
		return StatusMarried
	case "divorced", "divorce", "離婚":
		return StatusDivorced
	case "separated", "separation", "別居":
		return StatusSeparated
	case "not-applicable", "n/a", "na", "none":
		return StatusNotApplicable
	default:
		return StatusUnknown
	}
}
