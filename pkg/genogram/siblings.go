package genogram

import (
	"fmt"

	"github.com/caredx/genogram/pkg/common"
)

const (
	unknownFatherLabel = "父（不明）"
	unknownMotherLabel = "母（不明）"
	siblingParentNote  = "兄弟姉妹関係から推定された親"
)

// SynthesizeSiblings removes every sibling relation from g and routes the
// siblings through a common parents union instead.
//
// An edge is sibling-indicative when it joins two persons and is a sibling
// hint or carries a sibling relation label. Untyped edges towards a person
// named with a sibling token already arrive as hints from Sanitize. Sibling
// edges are grouped into connected sets. A set
// whose member already has a parent shares that parent with the rest of the
// set; otherwise an unknown father, an unknown mother and their union node are
// synthesized.
//
// On return g contains only union and parent-child edges.
func SynthesizeSiblings(g *common.Graph, c KinshipClassifier, d *Diagnostics) {
	if c == nil {
		c = NewDefaultClassifier()
	}

	kept := make([]common.Edge, 0, len(g.Edges))
	sets := newSiblingSets()

	for _, e := range g.Edges {
		src, _ := g.Node(e.Source)
		tgt, _ := g.Node(e.Target)
		bothPersons := src != nil && tgt != nil && src.IsPerson() && tgt.IsPerson()

		if !bothPersons {
			if e.Kind == common.EdgeKindSiblingHint {
				d.add(StageSiblings, DiagDroppedEdge, e.ID, "sibling edge %q does not join two persons", e.ID)
				continue
			}
			kept = append(kept, e)
			continue
		}

		if isSiblingEdge(e, c) {
			d.add(StageSiblings, DiagSiblingEdge, e.ID, "edge %q -> %q classified as sibling relation", e.Source, e.Target)
			sets.join(e.Source, e.Target)
			continue
		}
		kept = append(kept, e)
	}
	g.Edges = kept

	for _, members := range sets.groups() {
		if parent, ok := existingParent(g, members); ok {
			for _, m := range members {
				if hasIncoming(g, m, common.EdgeKindParentChild) {
					continue
				}
				g.AddEdge(common.Edge{
					ID:     g.UniqueEdgeID(fmt.Sprintf("e-%s-%s", parent, m)),
					Source: parent,
					Target: m,
					Kind:   common.EdgeKindParentChild,
				})
			}
			d.add(StageSiblings, DiagReusedParents, parent, "sibling set of %d shares existing parent %q", len(members), parent)
			continue
		}
		synthesizeParents(g, members, d)
	}
}

func isSiblingEdge(e common.Edge, c KinshipClassifier) bool {
	return e.Kind == common.EdgeKindSiblingHint || c.IsSiblingRelation(e.Relation)
}

// existingParent returns the source of the first parent-child edge into any
// member, following member order and then edge order.
func existingParent(g *common.Graph, members []string) (string, bool) {
	for _, m := range members {
		for _, e := range g.Edges {
			if e.Kind == common.EdgeKindParentChild && e.Target == m {
				return e.Source, true
			}
		}
	}
	return "", false
}

func hasIncoming(g *common.Graph, id string, kind common.EdgeKind) bool {
	for _, e := range g.Edges {
		if e.Target == id && e.Kind == kind {
			return true
		}
	}
	return false
}

func synthesizeParents(g *common.Graph, members []string, d *Diagnostics) {
	anchor := members[0]

	father := placeholderParent(g, "implicit-father-"+anchor, unknownFatherLabel, common.GenderMale)
	g.AddNode(father)
	mother := placeholderParent(g, "implicit-mother-"+anchor, unknownMotherLabel, common.GenderFemale)
	g.AddNode(mother)

	union := common.Node{
		ID:         g.UniqueNodeID("implicit-union-" + anchor),
		Kind:       common.NodeKindUnion,
		RawType:    "union",
		Generation: common.PlaceholderGeneration,
		Union:      &common.Union{Status: common.StatusUnknown},
	}
	g.AddNode(union)

	for _, p := range []string{father.ID, mother.ID} {
		g.AddEdge(common.Edge{
			ID:     g.UniqueEdgeID(fmt.Sprintf("e-%s-%s", p, union.ID)),
			Source: p,
			Target: union.ID,
			Kind:   common.EdgeKindUnion,
		})
	}
	for _, m := range members {
		g.AddEdge(common.Edge{
			ID:     g.UniqueEdgeID(fmt.Sprintf("e-%s-%s", union.ID, m)),
			Source: union.ID,
			Target: m,
			Kind:   common.EdgeKindParentChild,
		})
	}

	d.add(StageSiblings, DiagSynthParents, union.ID, "synthesized unknown parents for %d siblings", len(members))
}

func placeholderParent(g *common.Graph, base, label string, gender common.Gender) common.Node {
	return common.Node{
		ID:         g.UniqueNodeID(base),
		Kind:       common.NodeKindPerson,
		RawType:    "person",
		Generation: common.PlaceholderGeneration,
		Person: &common.Person{
			Name:        label,
			Gender:      gender,
			Note:        siblingParentNote,
			Placeholder: common.PlaceholderParent,
		},
	}
}

// siblingSets is a union-find over node ids that remembers first-seen order,
// so groups come out in a stable order with each set's first source leading.
type siblingSets struct {
	parent map[string]string
	order  []string
}

func newSiblingSets() *siblingSets {
	return &siblingSets{parent: make(map[string]string)}
}

func (s *siblingSets) add(id string) {
	if _, ok := s.parent[id]; ok {
		return
	}
	s.parent[id] = id
	s.order = append(s.order, id)
}

func (s *siblingSets) find(id string) string {
	for s.parent[id] != id {
		s.parent[id] = s.parent[s.parent[id]]
		id = s.parent[id]
	}
	return id
}

func (s *siblingSets) join(a, b string) {
	s.add(a)
	s.add(b)
	ra, rb := s.find(a), s.find(b)
	if ra == rb {
		return
	}
	// the earlier-seen root wins so the set keeps its first source as anchor
	if s.index(ra) < s.index(rb) {
		s.parent[rb] = ra
	} else {
		s.parent[ra] = rb
	}
}

func (s *siblingSets) index(id string) int {
	for i, v := range s.order {
		if v == id {
			return i
		}
	}
	return len(s.order)
}

func (s *siblingSets) groups() [][]string {
	byRoot := make(map[string]int)
	out := make([][]string, 0)
	for _, id := range s.order {
		root := s.find(id)
		i, ok := byRoot[root]
		if !ok {
			i = len(out)
			byRoot[root] = i
			out = append(out, nil)
		}
		out[i] = append(out[i], id)
	}
	return out
}
