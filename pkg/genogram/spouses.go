package genogram

import (
	"fmt"

	"github.com/caredx/genogram/pkg/common"
)

const (
	unknownSpouseLabel = "配偶者（不明）"
	spouseNote         = "親子関係から推定された配偶者"
)

// SynthesizeSpouses routes every parent-child relation through a union node.
//
// Edges that cannot be routed are dropped first: parent-child edges must lead
// from a person or a union to a person, and union edges must join a person to
// a person or to a union. Direct partner edges between two persons are first turned into a union node
// joined by two union edges. Then every parent-child edge that starts at a
// person is rerouted: the parent's existing union is reused, otherwise a
// co-parent sharing a child becomes the partner, otherwise a placeholder
// spouse is synthesized. The original direct edge is replaced in place, so the
// relative order of the edge list is kept.
//
// On return every parent-child edge leads from a union to a person.
func SynthesizeSpouses(g *common.Graph, d *Diagnostics) {
	pruneEdges(g, d)
	pairPartners(g, d)
	repairUnions(g, d)

	type direct struct {
		index int
		child string
	}
	byParent := make(map[string][]direct)
	parents := make([]string, 0)

	for i, e := range g.Edges {
		if e.Kind != common.EdgeKindParentChild {
			continue
		}
		if src, ok := g.Node(e.Source); !ok || !src.IsPerson() {
			continue
		}
		if _, ok := byParent[e.Source]; !ok {
			parents = append(parents, e.Source)
		}
		byParent[e.Source] = append(byParent[e.Source], direct{index: i, child: e.Target})
	}

	if len(parents) == 0 {
		return
	}

	// children of every direct parent, used to find co-parents
	childrenOf := make(map[string]map[string]struct{}, len(parents))
	for _, p := range parents {
		set := make(map[string]struct{}, len(byParent[p]))
		for _, dc := range byParent[p] {
			set[dc.child] = struct{}{}
		}
		childrenOf[p] = set
	}

	reroute := make(map[int]string)
	for _, p := range parents {
		union, ok := unionOf(g, p)
		if !ok {
			if partner, found := coParent(g, p, parents, childrenOf); found {
				union = newUnion(g, p, partner, common.StatusUnknown, d)
			} else {
				spouse := newPlaceholderSpouse(g, p, d)
				union = newUnion(g, p, spouse, common.StatusUnknown, d)
			}
		}
		for _, dc := range byParent[p] {
			reroute[dc.index] = union
		}
	}

	seen := make(map[string]struct{})
	for _, e := range g.Edges {
		if e.Kind == common.EdgeKindParentChild {
			seen[e.Source+"\x00"+e.Target] = struct{}{}
		}
	}

	out := make([]common.Edge, 0, len(g.Edges))
	for i, e := range g.Edges {
		union, ok := reroute[i]
		if !ok {
			out = append(out, e)
			continue
		}
		key := union + "\x00" + e.Target
		if _, dup := seen[key]; dup {
			d.add(StageSpouses, DiagDroppedEdge, e.ID, "edge %q already covered by union %q", e.ID, union)
			continue
		}
		seen[key] = struct{}{}
		d.add(StageSpouses, DiagReroutedEdge, e.ID, "edge %q -> %q rerouted through %q", e.Source, e.Target, union)
		e.Source = union
		out = append(out, e)
	}
	g.Edges = out
}

// pruneEdges drops parent-child and union edges whose endpoints cannot take
// part in a family: unknown nodes, missing nodes, union to union links and
// parent-child edges that do not end at a person.
func pruneEdges(g *common.Graph, d *Diagnostics) {
	out := make([]common.Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		src, okS := g.Node(e.Source)
		tgt, okT := g.Node(e.Target)
		valid := true
		switch e.Kind {
		case common.EdgeKindParentChild:
			valid = okS && okT && tgt.IsPerson() && (src.IsPerson() || src.IsUnion())
		case common.EdgeKindUnion:
			valid = okS && okT && (src.IsPerson() && (tgt.IsPerson() || tgt.IsUnion()) ||
				src.IsUnion() && tgt.IsPerson())
		}
		if !valid {
			d.add(StageSpouses, DiagDroppedEdge, e.ID, "%s edge %q -> %q does not join a family", e.Kind, e.Source, e.Target)
			continue
		}
		out = append(out, e)
	}
	g.Edges = out
}

// pairPartners replaces union edges joining two persons directly with a union
// node and two union edges. A repeated edge for an already paired couple is
// dropped.
func pairPartners(g *common.Graph, d *Diagnostics) {
	type pair struct {
		index    int
		a, b     string
		relation string
	}
	pairs := make([]pair, 0)
	for i, e := range g.Edges {
		if e.Kind != common.EdgeKindUnion {
			continue
		}
		src, okS := g.Node(e.Source)
		tgt, okT := g.Node(e.Target)
		if !okS || !okT || !src.IsPerson() || !tgt.IsPerson() {
			continue
		}
		pairs = append(pairs, pair{index: i, a: e.Source, b: e.Target, relation: e.Relation})
	}
	if len(pairs) == 0 {
		return
	}

	remove := make(map[int]struct{}, len(pairs))
	for _, p := range pairs {
		remove[p.index] = struct{}{}
		if _, ok := sharedUnion(g, p.a, p.b); ok {
			continue
		}
		newUnion(g, p.a, p.b, common.ParseUnionStatus(p.relation), d)
	}

	out := make([]common.Edge, 0, len(g.Edges))
	for i, e := range g.Edges {
		if _, ok := remove[i]; ok {
			continue
		}
		out = append(out, e)
	}
	g.Edges = out
}

// repairUnions gives every union node at least one partner. A union with
// children but no partner gets an unknown father and mother; a union with
// neither is dropped together with its edges.
func repairUnions(g *common.Graph, d *Diagnostics) {
	drop := make(map[string]struct{})
	for i := 0; i < len(g.Nodes); i++ {
		n := g.Nodes[i]
		if !n.IsUnion() || len(partnersOf(g, n.ID)) > 0 {
			continue
		}
		hasChildren := false
		for _, e := range g.Edges {
			if e.Kind == common.EdgeKindParentChild && e.Source == n.ID {
				hasChildren = true
				break
			}
		}
		if !hasChildren {
			d.add(StageSpouses, DiagDroppedNode, n.ID, "union %q has neither partners nor children", n.ID)
			drop[n.ID] = struct{}{}
			continue
		}
		for _, p := range []common.Node{
			placeholderParent(g, "implicit-father-"+n.ID, unknownFatherLabel, common.GenderMale),
			placeholderParent(g, "implicit-mother-"+n.ID, unknownMotherLabel, common.GenderFemale),
		} {
			g.AddNode(p)
			g.AddEdge(common.Edge{
				ID:     g.UniqueEdgeID(fmt.Sprintf("e-%s-%s", p.ID, n.ID)),
				Source: p.ID,
				Target: n.ID,
				Kind:   common.EdgeKindUnion,
			})
		}
		d.add(StageSpouses, DiagSynthParents, n.ID, "synthesized unknown partners for union %q", n.ID)
	}
	if len(drop) == 0 {
		return
	}

	nodes := make([]common.Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, ok := drop[n.ID]; !ok {
			nodes = append(nodes, n)
		}
	}
	edges := make([]common.Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		_, src := drop[e.Source]
		_, tgt := drop[e.Target]
		if !src && !tgt {
			edges = append(edges, e)
		}
	}
	g.Nodes = nodes
	g.Edges = edges
	g.Reindex()
}

// unionOf returns the first union node joined to person by a union edge, in
// either direction.
func unionOf(g *common.Graph, person string) (string, bool) {
	for _, e := range g.Edges {
		if e.Kind != common.EdgeKindUnion {
			continue
		}
		other := ""
		switch person {
		case e.Source:
			other = e.Target
		case e.Target:
			other = e.Source
		default:
			continue
		}
		if n, ok := g.Node(other); ok && n.IsUnion() {
			return other, true
		}
	}
	return "", false
}

// partnersOf returns the persons joined to union by union edges, in edge order.
func partnersOf(g *common.Graph, union string) []string {
	out := make([]string, 0, 2)
	for _, e := range g.Edges {
		if e.Kind != common.EdgeKindUnion {
			continue
		}
		other := ""
		switch union {
		case e.Source:
			other = e.Target
		case e.Target:
			other = e.Source
		default:
			continue
		}
		if n, ok := g.Node(other); ok && n.IsPerson() {
			out = append(out, other)
		}
	}
	return out
}

func sharedUnion(g *common.Graph, a, b string) (string, bool) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if !n.IsUnion() {
			continue
		}
		var hasA, hasB bool
		for _, p := range partnersOf(g, n.ID) {
			hasA = hasA || p == a
			hasB = hasB || p == b
		}
		if hasA && hasB {
			return n.ID, true
		}
	}
	return "", false
}

// coParent finds another direct parent of one of p's children that has no
// union yet.
func coParent(g *common.Graph, p string, parents []string, childrenOf map[string]map[string]struct{}) (string, bool) {
	for _, q := range parents {
		if q == p {
			continue
		}
		if _, ok := unionOf(g, q); ok {
			continue
		}
		for child := range childrenOf[p] {
			if _, ok := childrenOf[q][child]; ok {
				return q, true
			}
		}
	}
	return "", false
}

func newPlaceholderSpouse(g *common.Graph, p string, d *Diagnostics) string {
	gender := common.GenderUnknown
	generation := 0
	if n, ok := g.Node(p); ok {
		gender = n.Person.Gender.Opposite()
		generation = n.Generation
	}
	spouse := common.Node{
		ID:         g.UniqueNodeID("implicit-spouse-" + p),
		Kind:       common.NodeKindPerson,
		RawType:    "person",
		Generation: generation,
		Person: &common.Person{
			Name:        unknownSpouseLabel,
			Gender:      gender,
			Note:        spouseNote,
			Placeholder: common.PlaceholderSpouse,
		},
	}
	g.AddNode(spouse)
	d.add(StageSpouses, DiagSynthSpouse, spouse.ID, "synthesized %s spouse for %q", gender, p)
	return spouse.ID
}

// newUnion adds a union node for partners a and b together with both union
// edges and returns its id.
func newUnion(g *common.Graph, a, b string, status common.UnionStatus, d *Diagnostics) string {
	generation := 0
	if n, ok := g.Node(a); ok {
		generation = n.Generation
	}
	id := g.UniqueNodeID("implicit-union-" + a)
	g.AddNode(common.Node{
		ID:         id,
		Kind:       common.NodeKindUnion,
		RawType:    "union",
		Generation: generation,
		Union:      &common.Union{Status: status},
	})
	for _, p := range []string{a, b} {
		g.AddEdge(common.Edge{
			ID:     g.UniqueEdgeID(fmt.Sprintf("e-%s-%s", p, id)),
			Source: p,
			Target: id,
			Kind:   common.EdgeKindUnion,
		})
	}
	d.add(StageSpouses, DiagSynthUnion, id, "synthesized union for %q and %q", a, b)
	return id
}
