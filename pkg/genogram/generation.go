package genogram

import (
	"github.com/caredx/genogram/pkg/common"
)

type hop struct {
	to    string
	delta int
}

// AssignGenerations overwrites the generation of every node with its depth in
// the family tree.
//
// Union edges keep the generation in both directions, parent-child edges add
// one going forward. The walk is a breadth-first search seeded at generation 0
// with every person that has no parents, except placeholder spouses and
// persons married into a family whose partner has parents; both are reached
// through their partner instead. The first visit settles a node.
//
// Fragments the walk cannot reach are seeded from their first node without
// parents, using its generation hint or 0 when there is none. Only a fragment
// made of a parent cycle falls back to its first node.
func AssignGenerations(g *common.Graph, d *Diagnostics) {
	adj := make(map[string][]hop, len(g.Nodes))
	hasParents := make(map[string]bool, len(g.Nodes))
	for _, e := range g.Edges {
		switch e.Kind {
		case common.EdgeKindUnion:
			adj[e.Source] = append(adj[e.Source], hop{to: e.Target})
			adj[e.Target] = append(adj[e.Target], hop{to: e.Source})
		case common.EdgeKindParentChild:
			adj[e.Source] = append(adj[e.Source], hop{to: e.Target, delta: 1})
			hasParents[e.Target] = true
		}
	}

	settled := make(map[string]int, len(g.Nodes))
	queue := make([]string, 0, len(g.Nodes))

	for i := range g.Nodes {
		n := &g.Nodes[i]
		if !n.IsPerson() || hasParents[n.ID] {
			continue
		}
		if n.Person.Placeholder == common.PlaceholderSpouse || marriedIn(g, n.ID, hasParents) {
			continue
		}
		settled[n.ID] = 0
		queue = append(queue, n.ID)
	}
	walk(adj, settled, queue)

	// parentless nodes first, so a fragment is seeded from its top
	for _, topOnly := range []bool{true, false} {
		for i := range g.Nodes {
			n := &g.Nodes[i]
			if _, ok := settled[n.ID]; ok || (topOnly && hasParents[n.ID]) {
				continue
			}
			seed := max(n.Generation, 0)
			d.add(StageGeneration, DiagUnreachedNode, n.ID, "node %q not reached from any root, seeded at generation %d", n.ID, seed)
			settled[n.ID] = seed
			walk(adj, settled, []string{n.ID})
		}
	}

	for i := range g.Nodes {
		g.Nodes[i].Generation = settled[g.Nodes[i].ID]
	}
}

func walk(adj map[string][]hop, settled map[string]int, queue []string) {
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		gen := settled[id]
		for _, h := range adj[id] {
			if _, ok := settled[h.to]; ok {
				continue
			}
			settled[h.to] = gen + h.delta
			queue = append(queue, h.to)
		}
	}
}

// marriedIn reports whether a partner of person, joined directly or through a
// union node, has parents of their own.
func marriedIn(g *common.Graph, person string, hasParents map[string]bool) bool {
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
		n, ok := g.Node(other)
		if !ok {
			continue
		}
		if n.IsPerson() {
			if hasParents[other] {
				return true
			}
			continue
		}
		if !n.IsUnion() {
			continue
		}
		for _, p := range partnersOf(g, other) {
			if p != person && hasParents[p] {
				return true
			}
		}
	}
	return false
}
