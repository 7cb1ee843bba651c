package genogram

import (
	"testing"

	"github.com/caredx/genogram/pkg/common"
)

func person(id, label string, extra ...any) Record {
	data := Record{"label": label}
	for i := 0; i+1 < len(extra); i += 2 {
		data[extra[i].(string)] = extra[i+1]
	}
	return Record{"id": id, "type": "person", "data": data}
}

func edge(id, source, target, typ, label string) Record {
	rec := Record{"id": id, "source": source, "target": target}
	if typ != "" {
		rec["type"] = typ
	}
	if label != "" {
		rec["label"] = label
	}
	return rec
}

func mustNode(t *testing.T, g *common.Graph, id string) *common.Node {
	t.Helper()
	n, ok := g.Node(id)
	if !ok {
		t.Fatalf("node %q not found", id)
	}
	return n
}

func countPlaceholders(g *common.Graph, kind common.Placeholder) int {
	n := 0
	for _, node := range g.Nodes {
		if node.IsPerson() && node.Person.Placeholder == kind {
			n++
		}
	}
	return n
}

func countUnions(g *common.Graph) int {
	n := 0
	for _, node := range g.Nodes {
		if node.IsUnion() {
			n++
		}
	}
	return n
}

// assertRouted checks that no sibling hints are left, that every parent-child
// edge leads from a union to a person and that every union edge joins a person
// to a union.
func assertRouted(t *testing.T, g *common.Graph) {
	t.Helper()
	for _, e := range g.Edges {
		src, tgt := mustNode(t, g, e.Source), mustNode(t, g, e.Target)
		switch e.Kind {
		case common.EdgeKindSiblingHint:
			t.Fatalf("sibling hint %q left in graph", e.ID)
		case common.EdgeKindParentChild:
			if !src.IsUnion() || !tgt.IsPerson() {
				t.Fatalf("parent-child edge %q does not lead from a union to a person", e.ID)
			}
		case common.EdgeKindUnion:
			if !(src.IsPerson() && tgt.IsUnion()) && !(src.IsUnion() && tgt.IsPerson()) {
				t.Fatalf("union edge %q does not join a person to a union", e.ID)
			}
		}
	}
}
