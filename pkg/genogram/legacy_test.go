package genogram

import (
	"reflect"
	"testing"

	"github.com/caredx/genogram/pkg/common"
)

func legacyFamily() LegacyInput {
	return LegacyInput{
		Members: []Record{
			{"id": "gf", "name": "祖父", "gender": "male", "generation": 0},
			{"id": "gm", "name": "祖母", "gender": "female", "generation": 0},
			{"id": "f", "name": "父", "gender": "male", "generation": 1},
			{"id": "self", "name": "本人", "generation": 2},
		},
		Marriages: []Record{
			{"id": "m1", "husband": "gf", "wife": "gm", "children": []any{"f"}},
		},
	}
}

func TestFromLegacy(t *testing.T) {
	d := &Diagnostics{}
	g := FromLegacy(legacyFamily(), nil, d)
	Layout(g, DefaultLayoutConfig())

	if len(g.Nodes) != 5 {
		t.Fatalf("expected 5 nodes, got %d", len(g.Nodes))
	}
	wantEdges := []common.Edge{
		{ID: "gf-m1", Source: "gf", Target: "m1", Kind: common.EdgeKindUnion},
		{ID: "gm-m1", Source: "gm", Target: "m1", Kind: common.EdgeKindUnion},
		{ID: "m1-f", Source: "m1", Target: "f", Kind: common.EdgeKindParentChild},
	}
	if !reflect.DeepEqual(g.Edges, wantEdges) {
		t.Fatalf("unexpected edges:\n got %+v\nwant %+v", g.Edges, wantEdges)
	}

	want := map[string]common.Position{
		"gf":   {X: 100, Y: 100},
		"gm":   {X: 250, Y: 100},
		"m1":   {X: 175, Y: 100},
		"f":    {X: 100, Y: 250},
		"self": {X: 100, Y: 400},
	}
	if got := positions(g); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected positions:\n got %v\nwant %v", got, want)
	}
	if !mustNode(t, g, "self").Person.IsSelf {
		t.Fatal("expected 本人 to be marked as self")
	}
	if d.Count(DiagSynthSpouse) != 0 || d.Count(DiagSynthParents) != 0 {
		t.Fatalf("legacy input must not be synthesized, got %+v", d.Items())
	}
}

func TestFromLegacy_UnknownReferences(t *testing.T) {
	in := LegacyInput{
		Members: []Record{
			{"id": "a", "name": "夫"},
			{"name": "妻"},
			{"id": "empty"},
		},
		Marriages: []Record{
			{"id": "m1", "husband": "a", "wife": "ghost", "children": []any{"nobody"}},
			{"id": "m2", "husband": "ghost"},
		},
	}

	d := &Diagnostics{}
	g := FromLegacy(in, nil, d)

	if !g.HasNode("member-2") {
		t.Fatal("expected a generated id for the member without one")
	}
	if g.HasNode("empty") || g.HasNode("m2") {
		t.Fatal("expected the empty member and the spouseless marriage to be dropped")
	}
	if got := partnersOf(g, "m1"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("unexpected partners %v", got)
	}
	if d.Count(DiagDroppedEdge) != 3 {
		t.Fatalf("expected 3 dropped references, got %+v", d.Items())
	}
	if d.Count(DiagDroppedNode) != 2 || d.Count(DiagGeneratedID) != 1 {
		t.Fatalf("unexpected diagnostics %+v", d.Items())
	}
}
