package genogram

import (
	"reflect"
	"testing"

	"github.com/caredx/genogram/pkg/common"
)

func TestSanitize_GenderNormalization(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  common.Gender
	}{
		{name: "male", input: "male", want: common.GenderMale},
		{name: "upper M", input: "M", want: common.GenderMale},
		{name: "female", input: "female", want: common.GenderFemale},
		{name: "upper F", input: "F", want: common.GenderFemale},
		{name: "japanese male", input: "男性", want: common.GenderMale},
		{name: "japanese female", input: "女", want: common.GenderFemale},
		{name: "unrecognized", input: "other", want: common.GenderUnknown},
		{name: "number", input: 1.0, want: common.GenderUnknown},
		{name: "absent", input: nil, want: common.GenderUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := person("p1", "父")
			if tt.input != nil {
				rec["data"].(Record)["gender"] = tt.input
			}
			g := Sanitize(CurrentInput{Nodes: []Record{rec}}, nil, nil)
			if got := mustNode(t, g, "p1").Person.Gender; got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSanitize_DanglingEdge(t *testing.T) {
	in := CurrentInput{
		Nodes: []Record{
			person("A", "本人"),
			person("B", "夫", "gender", "male"),
		},
		Edges: []Record{
			edge("e1", "A", "B", "union", ""),
			edge("e2", "A", "X", "parent-child", ""),
		},
	}

	d := &Diagnostics{}
	g := Sanitize(in, nil, d)

	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(g.Nodes))
	}
	if len(g.Edges) != 1 || g.Edges[0].ID != "e1" {
		t.Fatalf("expected only e1 to survive, got %+v", g.Edges)
	}
	if d.Count(DiagDroppedEdge) != 1 {
		t.Fatalf("expected 1 dropped edge diagnostic, got %+v", d.Items())
	}
}

func TestSanitize_PersonData(t *testing.T) {
	in := CurrentInput{Nodes: []Record{
		{
			"id":   "nested",
			"type": "person",
			"data": Record{
				"person": Record{"name": "母", "gender": "female", "deceased": "はい"},
			},
		},
		{
			"id":         "flat",
			"type":       "PersonNode",
			"label":      "  長男　太郎 ",
			"gender":     "m",
			"generation": "2",
		},
		{
			"id":   "self",
			"data": Record{"label": "本人", "isKeyPerson": true},
		},
		{
			"id":   "empty",
			"type": "person",
			"data": Record{},
		},
	}}

	d := &Diagnostics{}
	g := Sanitize(in, nil, d)

	nested := mustNode(t, g, "nested")
	want := common.Person{Name: "母", Gender: common.GenderFemale, Deceased: true}
	if !reflect.DeepEqual(*nested.Person, want) {
		t.Fatalf("nested person: got %+v, want %+v", *nested.Person, want)
	}

	flat := mustNode(t, g, "flat")
	if flat.Person.Name != "長男 太郎" || flat.Person.Gender != common.GenderMale || flat.Generation != 2 {
		t.Fatalf("flat person: got %+v generation %d", *flat.Person, flat.Generation)
	}

	self := mustNode(t, g, "self")
	if !self.IsPerson() || !self.Person.IsSelf || !self.Person.IsKeyPerson {
		t.Fatalf("expected untyped self node to be the key person subject, got %+v", self)
	}

	if g.HasNode("empty") {
		t.Fatal("expected person without usable data to be dropped")
	}
	if d.Count(DiagDroppedNode) != 1 {
		t.Fatalf("expected 1 dropped node diagnostic, got %+v", d.Items())
	}
}

func TestSanitize_SparsePersons(t *testing.T) {
	tests := []struct {
		name       string
		data       Record
		want       common.Person
		generation int
	}{
		{"deceased only", Record{"isDeceased": true}, common.Person{Gender: common.GenderUnknown, Deceased: true}, 0},
		{"generation only", Record{"generation": 1}, common.Person{Gender: common.GenderUnknown}, 1},
		{"key person only", Record{"isKeyPerson": true}, common.Person{Gender: common.GenderUnknown, IsKeyPerson: true}, 0},
		{"alive flag only", Record{"deceased": false}, common.Person{Gender: common.GenderUnknown}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Diagnostics{}
			g := Sanitize(CurrentInput{Nodes: []Record{
				{"id": "X", "type": "person", "data": tt.data},
			}}, nil, d)

			x := mustNode(t, g, "X")
			if !x.IsPerson() || !reflect.DeepEqual(*x.Person, tt.want) {
				t.Fatalf("got %+v, want %+v", x.Person, tt.want)
			}
			if x.Generation != tt.generation {
				t.Fatalf("expected generation %d, got %d", tt.generation, x.Generation)
			}
			if d.Count(DiagDroppedNode) != 0 {
				t.Fatalf("expected no dropped nodes, got %+v", d.Items())
			}
		})
	}
}

func TestSanitize_NonPersonNodes(t *testing.T) {
	in := CurrentInput{Nodes: []Record{
		{"type": "union", "data": Record{"status": "離婚"}},
		{"id": "h1", "type": "household"},
		{"id": "u2", "type": "marriage", "position": Record{"x": 10.0, "y": 20.0}},
	}}

	d := &Diagnostics{}
	g := Sanitize(in, nil, d)

	if len(g.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(g.Nodes))
	}
	u1 := mustNode(t, g, "node-1")
	if !u1.IsUnion() || u1.Union.Status != common.StatusDivorced {
		t.Fatalf("expected divorced union with generated id, got %+v", u1)
	}
	if u1.Position == nil || !u1.Position.IsDefault() {
		t.Fatalf("expected defaulted zero position, got %+v", u1.Position)
	}
	h1 := mustNode(t, g, "h1")
	if h1.Kind != common.NodeKindUnknown || h1.RawType != "household" {
		t.Fatalf("expected unknown pass-through node, got %+v", h1)
	}
	u2 := mustNode(t, g, "u2")
	if u2.Position == nil || u2.Position.X != 10 || u2.Position.Y != 20 {
		t.Fatalf("expected explicit position, got %+v", u2.Position)
	}
	if d.Count(DiagGeneratedID) != 1 {
		t.Fatalf("expected 1 generated id diagnostic, got %+v", d.Items())
	}
}

func TestSanitize_DuplicatesAndSelfLoops(t *testing.T) {
	in := CurrentInput{
		Nodes: []Record{
			person("A", "本人"),
			person("A", "妻"),
			person("B", "父"),
		},
		Edges: []Record{
			edge("e1", "B", "A", "parent-child", ""),
			edge("e1", "B", "A", "parent-child", ""),
			edge("e2", "A", "A", "union", ""),
			{"source": "B"},
			nil,
		},
	}

	d := &Diagnostics{}
	g := Sanitize(in, nil, d)

	if len(g.Nodes) != 2 || mustNode(t, g, "A").Person.Name != "本人" {
		t.Fatalf("expected first node with a duplicate id to win, got %+v", g.Nodes)
	}
	gotIDs := make([]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		gotIDs = append(gotIDs, e.ID)
	}
	if !reflect.DeepEqual(gotIDs, []string{"e1", "e1-2"}) {
		t.Fatalf("unexpected edge ids %v", gotIDs)
	}
	if d.Count(DiagDroppedEdge) != 3 {
		t.Fatalf("expected 3 dropped edges, got %+v", d.Items())
	}
}

func TestSanitize_EdgeKinds(t *testing.T) {
	in := CurrentInput{
		Nodes: []Record{
			person("A", "本人"),
			person("B", "夫"),
			person("C", "長女"),
			person("D", "兄"),
			person("M", "母"),
			{"id": "U", "type": "union"},
		},
		Edges: []Record{
			edge("declared-sibling", "A", "C", "sibling", ""),
			edge("declared-union", "A", "B", "marriage", ""),
			edge("declared-child", "A", "C", "child", ""),
			edge("from-union", "U", "C", "", ""),
			edge("to-union", "A", "U", "", ""),
			edge("relation-child", "B", "C", "", "親子"),
			edge("relation-spouse", "B", "A", "", "夫婦"),
			edge("fallback", "C", "B", "", ""),
			edge("name-prefix", "A", "D", "", ""),
			edge("parent-named", "M", "D", "", ""),
			edge("declared-over-name", "B", "D", "marriage", ""),
		},
	}

	d := &Diagnostics{}
	g := Sanitize(in, nil, d)

	want := map[string]common.EdgeKind{
		"declared-sibling":   common.EdgeKindSiblingHint,
		"declared-union":     common.EdgeKindUnion,
		"declared-child":     common.EdgeKindParentChild,
		"from-union":         common.EdgeKindParentChild,
		"to-union":           common.EdgeKindUnion,
		"relation-child":     common.EdgeKindParentChild,
		"relation-spouse":    common.EdgeKindUnion,
		"fallback":           common.EdgeKindUnion,
		"name-prefix":        common.EdgeKindSiblingHint,
		"parent-named":       common.EdgeKindUnion,
		"declared-over-name": common.EdgeKindUnion,
	}
	for _, e := range g.Edges {
		if e.Kind != want[e.ID] {
			t.Fatalf("edge %q: expected %q, got %q", e.ID, want[e.ID], e.Kind)
		}
	}
	if len(g.Edges) != len(want) {
		t.Fatalf("expected %d edges, got %d", len(want), len(g.Edges))
	}
	if d.Count(DiagInferredEdgeKind) != 7 {
		t.Fatalf("expected 7 inferred edge kinds, got %d", d.Count(DiagInferredEdgeKind))
	}
}
