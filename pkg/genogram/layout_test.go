package genogram

import (
	"reflect"
	"testing"

	"github.com/caredx/genogram/pkg/common"
)

func positions(g *common.Graph) map[string]common.Position {
	out := make(map[string]common.Position, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Position != nil {
			out[n.ID] = *n.Position
		}
	}
	return out
}

func siblingPair() CurrentInput {
	return CurrentInput{
		Nodes: []Record{person("A", "本人"), person("B", "兄")},
		Edges: []Record{edge("e1", "A", "B", "", "兄弟")},
	}
}

func runStages(in CurrentInput) *common.Graph {
	g := Sanitize(in, nil, nil)
	SynthesizeSiblings(g, nil, nil)
	SynthesizeSpouses(g, nil)
	AssignGenerations(g, nil)
	Layout(g, DefaultLayoutConfig())
	return g
}

func TestLayout_SiblingPair(t *testing.T) {
	g := runStages(siblingPair())

	want := map[string]common.Position{
		"implicit-father-A": {X: 100, Y: 100},
		"implicit-mother-A": {X: 250, Y: 100},
		"implicit-union-A":  {X: 175, Y: 100},
		"A":                 {X: 100, Y: 250},
		"B":                 {X: 250, Y: 250},
	}
	if got := positions(g); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected positions:\n got %v\nwant %v", got, want)
	}
}

func TestLayout_Deterministic(t *testing.T) {
	a := positions(runStages(siblingPair()))
	b := positions(runStages(siblingPair()))
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("layout differs between runs:\n%v\n%v", a, b)
	}
}

func TestLayout_KeepsExplicitPositions(t *testing.T) {
	g := common.NewGraph()
	g.AddNode(common.Node{ID: "A", Kind: common.NodeKindPerson, Person: &common.Person{}, Position: &common.Position{X: 42, Y: 7}})
	g.AddNode(common.Node{ID: "B", Kind: common.NodeKindPerson, Person: &common.Person{}, Position: &common.Position{}})
	g.AddNode(common.Node{ID: "C", Kind: common.NodeKindPerson, Person: &common.Person{}})

	Layout(g, DefaultLayoutConfig())

	want := map[string]common.Position{
		"A": {X: 42, Y: 7},
		"B": {X: 100, Y: 100},
		"C": {X: 250, Y: 100},
	}
	if got := positions(g); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected positions:\n got %v\nwant %v", got, want)
	}
}

func TestLayout_SinglePartnerUnion(t *testing.T) {
	g := common.NewGraph()
	g.AddNode(common.Node{ID: "P", Kind: common.NodeKindPerson, Person: &common.Person{}})
	g.AddNode(common.Node{ID: "U", Kind: common.NodeKindUnion, Union: &common.Union{}})
	g.AddNode(common.Node{ID: "Q", Kind: common.NodeKindPerson, Person: &common.Person{}})
	g.AddNode(common.Node{ID: "C", Kind: common.NodeKindPerson, Generation: 1, Person: &common.Person{}})
	g.AddEdge(common.Edge{ID: "a", Source: "P", Target: "U", Kind: common.EdgeKindUnion})
	g.AddEdge(common.Edge{ID: "b", Source: "U", Target: "C", Kind: common.EdgeKindParentChild})

	Layout(g, DefaultLayoutConfig())

	want := map[string]common.Position{
		"P": {X: 100, Y: 100},
		"U": {X: 175, Y: 100},
		"Q": {X: 250, Y: 100},
		"C": {X: 100, Y: 250},
	}
	if got := positions(g); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected positions:\n got %v\nwant %v", got, want)
	}
}

func TestLayout_Config(t *testing.T) {
	g := common.NewGraph()
	g.AddNode(common.Node{ID: "A", Kind: common.NodeKindPerson, Person: &common.Person{}})
	g.AddNode(common.Node{ID: "B", Kind: common.NodeKindPerson, Generation: 2, Person: &common.Person{}})

	Layout(g, LayoutConfig{OriginX: 10, OriginY: 20, RowSpacing: 50, NodeWidth: 80, GenerationSkew: 5})

	want := map[string]common.Position{
		"A": {X: 10, Y: 20},
		"B": {X: 20, Y: 120},
	}
	if got := positions(g); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected positions:\n got %v\nwant %v", got, want)
	}
}
