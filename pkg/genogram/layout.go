package genogram

import (
	"sort"

	"github.com/caredx/genogram/pkg/common"
)

// LayoutConfig holds the spacing constants of the couple-aware layout.
type LayoutConfig struct {
	OriginX        float64
	OriginY        float64
	RowSpacing     float64
	NodeWidth      float64
	GenerationSkew float64
}

// DefaultLayoutConfig returns the spacing used by the diagram front end.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		OriginX:        100,
		OriginY:        100,
		RowSpacing:     150,
		NodeWidth:      150,
		GenerationSkew: 0,
	}
}

// Layout assigns a position to every node that has none yet.
//
// Nodes are arranged in one row per generation. In each row the union nodes
// are handled first: their partners are placed side by side at the row cursor
// and the union sits at the partners' midpoint. Remaining nodes follow left to
// right. Nodes already carrying a non-default position are never moved.
//
// The result only depends on the order of g.Nodes and g.Edges.
func Layout(g *common.Graph, cfg LayoutConfig) {
	l := &layouter{
		g:       g,
		cfg:     cfg,
		placed:  make(map[string]bool, len(g.Nodes)),
		cursors: make(map[int]float64),
	}
	for i := range g.Nodes {
		if !g.Nodes[i].Position.IsDefault() {
			l.placed[g.Nodes[i].ID] = true
		}
	}

	rows := make(map[int][]int)
	gens := make([]int, 0)
	for i := range g.Nodes {
		gen := g.Nodes[i].Generation
		if _, ok := rows[gen]; !ok {
			gens = append(gens, gen)
		}
		rows[gen] = append(rows[gen], i)
	}
	sort.Ints(gens)

	for _, gen := range gens {
		for _, i := range rows[gen] {
			if g.Nodes[i].IsUnion() {
				l.placeCouple(g.Nodes[i].ID)
			}
		}
		for _, i := range rows[gen] {
			n := &g.Nodes[i]
			if l.placed[n.ID] {
				continue
			}
			l.place(n.ID, l.advance(n.Generation))
		}
	}
}

type layouter struct {
	g       *common.Graph
	cfg     LayoutConfig
	placed  map[string]bool
	cursors map[int]float64
}

func (l *layouter) rowY(gen int) float64 {
	return l.cfg.OriginY + float64(gen)*l.cfg.RowSpacing
}

func (l *layouter) cursor(gen int) float64 {
	c, ok := l.cursors[gen]
	if !ok {
		c = l.cfg.OriginX + float64(gen)*l.cfg.GenerationSkew
		l.cursors[gen] = c
	}
	return c
}

// advance returns the cursor of row gen and moves it one node width right.
func (l *layouter) advance(gen int) float64 {
	x := l.cursor(gen)
	l.cursors[gen] = x + l.cfg.NodeWidth
	return x
}

func (l *layouter) place(id string, x float64) {
	n, ok := l.g.Node(id)
	if !ok {
		return
	}
	n.Position = &common.Position{X: x, Y: l.rowY(n.Generation)}
	l.placed[id] = true
}

func (l *layouter) placeCouple(unionID string) {
	partners := partnersOf(l.g, unionID)
	if len(partners) > 2 {
		partners = partners[:2]
	}

	xs := make([]float64, 0, len(partners))
	for _, p := range partners {
		n, ok := l.g.Node(p)
		if !ok {
			continue
		}
		if !l.placed[p] {
			l.place(p, l.advance(n.Generation))
		}
		xs = append(xs, n.Position.X)
	}

	if l.placed[unionID] {
		return
	}
	union, ok := l.g.Node(unionID)
	if !ok {
		return
	}
	gen := union.Generation

	var x float64
	switch len(xs) {
	case 0:
		x = l.advance(gen)
	case 1:
		x = xs[0] + l.cfg.NodeWidth/2
	default:
		x = (xs[0] + xs[1]) / 2
	}
	l.place(unionID, x)

	if next := x + l.cfg.NodeWidth/2; next > l.cursor(gen) {
		l.cursors[gen] = next
	}
}
