package genogram

import (
	"fmt"

	"github.com/caredx/genogram/pkg/common"
)

// FromLegacy converts a {members, marriages} payload into a strict graph.
//
// Members keep their explicit generation. Each marriage becomes a union node
// with a union edge per resolvable spouse and a parent-child edge per
// resolvable child. A marriage with no resolvable spouse is dropped together
// with its children edges, since a union needs at least one partner.
func FromLegacy(in LegacyInput, c KinshipClassifier, d *Diagnostics) *common.Graph {
	if c == nil {
		c = NewDefaultClassifier()
	}
	g := common.NewGraph()

	for i, rec := range in.Members {
		if rec == nil {
			d.add(StageSanitize, DiagDroppedNode, "", "member at index %d is not an object", i)
			continue
		}
		id := getString(rec, "id")
		if id == "" {
			id = fmt.Sprintf("member-%d", i+1)
			d.add(StageSanitize, DiagGeneratedID, id, "member at index %d has no id", i)
		}
		person, generation, ok := readPerson(rec, nil, "", c)
		if !ok {
			d.add(StageSanitize, DiagDroppedNode, id, "member %q has no usable data", id)
			continue
		}
		node := common.Node{
			ID:         id,
			Kind:       common.NodeKindPerson,
			RawType:    "person",
			Generation: generation,
			Position:   readPosition(rec),
			Person:     person,
		}
		if !g.AddNode(node) {
			d.add(StageSanitize, DiagDroppedNode, id, "duplicate member id %q at index %d", id, i)
		}
	}

	for i, rec := range in.Marriages {
		if rec == nil {
			d.add(StageSanitize, DiagDroppedNode, "", "marriage at index %d is not an object", i)
			continue
		}
		id := getString(rec, "id")
		if id == "" {
			id = fmt.Sprintf("marriage-%d", i+1)
		}
		id = g.UniqueNodeID(id)

		partners := make([]*common.Node, 0, 2)
		for _, key := range [][]string{
			{"husband", "husbandId", "husband_id"},
			{"wife", "wifeId", "wife_id"},
		} {
			pid := getString(rec, key...)
			if pid == "" {
				continue
			}
			p, ok := g.Node(pid)
			if !ok || !p.IsPerson() {
				d.add(StageSanitize, DiagDroppedEdge, id, "marriage %q references unknown member %q", id, pid)
				continue
			}
			partners = append(partners, p)
		}
		if len(partners) == 0 {
			d.add(StageSanitize, DiagDroppedNode, id, "marriage %q has no resolvable spouse", id)
			continue
		}

		// partner ids are copied before AddNode, which may grow the node slice
		generation := partners[0].Generation
		partnerIDs := make([]string, 0, len(partners))
		for _, p := range partners {
			partnerIDs = append(partnerIDs, p.ID)
		}

		g.AddNode(common.Node{
			ID:         id,
			Kind:       common.NodeKindUnion,
			RawType:    "union",
			Generation: generation,
			Position:   readPosition(rec),
			Union: &common.Union{
				Status: common.ParseUnionStatus(getString(rec, "status")),
			},
		})
		for _, pid := range partnerIDs {
			g.AddEdge(common.Edge{
				ID:     g.UniqueEdgeID(fmt.Sprintf("%s-%s", pid, id)),
				Source: pid,
				Target: id,
				Kind:   common.EdgeKindUnion,
			})
		}

		for _, child := range getStringList(rec, "children", "childIds", "child_ids") {
			cn, ok := g.Node(child)
			if !ok || !cn.IsPerson() {
				d.add(StageSanitize, DiagDroppedEdge, id, "marriage %q references unknown child %q", id, child)
				continue
			}
			if g.HasEdge(id, child, common.EdgeKindParentChild) {
				continue
			}
			g.AddEdge(common.Edge{
				ID:     g.UniqueEdgeID(fmt.Sprintf("%s-%s", id, child)),
				Source: id,
				Target: child,
				Kind:   common.EdgeKindParentChild,
			})
		}
	}

	return g
}
