package genogram

import (
	"fmt"
	"strings"

	"github.com/caredx/genogram/pkg/common"
)

var (
	personTypes = map[string]struct{}{
		"person": {}, "personnode": {}, "member": {}, "individual": {},
		"male": {}, "female": {}, "genogramperson": {},
	}
	unionTypes = map[string]struct{}{
		"union": {}, "unionnode": {}, "marriage": {}, "marriagenode": {},
		"fork": {}, "forknode": {}, "couple": {}, "partnership": {},
	}
	unionEdgeTypes = map[string]struct{}{
		"union": {}, "marriage": {}, "married": {}, "spouse": {}, "partner": {},
		"couple": {}, "partnership": {}, "divorced": {}, "separated": {},
		"marriageedge": {}, "spouseedge": {},
	}
	parentChildEdgeTypes = map[string]struct{}{
		"parent-child": {}, "parentchild": {}, "parent_child": {}, "child": {},
		"children": {}, "parent": {}, "descent": {}, "childedge": {},
	}
	siblingEdgeTypes = map[string]struct{}{
		"sibling": {}, "siblings": {}, "sibling-hint": {}, "siblinghint": {},
	}
	parentChildRelations = []string{"親子", "息子", "娘", "長男", "長女", "次男", "次女", "子", "parent", "child", "son", "daughter"}
	unionRelations       = []string{"夫婦", "配偶者", "夫", "妻", "婚", "spouse", "husband", "wife", "married", "partner"}
)

func normType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Sanitize validates and repairs a current-shape payload into a strict graph.
//
// Person records without any usable attribute and edges with an unresolved
// endpoint are dropped; each drop is recorded in d. Sanitize never fails.
func Sanitize(in CurrentInput, c KinshipClassifier, d *Diagnostics) *common.Graph {
	if c == nil {
		c = NewDefaultClassifier()
	}
	g := common.NewGraph()

	for i, rec := range in.Nodes {
		node, ok := sanitizeNode(i, rec, c, d)
		if !ok {
			continue
		}
		if !g.AddNode(node) {
			d.add(StageSanitize, DiagDroppedNode, node.ID, "duplicate node id %q at index %d", node.ID, i)
		}
	}

	for i, rec := range in.Edges {
		edge, ok := sanitizeEdge(i, rec, g, c, d)
		if !ok {
			continue
		}
		g.AddEdge(edge)
	}

	return g
}

func sanitizeNode(i int, rec Record, c KinshipClassifier, d *Diagnostics) (common.Node, bool) {
	if rec == nil {
		d.add(StageSanitize, DiagDroppedNode, "", "node at index %d is not an object", i)
		return common.Node{}, false
	}

	id := getString(rec, "id")
	rawType := getString(rec, "type")
	data := getRecord(rec, "data")
	kind := nodeKindOf(rawType, rec, data)

	if id == "" {
		id = fmt.Sprintf("node-%d", i+1)
		d.add(StageSanitize, DiagGeneratedID, id, "node at index %d has no id", i)
	}

	node := common.Node{
		ID:       id,
		Kind:     kind,
		RawType:  rawType,
		Position: readPosition(rec),
	}

	switch kind {
	case common.NodeKindPerson:
		person, hint, ok := readPerson(rec, data, rawType, c)
		if !ok {
			d.add(StageSanitize, DiagDroppedNode, id, "person node %q has no usable data", id)
			return common.Node{}, false
		}
		node.Person = person
		node.Generation = hint
	case common.NodeKindUnion:
		node.Union = &common.Union{
			Status: common.ParseUnionStatus(firstNonEmpty(
				getString(data, "status", "relationship", "relation"),
				getString(rec, "status"),
			)),
		}
		node.Generation, _ = getInt(data, "generation")
		if node.Position == nil {
			node.Position = &common.Position{}
		}
	default:
		node.Generation, _ = getInt(data, "generation")
		if node.Position == nil {
			node.Position = &common.Position{}
		}
	}

	return node, true
}

func nodeKindOf(rawType string, rec, data Record) common.NodeKind {
	t := normType(rawType)
	if _, ok := personTypes[t]; ok {
		return common.NodeKindPerson
	}
	if _, ok := unionTypes[t]; ok {
		return common.NodeKindUnion
	}
	if t != "" {
		return common.NodeKindUnknown
	}
	if getRecord(data, "person", "member") != nil ||
		getString(data, "label", "name", "gender") != "" ||
		getString(rec, "label", "name", "gender") != "" {
		return common.NodeKindPerson
	}
	return common.NodeKindUnknown
}

// readPerson prefers the nested person record, then the flat data fields, then
// the top-level fields of the node itself.
func readPerson(rec, data Record, rawType string, c KinshipClassifier) (*common.Person, int, bool) {
	sources := make([]Record, 0, 3)
	if nested := getRecord(data, "person", "member"); nested != nil {
		sources = append(sources, nested)
	}
	if data != nil {
		sources = append(sources, data)
	}
	sources = append(sources, rec)

	str := func(keys ...string) string {
		for _, src := range sources {
			if v := getString(src, keys...); v != "" {
				return v
			}
		}
		return ""
	}
	flag := func(keys ...string) (bool, bool) {
		for _, src := range sources {
			if v, ok := getBool(src, keys...); ok {
				return v, true
			}
		}
		return false, false
	}

	name := str("label", "name", "displayName", "display_name")
	rawGender := str("gender", "sex")
	if rawGender == "" {
		switch t := normType(rawType); t {
		case "male", "female":
			rawGender = t
		}
	}
	deceased, deceasedSet := flag("isDeceased", "deceased", "is_deceased", "dead")
	self, selfSet := flag("isSelf", "is_self", "self")
	keyPerson, keySet := flag("isKeyPerson", "is_key_person", "keyPerson", "key_person")
	note := str("note", "notes", "description")

	hint, hintSet := 0, false
	for _, src := range sources {
		if v, ok := getInt(src, "generation", "gen"); ok {
			hint, hintSet = v, true
			break
		}
	}

	if name == "" && rawGender == "" && note == "" && !self && !deceasedSet && !keySet && !hintSet {
		return nil, 0, false
	}
	if !selfSet || !self {
		self = c.IsSelfLabel(name)
	}

	person := &common.Person{
		Name:        name,
		Gender:      common.ParseGender(rawGender),
		Deceased:    deceased,
		IsSelf:      self,
		IsKeyPerson: keyPerson,
		Note:        note,
	}
	switch common.Placeholder(normType(str("placeholder"))) {
	case common.PlaceholderParent:
		person.Placeholder = common.PlaceholderParent
	case common.PlaceholderSpouse:
		person.Placeholder = common.PlaceholderSpouse
	}

	return person, hint, true
}

func readPosition(rec Record) *common.Position {
	pos := getRecord(rec, "position")
	if pos == nil {
		return nil
	}
	x, okX := getFloat(pos, "x")
	y, okY := getFloat(pos, "y")
	if !okX || !okY {
		return nil
	}
	return &common.Position{X: x, Y: y}
}

func sanitizeEdge(i int, rec Record, g *common.Graph, c KinshipClassifier, d *Diagnostics) (common.Edge, bool) {
	if rec == nil {
		d.add(StageSanitize, DiagDroppedEdge, "", "edge at index %d is not an object", i)
		return common.Edge{}, false
	}

	id := getString(rec, "id")
	source := getString(rec, "source", "from")
	target := getString(rec, "target", "to")
	subject := id
	if subject == "" {
		subject = fmt.Sprintf("edge-%d", i+1)
	}

	if source == "" || target == "" {
		d.add(StageSanitize, DiagDroppedEdge, subject, "edge is missing source or target")
		return common.Edge{}, false
	}
	src, ok := g.Node(source)
	if !ok {
		d.add(StageSanitize, DiagDroppedEdge, subject, "edge source %q does not exist", source)
		return common.Edge{}, false
	}
	tgt, ok := g.Node(target)
	if !ok {
		d.add(StageSanitize, DiagDroppedEdge, subject, "edge target %q does not exist", target)
		return common.Edge{}, false
	}
	if source == target {
		d.add(StageSanitize, DiagDroppedEdge, subject, "edge %q -> %q is a self reference", source, target)
		return common.Edge{}, false
	}

	if id == "" {
		id = g.UniqueEdgeID(fmt.Sprintf("edge-%d", i+1))
		d.add(StageSanitize, DiagGeneratedID, id, "edge at index %d has no id", i)
	} else if g.HasEdgeID(id) {
		unique := g.UniqueEdgeID(id)
		d.add(StageSanitize, DiagGeneratedID, unique, "duplicate edge id %q renamed", id)
		id = unique
	}

	data := getRecord(rec, "data")
	relation := firstNonEmpty(
		getString(rec, "label", "relation", "relationship"),
		getString(data, "label", "relation", "relationship"),
	)
	declared := firstNonEmpty(getString(rec, "type"), getString(data, "type"))

	kind, inferred := edgeKindOf(declared, relation, src, tgt, c)
	if inferred {
		d.add(StageSanitize, DiagInferredEdgeKind, id, "edge type %q inferred as %s", declared, kind)
	}

	return common.Edge{
		ID:       id,
		Source:   source,
		Target:   target,
		Kind:     kind,
		Relation: relation,
	}, true
}

// edgeKindOf maps the declared type to an edge kind. Unrecognized types are
// inferred from the endpoints, then from the relation label, then from a
// sibling token at the start of the target's name; anything else between two
// persons becomes a union. The second return value reports that inference was
// needed.
func edgeKindOf(declared, relation string, src, tgt *common.Node, c KinshipClassifier) (common.EdgeKind, bool) {
	t := normType(declared)
	if _, ok := siblingEdgeTypes[t]; ok {
		return common.EdgeKindSiblingHint, false
	}
	if _, ok := unionEdgeTypes[t]; ok {
		return common.EdgeKindUnion, false
	}
	if _, ok := parentChildEdgeTypes[t]; ok {
		return common.EdgeKindParentChild, false
	}

	switch {
	case src.IsUnion():
		return common.EdgeKindParentChild, true
	case tgt.IsUnion():
		return common.EdgeKindUnion, true
	case containsAny(relation, parentChildRelations):
		return common.EdgeKindParentChild, true
	case containsAny(relation, unionRelations):
		return common.EdgeKindUnion, true
	case src.IsPerson() && tgt.IsPerson() &&
		c.HasSiblingPrefix(tgt.Label()) && !c.HasParentPrefix(src.Label()):
		return common.EdgeKindSiblingHint, true
	}
	return common.EdgeKindUnion, true
}

func containsAny(s string, terms []string) bool {
	s = strings.ToLower(s)
	if s == "" {
		return false
	}
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
