package genogram

import (
	"regexp"
	"strings"
)

// KinshipClassifier decides which raw labels denote sibling relations and the
// index subject. The graph algorithms only ever talk to this interface.
type KinshipClassifier interface {
	// IsSiblingRelation reports whether an edge relation label describes
	// siblings.
	IsSiblingRelation(relation string) bool
	// HasSiblingPrefix reports whether a display name starts with a sibling
	// kinship token.
	HasSiblingPrefix(name string) bool
	// HasParentPrefix reports whether a display name starts with a parent
	// kinship token. A parent is never the sibling of its own children.
	HasParentPrefix(name string) bool
	// IsSelfLabel reports whether a display name marks the index subject.
	IsSelfLabel(name string) bool
}

// Vocabulary holds the term lists used by VocabularyClassifier.
//
// Exclusions veto a sibling match, e.g. in-law terms sharing a sibling prefix.
type Vocabulary struct {
	SiblingRelations []string
	SiblingPrefixes  []string
	ParentPrefixes   []string
	Exclusions       []string
	SelfLabels       []string
}

// DefaultVocabulary covers the Japanese terms produced by the extraction
// prompt plus their English equivalents.
var DefaultVocabulary = Vocabulary{
	SiblingRelations: []string{
		"兄弟", "姉妹", "兄妹", "姉弟", "きょうだい", "兄弟姉妹",
		"sibling", "siblings", "brother", "brothers", "sister", "sisters",
	},
	SiblingPrefixes: []string{
		"長兄", "次兄", "長姉", "次姉", "兄", "姉", "弟", "妹",
		"お兄", "お姉",
		"elder brother", "elder sister", "older brother", "older sister",
		"younger brother", "younger sister", "brother", "sister",
	},
	ParentPrefixes: []string{
		"祖父", "祖母", "父", "母", "お父", "お母", "義父", "義母", "養父", "養母",
		"father", "mother", "grandfather", "grandmother", "dad", "mom",
	},
	Exclusions: []string{"嫁", "婿", "義", "の夫", "の妻", "in-law"},
	SelfLabels: []string{"本人", "ご本人", "self"},
}

// VocabularyClassifier matches labels against a Vocabulary with compiled
// regular expressions. Matching is case insensitive.
type VocabularyClassifier struct {
	relation  *regexp.Regexp
	prefix    *regexp.Regexp
	parent    *regexp.Regexp
	exclusion *regexp.Regexp
	self      map[string]struct{}
}

// NewVocabularyClassifier compiles v into a classifier.
func NewVocabularyClassifier(v Vocabulary) *VocabularyClassifier {
	self := make(map[string]struct{}, len(v.SelfLabels))
	for _, s := range v.SelfLabels {
		self[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	return &VocabularyClassifier{
		relation:  alternation(`(?i)(?:`, `)`, v.SiblingRelations),
		prefix:    alternation(`(?i)^\s*(?:`, `)`, v.SiblingPrefixes),
		parent:    alternation(`(?i)^\s*(?:`, `)`, v.ParentPrefixes),
		exclusion: alternation(`(?i)(?:`, `)`, v.Exclusions),
		self:      self,
	}
}

// NewDefaultClassifier returns a classifier for DefaultVocabulary.
func NewDefaultClassifier() *VocabularyClassifier {
	return NewVocabularyClassifier(DefaultVocabulary)
}

func alternation(open, close string, terms []string) *regexp.Regexp {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t != "" {
			quoted = append(quoted, regexp.QuoteMeta(t))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(open + strings.Join(quoted, "|") + close)
}

// IsSiblingRelation implements KinshipClassifier.
func (c *VocabularyClassifier) IsSiblingRelation(relation string) bool {
	if c.relation == nil || strings.TrimSpace(relation) == "" {
		return false
	}
	return c.relation.MatchString(relation) && !c.excluded(relation)
}

// HasSiblingPrefix implements KinshipClassifier.
func (c *VocabularyClassifier) HasSiblingPrefix(name string) bool {
	if c.prefix == nil || strings.TrimSpace(name) == "" {
		return false
	}
	return c.prefix.MatchString(name) && !c.excluded(name)
}

// HasParentPrefix implements KinshipClassifier.
func (c *VocabularyClassifier) HasParentPrefix(name string) bool {
	if c.parent == nil || strings.TrimSpace(name) == "" {
		return false
	}
	return c.parent.MatchString(name)
}

func (c *VocabularyClassifier) excluded(s string) bool {
	return c.exclusion != nil && c.exclusion.MatchString(s)
}

// IsSelfLabel implements KinshipClassifier.
func (c *VocabularyClassifier) IsSelfLabel(name string) bool {
	_, ok := c.self[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
