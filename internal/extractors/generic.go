package extractors

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/pi22by7/semcore/internal/parser"
	"github.com/pi22by7/semcore/internal/types"
	"github.com/pi22by7/semcore/internal/walker"
)

// ExtractConcepts walks t and emits one SemanticConcept per node whose kind
// the language's rule table recognizes, falling back to a substring match
// on "class"/"function" (the Generic row) for anything the table misses.
// Name resolution uses the node's "name" field when the grammar exposes
// one, otherwise the first identifier-shaped descendant; nodes that yield
// no name are skipped, since a concept without a name cannot be referenced
// by any later pass.
func ExtractConcepts(t *parser.Tree, filePath string) []types.SemanticConcept {
	if t == nil || t.Root() == nil {
		return nil
	}
	rules := languageRules[t.Language]

	var out []types.SemanticConcept
	_ = walker.Walk(t.Root(), walker.DefaultMaxDepth, func(n *tree_sitter.Node, _ int) error {
		kind := n.Kind()
		ct, conf, ok := classify(rules, kind)
		if !ok {
			return nil
		}
		name := walker.NameFromField(n, "name", t.Source)
		if name == "" {
			return nil
		}
		start, end := walker.LineRangeOf(n)
		c := types.SemanticConcept{
			ID:          conceptID(filePath, ct, name, start),
			Name:        name,
			ConceptType: ct,
			Confidence:  conf,
			FilePath:    filePath,
			LineRange:   types.LineRange{Start: start, End: end},
		}
		c.SetMetadata("node_kind", kind)
		c.SetMetadata("body", walker.TextOf(n, t.Source))
		out = append(out, c)
		return nil
	})
	return out
}

func classify(rules map[string]kindRule, kind string) (types.ConceptType, float64, bool) {
	if rules != nil {
		if r, ok := rules[kind]; ok {
			return r.conceptType, r.confidence, true
		}
	}
	switch {
	case strings.Contains(kind, "class"):
		return types.ConceptClass, types.ConfidenceGeneric, true
	case strings.Contains(kind, "function"):
		return types.ConceptFunction, types.ConfidenceGeneric, true
	}
	return "", 0, false
}
