package extractors

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/pi22by7/semcore/internal/parser"
	"github.com/pi22by7/semcore/internal/types"
	"github.com/pi22by7/semcore/internal/walker"
)

// ExtractPHPConcepts walks every node of a PHP tree, including declarations
// nested in namespaces and class bodies, and emits docblock-aware concepts:
// visibility, static/abstract/final modifiers, return types, used traits,
// and parsed @param/@return/@throws tags become metadata rather than plain
// body text.
func ExtractPHPConcepts(t *parser.Tree, filePath string) []types.SemanticConcept {
	if t == nil || t.Root() == nil {
		return nil
	}
	var out []types.SemanticConcept
	_ = walker.Walk(t.Root(), walker.DefaultMaxDepth, func(n *tree_sitter.Node, _ int) error {
		extractPHPNode(n, filePath, t.Source, &out)
		return nil
	})
	return out
}

func extractPHPNode(n *tree_sitter.Node, filePath string, source []byte, out *[]types.SemanticConcept) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "class_declaration", "interface_declaration", "trait_declaration", "enum_declaration":
		if c, ok := buildPHPConstruct(n, filePath, source, n.Kind()); ok {
			*out = append(*out, c)
		}
	case "anonymous_class":
		*out = append(*out, phpAnonymousClass(n, filePath))
	case "function_definition":
		if c, ok := buildPHPConstruct(n, filePath, source, "function"); ok {
			*out = append(*out, c)
		}
	case "method_declaration":
		if c, ok := buildPHPConstruct(n, filePath, source, "method"); ok {
			*out = append(*out, c)
		}
	case "arrow_function_expression":
		*out = append(*out, phpArrowFunction(n, filePath, source))
	case "property_declaration":
		forEachChildKind(n, "property_element", func(child *tree_sitter.Node) {
			if c, ok := buildPHPConstruct(child, filePath, source, "property"); ok {
				*out = append(*out, c)
			}
		})
	case "property_promotion_parameter":
		if c, ok := buildPHPConstruct(n, filePath, source, "property"); ok {
			*out = append(*out, c)
		}
	case "const_declaration":
		forEachChildKind(n, "constant_declarator", func(child *tree_sitter.Node) {
			if c, ok := buildPHPConstruct(child, filePath, source, "constant"); ok {
				*out = append(*out, c)
			}
		})
	case "namespace_definition":
		if c, ok := buildPHPConstruct(n, filePath, source, "namespace"); ok {
			*out = append(*out, c)
		}
	case "attribute_list":
		if c, ok := phpAttribute(n, filePath, source); ok {
			*out = append(*out, c)
		}
	}
}

func forEachChildKind(n *tree_sitter.Node, kind string, fn func(*tree_sitter.Node)) {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child != nil && child.Kind() == kind {
			fn(child)
		}
	}
}

func normalizePHPConceptType(kind string) types.ConceptType {
	switch kind {
	case "class_declaration":
		return types.ConceptClass
	case "interface_declaration":
		return types.ConceptInterface
	case "trait_declaration":
		return types.ConceptTrait
	case "enum_declaration":
		return types.ConceptEnum
	case "method":
		return types.ConceptMethod
	case "function":
		return types.ConceptFunction
	case "property":
		return types.ConceptField
	case "constant":
		return types.ConceptConstant
	case "namespace":
		return types.ConceptNamespace
	default:
		return types.ConceptClass
	}
}

func buildPHPConstruct(n *tree_sitter.Node, filePath string, source []byte, kind string) (types.SemanticConcept, bool) {
	name := phpName(n, source)
	if name == "" {
		return types.SemanticConcept{}, false
	}
	start, end := walker.LineRangeOf(n)
	ct := normalizePHPConceptType(kind)

	c := types.SemanticConcept{
		ID:          conceptID(filePath, ct, name, start),
		Name:        name,
		ConceptType: ct,
		Confidence:  types.ConfidencePHP,
		FilePath:    filePath,
		LineRange:   types.LineRange{Start: start, End: end},
	}
	c.SetMetadata("language", "php")
	c.SetMetadata("kind", string(ct))

	if v := phpVisibility(n, source); v != "" {
		c.SetMetadata("visibility", v)
	}
	if phpHasModifier(n, "static") {
		c.SetMetadata("static", "true")
	}
	if phpHasModifier(n, "abstract") {
		c.SetMetadata("abstract", "true")
	}
	if phpHasModifier(n, "final") {
		c.SetMetadata("final", "true")
	}
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		c.SetMetadata("return_type", walker.TextOf(rt, source))
	}
	if ty := n.ChildByFieldName("type"); ty != nil {
		c.SetMetadata("type", walker.TextOf(ty, source))
	}

	if doc := findPHPDocblockAbove(n, source); doc != nil {
		if doc.description != "" {
			c.SetMetadata("docblock.description", doc.description)
		}
		if len(doc.params) > 0 {
			c.SetMetadata("docblock.params", strings.Join(doc.params, "|"))
		}
		if doc.returns != "" {
			c.SetMetadata("docblock.return", doc.returns)
		}
		if len(doc.throws) > 0 {
			c.SetMetadata("docblock.throws", strings.Join(doc.throws, "|"))
		}
	}

	if ct == types.ConceptClass {
		if traits := phpCollectTraits(n, source); len(traits) > 0 {
			c.SetMetadata("traits", strings.Join(traits, ","))
		}
	}

	return c, true
}

func phpName(n *tree_sitter.Node, source []byte) string {
	if named := n.ChildByFieldName("name"); named != nil {
		if text := walker.TextOf(named, source); text != "" {
			return text
		}
	}
	if name := walker.NameFromNode(n, source); name != "" {
		return name
	}
	if v := findChildKind(n, "variable_name"); v != nil {
		return strings.TrimPrefix(walker.TextOf(v, source), "$")
	}
	return ""
}

func findChildKind(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

func phpVisibility(n *tree_sitter.Node, source []byte) string {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "visibility_modifier", "public", "protected", "private":
			return walker.TextOf(child, source)
		}
	}
	return ""
}

func phpHasModifier(n *tree_sitter.Node, modifier string) bool {
	return findChildKind(n, modifier) != nil || findChildKind(n, modifier+"_modifier") != nil
}

func phpCollectTraits(n *tree_sitter.Node, source []byte) []string {
	var traits []string
	forEachChildKind(n, "trait_use_clause", func(clause *tree_sitter.Node) {
		count := clause.ChildCount()
		for i := uint(0); i < count; i++ {
			child := clause.Child(i)
			if child == nil {
				continue
			}
			if child.Kind() == "qualified_name" || child.Kind() == "name" {
				traits = append(traits, walker.TextOf(child, source))
			}
		}
	})
	return traits
}

type phpDocBlock struct {
	description string
	params      []string
	returns     string
	throws      []string
}

// findPHPDocblockAbove scans backward from n's start byte for the nearest
// "/** ... */" block immediately preceding it.
func findPHPDocblockAbove(n *tree_sitter.Node, source []byte) *phpDocBlock {
	start := int(n.StartByte())
	if start > len(source) {
		start = len(source)
	}
	text := string(source[:start])
	idx := strings.LastIndex(text, "/**")
	if idx < 0 {
		return nil
	}
	comment := strings.TrimRight(text[idx:], " \t\r\n")
	if !strings.HasSuffix(comment, "*/") {
		return nil
	}
	return parsePHPDocBlock(comment)
}

func parsePHPDocBlock(content string) *phpDocBlock {
	doc := &phpDocBlock{}
	var description []string
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimLeft(raw, "*/ ")
		switch {
		case strings.HasPrefix(line, "@param"):
			doc.params = append(doc.params, line)
		case strings.HasPrefix(line, "@return"):
			doc.returns = line
		case strings.HasPrefix(line, "@throws"):
			doc.throws = append(doc.throws, line)
		case line != "" && !strings.HasPrefix(line, "@"):
			description = append(description, line)
		}
	}
	doc.description = strings.Join(description, " ")
	return doc
}

func phpAnonymousClass(n *tree_sitter.Node, filePath string) types.SemanticConcept {
	start, end := walker.LineRangeOf(n)
	c := types.SemanticConcept{
		ID:          conceptID(filePath, types.ConceptClass, "anonymous_class", start),
		Name:        "anonymous_class",
		ConceptType: types.ConceptClass,
		Confidence:  0.75,
		FilePath:    filePath,
		LineRange:   types.LineRange{Start: start, End: end},
	}
	c.SetMetadata("language", "php")
	c.SetMetadata("kind", "class")
	c.SetMetadata("anonymous", "true")
	return c
}

func phpArrowFunction(n *tree_sitter.Node, filePath string, source []byte) types.SemanticConcept {
	start, end := walker.LineRangeOf(n)
	c := types.SemanticConcept{
		ID:          conceptID(filePath, types.ConceptFunction, "arrow_function", start),
		Name:        "arrow_function",
		ConceptType: types.ConceptFunction,
		Confidence:  0.75,
		FilePath:    filePath,
		LineRange:   types.LineRange{Start: start, End: end},
	}
	c.SetMetadata("language", "php")
	c.SetMetadata("kind", "function")
	c.SetMetadata("arrow_function", "true")
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		c.SetMetadata("return_type", walker.TextOf(rt, source))
	}
	return c
}

func phpAttribute(n *tree_sitter.Node, filePath string, source []byte) (types.SemanticConcept, bool) {
	var found types.SemanticConcept
	ok := false
	forEachChildKind(n, "attribute", func(attr *tree_sitter.Node) {
		if ok {
			return
		}
		nameNode := attr.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		name := walker.TextOf(nameNode, source)
		if name == "" {
			return
		}
		start, end := walker.LineRangeOf(attr)
		c := types.SemanticConcept{
			ID:          conceptID(filePath, types.ConceptAttribute, name, start),
			Name:        name,
			ConceptType: types.ConceptAttribute,
			Confidence:  0.8,
			FilePath:    filePath,
			LineRange:   types.LineRange{Start: start, End: end},
		}
		c.SetMetadata("language", "php")
		c.SetMetadata("kind", "attribute")
		found, ok = c, true
	})
	return found, ok
}
