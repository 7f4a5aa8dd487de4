package parser

import (
	"regexp"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/pi22by7/semcore/internal/types"
	"github.com/pi22by7/semcore/internal/walker"
)

// QueryAST runs a selector expression against a parsed tree. The selector
// is a tree-sitter node kind ("function_declaration", "class_specifier", …);
// every node in the tree whose Kind() equals selector is returned as an
// AstNode, in document order. This is deliberately simpler than a full
// tree-sitter query-language selector — a direct kind match is the smallest
// thing that lets a host ask "where are all the X nodes" without
// re-implementing the query compiler this module doesn't otherwise need.
func (m *Manager) QueryAST(code, language, selector string) ([]types.AstNode, error) {
	t, err := m.Parse([]byte(code), language)
	if err != nil {
		return nil, err
	}
	var out []types.AstNode
	_ = walker.Walk(t.Root(), walker.DefaultMaxDepth, func(n *tree_sitter.Node, _ int) error {
		if n.Kind() == selector {
			out = append(out, toAstNode(n, t.Source))
		}
		return nil
	})
	return out, nil
}

// decisionPointPattern counts the branch/loop/logical-operator tokens
// treated as cyclomatic decision points.
var decisionPointPattern = regexp.MustCompile(`\b(if|while|for|switch|case|catch)\b|&&|\|\||\?`)

// classKinds/functionKinds let AnalyzeComplexity count declarations without
// depending on a specific per-language extractor.
var classKinds = map[string]bool{
	"class_declaration": true, "class_specifier": true, "class_definition": true,
	"interface_declaration": true, "interface_type": true,
	"struct_item": true, "struct_specifier": true, "struct_type": true,
	"enum_item": true, "enum_declaration": true, "enum_specifier": true,
	"trait_item": true, "impl_item": true,
}

var functionKinds = map[string]bool{
	"function_declaration": true, "function_definition": true, "function_item": true,
	"method_declaration": true, "method_definition": true,
	"arrow_function": true, "function_expression": true,
	"constructor_declaration": true,
}

// AnalyzeComplexity computes cyclomatic/cognitive/nesting/function_count/
// class_count as tree-walk heuristics, never as ground-truth control-flow
// analysis.
func (m *Manager) AnalyzeComplexity(code, language string) (map[string]uint32, error) {
	t, err := m.Parse([]byte(code), language)
	if err != nil {
		return nil, err
	}

	var functionCount, classCount uint32
	var maxNesting uint32
	var cyclomaticTotal, cognitiveTotal uint32
	var consideredFunctions uint32

	_ = walker.Walk(t.Root(), walker.DefaultMaxDepth, func(n *tree_sitter.Node, depth int) error {
		kind := n.Kind()
		if classKinds[kind] {
			classCount++
		}
		if functionKinds[kind] {
			functionCount++
			consideredFunctions++
			body := walker.TextOf(n, t.Source)
			decisions := uint32(len(decisionPointPattern.FindAllString(body, -1)))
			cyclomaticTotal += 1 + decisions
			start, end := walker.LineRangeOf(n)
			span := int(end - start)
			cognitive := 1.0
			if span > 20 {
				cognitive += float64(span-20) / 20.0 * 0.3
			}
			cognitiveTotal += uint32(cognitive)
		}
		nd := uint32(depth)
		if nd > maxNesting {
			maxNesting = nd
		}
		return nil
	})

	result := map[string]uint32{
		"function_count":   functionCount,
		"class_count":       classCount,
		"max_nesting_depth": maxNesting,
		"cyclomatic":        0,
		"cognitive":         0,
	}
	if consideredFunctions > 0 {
		result["cyclomatic"] = cyclomaticTotal / consideredFunctions
		result["cognitive"] = cognitiveTotal / consideredFunctions
	}
	return result, nil
}
