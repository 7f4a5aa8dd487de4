// Package walker provides the generic, language-agnostic tree traversal and
// identifier lookup shared by every per-language extractor.
package walker

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/pi22by7/semcore/internal/xerrors"
)

// DefaultMaxDepth is the hard traversal depth cap.
const DefaultMaxDepth = 100

// VisitFunc is called for every node the walker visits, in depth-first pre
// order, along with its depth from root (root is depth 0). Returning an
// error aborts the remainder of the walk.
type VisitFunc func(node *tree_sitter.Node, depth int) error

// Walk performs a bounded depth-first traversal of root, calling visit for
// every descendant including root itself. Exceeding maxDepth surfaces a
// DepthExceeded error; maxDepth <= 0 uses DefaultMaxDepth.
func Walk(root *tree_sitter.Node, maxDepth int, visit VisitFunc) error {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return walk(root, 0, maxDepth, visit)
}

func walk(node *tree_sitter.Node, depth, maxDepth int, visit VisitFunc) error {
	if node == nil {
		return nil
	}
	if depth > maxDepth {
		return xerrors.New(xerrors.DepthExceeded, "walker.Walk", nil).
			WithRecoverable(false)
	}
	if err := visit(node, depth); err != nil {
		return err
	}
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if err := walk(child, depth+1, maxDepth, visit); err != nil {
			return err
		}
	}
	return nil
}

// identifierKinds are the node kinds the generic name extractor recognizes
// as carrying a usable identifier.
var identifierKinds = map[string]bool{
	"identifier":          true,
	"property_identifier": true,
	"type_identifier":      true,
	"field_identifier":     true,
}

// NameFromNode returns the text of the first descendant of node (searched
// depth-first, including node itself) whose kind is one of the recognized
// identifier kinds. Returns "" if none is found. Language-specific
// extractors override this for fields tree-sitter exposes by name (PHP
// `name`, SQL `object_reference`, …) via NameFromField.
func NameFromNode(node *tree_sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	var found string
	_ = Walk(node, DefaultMaxDepth, func(n *tree_sitter.Node, _ int) error {
		if found != "" {
			return nil
		}
		if identifierKinds[n.Kind()] {
			found = textOf(n, content)
		}
		return nil
	})
	return found
}

// NameFromField returns the text of node's child field named field, if
// tree-sitter exposes one, otherwise falls back to NameFromNode.
func NameFromField(node *tree_sitter.Node, field string, content []byte) string {
	if node == nil {
		return ""
	}
	if fieldNode := node.ChildByFieldName(field); fieldNode != nil {
		return textOf(fieldNode, content)
	}
	return NameFromNode(node, content)
}

// textOf returns the source text spanned by node.
func textOf(node *tree_sitter.Node, content []byte) string {
	start, end := node.StartByte(), node.EndByte()
	if end > uint(len(content)) || start > end {
		return ""
	}
	return string(content[start:end])
}

// TextOf is the exported form of textOf for extractor packages that need
// raw source text (e.g. to store a function body for complexity heuristics).
func TextOf(node *tree_sitter.Node, content []byte) string { return textOf(node, content) }

// LineRangeOf returns the 1-based inclusive line range spanned by node.
func LineRangeOf(node *tree_sitter.Node) (start, end uint32) {
	return uint32(node.StartPosition().Row) + 1, uint32(node.EndPosition().Row) + 1
}
