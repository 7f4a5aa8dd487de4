// Package parser holds one tree-sitter parser per supported language and
// exposes the bounded parse/query/complexity operations the engine needs.
// A tree containing error sub-nodes is not itself a failure — ParseFailure
// is reserved for a grammar producing no tree at all.
package parser

import (
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/pi22by7/semcore/internal/types"
	"github.com/pi22by7/semcore/internal/walker"
	"github.com/pi22by7/semcore/internal/xerrors"
)

// Tree wraps a tree-sitter parse tree with the source bytes it was parsed
// from, since Node positions are only meaningful alongside their content.
type Tree struct {
	Language string
	Source   []byte
	Tree     *tree_sitter.Tree
}

// Root returns the parse tree's root node.
func (t *Tree) Root() *tree_sitter.Node {
	if t == nil || t.Tree == nil {
		return nil
	}
	return t.Tree.RootNode()
}

// HasErrorNodes reports whether any node in the tree is a tree-sitter ERROR
// node. This is informational only — a tree with error sub-nodes is not
// itself a parse failure.
func (t *Tree) HasErrorNodes() bool {
	root := t.Root()
	if root == nil {
		return false
	}
	found := false
	_ = walker.Walk(root, walker.DefaultMaxDepth, func(n *tree_sitter.Node, _ int) error {
		if n.IsError() {
			found = true
		}
		return nil
	})
	return found
}

// Manager holds one parser per supported language, keyed by language name
// (not by extension — callers resolve extension->language via
// internal/config before calling in).
type Manager struct {
	mu      sync.RWMutex
	parsers map[string]*tree_sitter.Parser
}

// NewManager builds a Manager with every language this module ships a
// grammar binding for: TypeScript/JavaScript, Go, Python, Rust, Java,
// C/C++, C#, PHP. SQL and Svelte have no grammar in the dependency set and
// are handled by dedicated regex-based extractors instead (see
// internal/extractors).
func NewManager() *Manager {
	m := &Manager{parsers: make(map[string]*tree_sitter.Parser)}
	m.setupJavaScript()
	m.setupTypeScript()
	m.setupGo()
	m.setupPython()
	m.setupRust()
	m.setupJava()
	m.setupCpp()
	m.setupCSharp()
	m.setupPHP()
	return m
}

func (m *Manager) register(language string, lang *tree_sitter.Language) {
	p := tree_sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		return
	}
	m.mu.Lock()
	m.parsers[language] = p
	m.mu.Unlock()
}

// Supports reports whether language has a registered grammar.
func (m *Manager) Supports(language string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.parsers[language]
	return ok
}

// Parse parses source as language, returning a ParseFailure error if the
// grammar is unsupported or produces no tree.
func (m *Manager) Parse(source []byte, language string) (*Tree, error) {
	m.mu.RLock()
	p, ok := m.parsers[language]
	m.mu.RUnlock()
	if !ok {
		return nil, xerrors.New(xerrors.UnsupportedLanguage, "parser.Parse", nil).
			WithRecoverable(true)
	}
	tree := p.Parse(source, nil)
	if tree == nil {
		return nil, xerrors.New(xerrors.ParseFailure, "parser.Parse", nil).
			WithRecoverable(true)
	}
	return &Tree{Language: language, Source: source, Tree: tree}, nil
}

// ParseCode implements ParserManager.parse_code: a parse
// tree converted to the language-agnostic AstNode shape, plus symbols and
// any error-node text.
func (m *Manager) ParseCode(code, language string) (*types.ParseResult, error) {
	t, err := m.Parse([]byte(code), language)
	if err != nil {
		return nil, err
	}
	root := t.Root()
	ast := toAstNode(root, t.Source)
	symbols := m.GetSymbols(t)
	var errs []string
	_ = walker.Walk(root, walker.DefaultMaxDepth, func(n *tree_sitter.Node, _ int) error {
		if n.IsError() {
			errs = append(errs, walker.TextOf(n, t.Source))
		}
		return nil
	})
	return &types.ParseResult{Language: language, Tree: ast, Errors: errs, Symbols: symbols}, nil
}

func toAstNode(n *tree_sitter.Node, content []byte) types.AstNode {
	return toAstNodeDepth(n, content, 0)
}

func toAstNodeDepth(n *tree_sitter.Node, content []byte, depth int) types.AstNode {
	if n == nil {
		return types.AstNode{}
	}
	start, end := walker.LineRangeOf(n)
	node := types.AstNode{
		NodeType:    n.Kind(),
		Text:        walker.TextOf(n, content),
		StartLine:   start,
		EndLine:     end,
		StartColumn: uint32(n.StartPosition().Column),
		EndColumn:   uint32(n.EndPosition().Column),
	}
	if depth >= walker.DefaultMaxDepth {
		return node
	}
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		node.Children = append(node.Children, toAstNodeDepth(n.Child(i), content, depth+1))
	}
	return node
}

// identifierDeclKinds maps a node kind to the symbol_type get_symbols
// reports for it; this is intentionally coarse (class/function/variable),
// mirroring the concept_type taxonomy used elsewhere.
var identifierDeclKinds = map[string]string{
	"class_declaration": "class", "class_specifier": "class", "class_definition": "class",
	"interface_declaration": "interface",
	"struct_item": "struct", "struct_specifier": "struct", "struct_type": "struct",
	"function_declaration": "function", "function_definition": "function", "function_item": "function",
	"method_declaration": "method", "method_definition": "method",
}

// GetSymbols walks t and reports every declaration-shaped node as a Symbol
//.
func (m *Manager) GetSymbols(t *Tree) []types.Symbol {
	if t == nil {
		return nil
	}
	var out []types.Symbol
	_ = walker.Walk(t.Root(), walker.DefaultMaxDepth, func(n *tree_sitter.Node, _ int) error {
		kind, ok := identifierDeclKinds[n.Kind()]
		if !ok {
			return nil
		}
		name := walker.NameFromNode(n, t.Source)
		if name == "" {
			return nil
		}
		out = append(out, types.Symbol{
			Name:       name,
			SymbolType: kind,
			Line:       uint32(n.StartPosition().Row) + 1,
			Column:     uint32(n.StartPosition().Column) + 1,
			Scope:      t.Language,
		})
		return nil
	})
	return out
}

// GetNodeAtPosition returns the innermost AstNode covering (line, column)
// (1-based line, 0-based column), or nil if the position is out of range
//.
func (m *Manager) GetNodeAtPosition(t *Tree, line, column uint32) *types.AstNode {
	if t == nil {
		return nil
	}
	var best *tree_sitter.Node
	_ = walker.Walk(t.Root(), walker.DefaultMaxDepth, func(n *tree_sitter.Node, _ int) error {
		start, end := n.StartPosition(), n.EndPosition()
		if uint32(start.Row)+1 > line || uint32(end.Row)+1 < line {
			return nil
		}
		if uint32(start.Row)+1 == line && uint32(start.Column) > column {
			return nil
		}
		if uint32(end.Row)+1 == line && uint32(end.Column) < column {
			return nil
		}
		best = n
		return nil
	})
	if best == nil {
		return nil
	}
	node := toAstNode(best, t.Source)
	return &node
}
