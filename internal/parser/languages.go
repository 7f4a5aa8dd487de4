package parser

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

func (m *Manager) setupJavaScript() {
	m.register("javascript", tree_sitter.NewLanguage(tree_sitter_javascript.Language()))
}

func (m *Manager) setupTypeScript() {
	m.register("typescript", tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()))
}

func (m *Manager) setupGo() {
	m.register("go", tree_sitter.NewLanguage(tree_sitter_go.Language()))
}

func (m *Manager) setupPython() {
	m.register("python", tree_sitter.NewLanguage(tree_sitter_python.Language()))
}

func (m *Manager) setupRust() {
	m.register("rust", tree_sitter.NewLanguage(tree_sitter_rust.Language()))
}

func (m *Manager) setupJava() {
	m.register("java", tree_sitter.NewLanguage(tree_sitter_java.Language()))
}

// setupCpp registers the C++ grammar for both "cpp" and "c" — a single
// grammar serves every C/C++ extension.
func (m *Manager) setupCpp() {
	lang := tree_sitter.NewLanguage(tree_sitter_cpp.Language())
	m.register("cpp", lang)
	m.register("c", lang)
}

func (m *Manager) setupCSharp() {
	m.register("csharp", tree_sitter.NewLanguage(tree_sitter_csharp.Language()))
}

func (m *Manager) setupPHP() {
	m.register("php", tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP()))
}
