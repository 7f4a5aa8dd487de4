// Package extractors turns a parsed tree (or, on parse failure, raw source)
// into the semantic concepts a language's declarations represent. Each
// per-language table is a direct transcription of the node-kind mapping
// this module standardizes on; the generic walker in generic.go drives all
// of them except PHP, SQL and Svelte, which need source-specific handling.
package extractors

import "github.com/pi22by7/semcore/internal/types"

// kindRule pairs a concept type with the confidence an extractor should
// report for a kind match in a given language.
type kindRule struct {
	conceptType types.ConceptType
	confidence  float64
}

// languageRules maps a tree-sitter node kind to the concept it represents,
// per language. Languages not listed here (PHP, SQL, Svelte) have dedicated
// extractors.
var languageRules = map[string]map[string]kindRule{
	"typescript": tsJsRules,
	"javascript": tsJsRules,
	"rust": {
		"struct_item": {types.ConceptStruct, types.ConfidenceAST},
		"enum_item":   {types.ConceptStruct, types.ConfidenceAST},
		"trait_item":  {types.ConceptStruct, types.ConfidenceAST},
		"impl_item":   {types.ConceptStruct, types.ConfidenceAST},
		"function_item":  {types.ConceptFunction, types.ConfidenceAST},
		"let_declaration": {types.ConceptVariable, types.ConfidenceAST},
	},
	"python": {
		"class_definition":    {types.ConceptClass, types.ConfidenceAST},
		"function_definition": {types.ConceptFunction, types.ConfidenceAST},
		"assignment":          {types.ConceptVariable, types.ConfidenceAST},
	},
	"go": {
		"type_declaration":      {types.ConceptStruct, types.ConfidenceAST},
		"struct_type":           {types.ConceptStruct, types.ConfidenceAST},
		"interface_type":        {types.ConceptStruct, types.ConfidenceAST},
		"function_declaration":  {types.ConceptFunction, types.ConfidenceAST},
		"method_declaration":    {types.ConceptFunction, types.ConfidenceAST},
		"var_declaration":       {types.ConceptVariable, types.ConfidenceAST},
		"const_declaration":     {types.ConceptVariable, types.ConfidenceAST},
	},
	"java": {
		"class_declaration":       {types.ConceptClass, types.ConfidenceAST},
		"interface_declaration":   {types.ConceptClass, types.ConfidenceAST},
		"enum_declaration":        {types.ConceptClass, types.ConfidenceAST},
		"method_declaration":      {types.ConceptFunction, types.ConfidenceAST},
		"constructor_declaration": {types.ConceptFunction, types.ConfidenceAST},
		"field_declaration":       {types.ConceptVariable, types.ConfidenceAST},
		"variable_declaration":    {types.ConceptVariable, types.ConfidenceAST},
	},
	"cpp": {
		"struct_specifier":    {types.ConceptClass, types.ConfidenceAST},
		"class_specifier":     {types.ConceptClass, types.ConfidenceAST},
		"union_specifier":     {types.ConceptClass, types.ConfidenceAST},
		"enum_specifier":      {types.ConceptClass, types.ConfidenceAST},
		"function_definition": {types.ConceptFunction, types.ConfidenceAST},
		"function_declarator": {types.ConceptFunction, types.ConfidenceAST},
		"declaration":         {types.ConceptVariable, types.ConfidenceAST},
	},
	"csharp": {
		"class_declaration":       {types.ConceptClass, types.ConfidenceAST},
		"interface_declaration":   {types.ConceptClass, types.ConfidenceAST},
		"struct_declaration":      {types.ConceptClass, types.ConfidenceAST},
		"enum_declaration":        {types.ConceptClass, types.ConfidenceAST},
		"method_declaration":      {types.ConceptFunction, types.ConfidenceAST},
		"constructor_declaration": {types.ConceptFunction, types.ConfidenceAST},
		"field_declaration":       {types.ConceptVariable, types.ConfidenceAST},
		"variable_declaration":    {types.ConceptVariable, types.ConfidenceAST},
	},
}

var tsJsRules = map[string]kindRule{
	"class_declaration":      {types.ConceptClass, types.ConfidenceAST},
	"interface_declaration":  {types.ConceptClass, types.ConfidenceAST},
	"type_alias_declaration": {types.ConceptClass, types.ConfidenceAST},
	"function_declaration":   {types.ConceptFunction, types.ConfidenceAST},
	"method_definition":      {types.ConceptFunction, types.ConfidenceAST},
	"arrow_function":         {types.ConceptFunction, types.ConfidenceAST},
	"function":               {types.ConceptFunction, types.ConfidenceAST},
	"function_expression":    {types.ConceptFunction, types.ConfidenceAST},
	"variable_declaration":   {types.ConceptVariable, types.ConfidenceAST},
	"lexical_declaration":    {types.ConceptVariable, types.ConfidenceAST},
}

// init registers the C/C++ row under the "c" language key too, since a
// single grammar serves both per the parser manager.
func init() {
	languageRules["c"] = languageRules["cpp"]
}
