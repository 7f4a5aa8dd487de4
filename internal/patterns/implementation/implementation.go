// Package implementation scores a concept set and raw source against a
// table of design-pattern signatures (Singleton, Factory, Observer,
// Builder, Strategy, DependencyInjection, Decorator, Command, Adapter)
// and flags common antipatterns.
package implementation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pi22by7/semcore/internal/types"
)

type patternSignature struct {
	requiredMethods      []string
	optionalMethods      []string
	classCharacteristics []string
	codePatterns         []*regexp.Regexp
	confidenceThreshold  float64
}

func re(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

var patternSignatures = map[string]patternSignature{
	"Singleton": {
		requiredMethods:      []string{"getInstance"},
		optionalMethods:      []string{"constructor", "__construct"},
		classCharacteristics: []string{"static_instance", "private_constructor"},
		codePatterns:         re(`private\s+static\s+\w*instance`, `getInstance\(\)`, `private\s+\w*\(\)`),
		confidenceThreshold:  0.7,
	},
	"Factory": {
		requiredMethods:      []string{"create", "make", "build"},
		optionalMethods:      []string{"factory"},
		classCharacteristics: []string{"creator", "product"},
		codePatterns:         re(`create\w*\(\)`, `make\w*\(\)`, `Factory`),
		confidenceThreshold:  0.6,
	},
	"Observer": {
		requiredMethods:      []string{"notify", "update", "subscribe"},
		optionalMethods:      []string{"unsubscribe", "addListener", "removeListener"},
		classCharacteristics: []string{"subject", "observer", "listeners"},
		codePatterns:         re(`notify\w*\(\)`, `update\(\)`, `subscribe\(\)`, `addEventListener`),
		confidenceThreshold:  0.7,
	},
	"Builder": {
		requiredMethods:      []string{"build", "with", "set"},
		optionalMethods:      []string{"create", "builder"},
		classCharacteristics: []string{"builder", "director"},
		codePatterns:         re(`\.with\w+\(`, `\.set\w+\(`, `\.build\(\)`, `Builder`),
		confidenceThreshold:  0.6,
	},
	"Strategy": {
		requiredMethods:      []string{"execute", "apply", "process"},
		optionalMethods:      []string{"strategy", "algorithm"},
		classCharacteristics: []string{"strategy", "context"},
		codePatterns:         re(`execute\(\)`, `Strategy`, `setStrategy\(`),
		confidenceThreshold:  0.6,
	},
	"DependencyInjection": {
		requiredMethods:      []string{"inject", "provide", "register"},
		optionalMethods:      []string{"bind", "container"},
		classCharacteristics: []string{"injector", "container", "provider"},
		codePatterns:         re(`@inject`, `@Injectable`, `container\.get\(`, `DI`),
		confidenceThreshold:  0.7,
	},
	"Decorator": {
		requiredMethods:      []string{"wrap", "decorate"},
		optionalMethods:      []string{"unwrap"},
		classCharacteristics: []string{"decorator", "wrapper"},
		codePatterns:         re(`@\w+`, `Decorator`, `wrap\(`),
		confidenceThreshold:  0.6,
	},
	"Command": {
		requiredMethods:      []string{"execute", "undo"},
		optionalMethods:      []string{"redo", "command"},
		classCharacteristics: []string{"command", "invoker", "receiver"},
		codePatterns:         re(`execute\(\)`, `undo\(\)`, `Command`),
		confidenceThreshold:  0.7,
	},
	"Adapter": {
		requiredMethods:      []string{"adapt", "convert"},
		optionalMethods:      []string{"wrap"},
		classCharacteristics: []string{"adapter", "adaptee"},
		codePatterns:         re(`Adapter`, `adapt\(`),
		confidenceThreshold:  0.6,
	},
}

func sortedPatternNames() []string {
	names := make([]string, 0, len(patternSignatures))
	for n := range patternSignatures {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ImplementationPatternAnalyzer scores concept sets and raw code against
// design-pattern signatures and detects antipatterns.
type ImplementationPatternAnalyzer struct{}

func NewImplementationPatternAnalyzer() *ImplementationPatternAnalyzer {
	return &ImplementationPatternAnalyzer{}
}

// AnalyzeConcepts scores every signature against concepts, emitting a
// Pattern for each whose total confidence meets its threshold.
func (a *ImplementationPatternAnalyzer) AnalyzeConcepts(concepts []types.SemanticConcept) []types.Pattern {
	var patterns []types.Pattern
	for _, name := range sortedPatternNames() {
		sig := patternSignatures[name]
		var evidence []string
		var confidence float64

		methodMatches := findMethodMatches(concepts, sig.requiredMethods)
		for _, m := range methodMatches {
			evidence = append(evidence, "Method: "+m)
		}
		if len(methodMatches) > 0 {
			confidence += 0.4 * (float64(len(methodMatches)) / float64(len(sig.requiredMethods)))
		}

		if len(sig.optionalMethods) > 0 {
			optionalMatches := findMethodMatches(concepts, sig.optionalMethods)
			for _, m := range optionalMatches {
				evidence = append(evidence, "Optional Method: "+m)
			}
			if len(optionalMatches) > 0 {
				confidence += 0.15 * (float64(len(optionalMatches)) / float64(len(sig.optionalMethods)))
			}
		}

		classMatches := findClassCharacteristicMatches(concepts, sig.classCharacteristics)
		for _, c := range classMatches {
			evidence = append(evidence, "Characteristic: "+c)
		}
		if len(classMatches) > 0 {
			confidence += 0.3 * (float64(len(classMatches)) / float64(len(sig.classCharacteristics)))
		}

		namingMatches := findNamingPatternMatches(concepts, name)
		for _, n := range namingMatches {
			evidence = append(evidence, "Naming: "+n)
		}
		if len(namingMatches) > 0 {
			confidence += 0.3
		}

		if confidence < sig.confidenceThreshold || len(evidence) == 0 {
			continue
		}

		patterns = append(patterns, types.Pattern{
			ID:          "implementation_" + strings.ToLower(name),
			PatternType: "implementation",
			Description: fmt.Sprintf("%s pattern detected", name),
			Frequency:   len(evidence),
			Confidence:  confidence,
			Examples:    examplesForPattern(name, concepts),
			Contexts:    []string{"concept_analysis"},
		})
	}
	return patterns
}

// AnalyzeCode scores every signature against raw source, emitting a
// Pattern per signature whose regex+method-substring confidence meets its
// threshold.
func (a *ImplementationPatternAnalyzer) AnalyzeCode(code, filePath string) []types.Pattern {
	var patterns []types.Pattern
	for _, name := range sortedPatternNames() {
		sig := patternSignatures[name]
		var evidence []string
		var confidence float64

		for _, codePattern := range sig.codePatterns {
			matches := codePattern.FindAllString(code, -1)
			if len(matches) > 0 {
				for _, m := range matches {
					evidence = append(evidence, "Code pattern: "+m)
				}
				confidence += 0.2
			}
		}

		for _, method := range sig.requiredMethods {
			if strings.Contains(code, method) {
				evidence = append(evidence, "Method found: "+method)
				confidence += 0.2
			}
		}

		if confidence < sig.confidenceThreshold || len(evidence) == 0 {
			continue
		}

		patterns = append(patterns, types.Pattern{
			ID:          "implementation_" + strings.ToLower(name),
			PatternType: "implementation",
			Description: fmt.Sprintf("%s pattern detected in code", name),
			Frequency:   len(evidence),
			Confidence:  confidence,
			Examples:    []types.PatternExample{{Code: strings.Join(evidence, ", "), FilePath: filePath}},
			Contexts:    []string{"code_analysis"},
		})
	}
	return patterns
}

func findMethodMatches(concepts []types.SemanticConcept, requiredMethods []string) []string {
	var matches []string
	for _, c := range concepts {
		if c.ConceptType != types.ConceptMethod && c.ConceptType != types.ConceptFunction {
			continue
		}
		lower := strings.ToLower(c.Name)
		for _, required := range requiredMethods {
			if strings.Contains(lower, strings.ToLower(required)) || isMethodVariant(lower, required) {
				matches = append(matches, c.Name)
				break
			}
		}
	}
	return matches
}

func findClassCharacteristicMatches(concepts []types.SemanticConcept, characteristics []string) []string {
	var matches []string
	for _, c := range concepts {
		for _, characteristic := range characteristics {
			cl := strings.ToLower(characteristic)
			if strings.Contains(strings.ToLower(c.Name), cl) || strings.Contains(strings.ToLower(string(c.ConceptType)), cl) {
				matches = append(matches, characteristic)
				continue
			}
			for _, v := range c.Metadata {
				if strings.Contains(strings.ToLower(v), cl) {
					matches = append(matches, characteristic)
					break
				}
			}
		}
	}
	return matches
}

func findNamingPatternMatches(concepts []types.SemanticConcept, patternName string) []string {
	var matches []string
	lower := strings.ToLower(patternName)
	for _, c := range concepts {
		if strings.Contains(strings.ToLower(c.Name), lower) || strings.Contains(strings.ToLower(c.FilePath), lower) {
			matches = append(matches, c.Name)
		}
	}
	return matches
}

func isMethodVariant(methodLower, required string) bool {
	requiredLower := strings.ToLower(required)
	switch requiredLower {
	case "getinstance":
		return strings.Contains(methodLower, "getinstance") || strings.Contains(methodLower, "instance")
	case "create":
		return strings.Contains(methodLower, "create") || strings.Contains(methodLower, "new") || strings.Contains(methodLower, "make")
	case "notify":
		return strings.Contains(methodLower, "notify") || strings.Contains(methodLower, "emit") || strings.Contains(methodLower, "trigger")
	case "update":
		return strings.Contains(methodLower, "update") || strings.Contains(methodLower, "refresh") || strings.Contains(methodLower, "change")
	case "build":
		return strings.Contains(methodLower, "build") || strings.Contains(methodLower, "construct") || strings.Contains(methodLower, "assemble")
	default:
		return strings.Contains(methodLower, requiredLower)
	}
}

func examplesForPattern(patternName string, concepts []types.SemanticConcept) []types.PatternExample {
	var examples []types.PatternExample
	lower := strings.ToLower(patternName)
	for _, c := range concepts {
		if len(examples) >= 3 {
			break
		}
		if strings.Contains(strings.ToLower(c.Name), lower) {
			examples = append(examples, types.PatternExample{
				Code:      fmt.Sprintf("%s %s", c.ConceptType, c.Name),
				FilePath:  c.FilePath,
				LineRange: c.LineRange,
			})
		}
	}
	return examples
}

var antipatternSuffixes = []string{"test", "impl", "service", "controller", "handler"}

func extractNameBase(name string) string {
	base := strings.ToLower(name)
	for len(base) > 0 && base[len(base)-1] >= '0' && base[len(base)-1] <= '9' {
		base = base[:len(base)-1]
	}
	for _, suffix := range antipatternSuffixes {
		if strings.HasSuffix(base, suffix) {
			base = base[:len(base)-len(suffix)]
			break
		}
	}
	return base
}

// DetectAntipatterns reports god objects, spaghetti functions, copy-paste
// clusters, magic-number constants and long parameter lists.
func (a *ImplementationPatternAnalyzer) DetectAntipatterns(concepts []types.SemanticConcept) []string {
	var antipatterns []string
	antipatterns = append(antipatterns, detectGodObject(concepts)...)
	antipatterns = append(antipatterns, detectSpaghettiCode(concepts)...)
	antipatterns = append(antipatterns, detectCopyPaste(concepts)...)
	antipatterns = append(antipatterns, detectMagicNumbers(concepts)...)
	antipatterns = append(antipatterns, detectLongParameterLists(concepts)...)
	return antipatterns
}

func detectGodObject(concepts []types.SemanticConcept) []string {
	var out []string
	for _, class := range concepts {
		if class.ConceptType != types.ConceptClass {
			continue
		}
		methodCount := 0
		for _, c := range concepts {
			if c.ConceptType == types.ConceptMethod && c.FilePath == class.FilePath {
				methodCount++
			}
		}
		if methodCount > 20 {
			out = append(out, fmt.Sprintf(
				"God Object anti-pattern: Class '%s' has %d methods (%s:%d)",
				class.Name, methodCount, class.FilePath, class.LineRange.Start,
			))
		}
	}
	return out
}

func detectSpaghettiCode(concepts []types.SemanticConcept) []string {
	var out []string
	for _, c := range concepts {
		if c.ConceptType != types.ConceptFunction && c.ConceptType != types.ConceptMethod {
			continue
		}
		if count := len(c.Relationships); count > 15 {
			out = append(out, fmt.Sprintf(
				"Spaghetti Code: Function '%s' has %d dependencies (%s:%d)",
				c.Name, count, c.FilePath, c.LineRange.Start,
			))
		}
	}
	return out
}

func detectCopyPaste(concepts []types.SemanticConcept) []string {
	similarNames := make(map[string][]types.SemanticConcept)
	for _, c := range concepts {
		base := extractNameBase(c.Name)
		similarNames[base] = append(similarNames[base], c)
	}
	var bases []string
	for base := range similarNames {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	var out []string
	for _, base := range bases {
		group := similarNames[base]
		if len(group) <= 3 || len(base) <= 3 {
			continue
		}
		names := make([]string, len(group))
		for i, c := range group {
			names[i] = c.Name
		}
		out = append(out, fmt.Sprintf("Potential Copy-Paste: %d similar functions found: %s", len(group), strings.Join(names, ", ")))
	}
	return out
}

var purelyNumeric = regexp.MustCompile(`^[0-9._]+$`)

func detectMagicNumbers(concepts []types.SemanticConcept) []string {
	var out []string
	for _, c := range concepts {
		if c.ConceptType != types.ConceptConstant {
			continue
		}
		if purelyNumeric.MatchString(c.Name) {
			out = append(out, fmt.Sprintf(
				"Magic Number: Constant '%s' should have a descriptive name (%s:%d)",
				c.Name, c.FilePath, c.LineRange.Start,
			))
		}
	}
	return out
}

func detectLongParameterLists(concepts []types.SemanticConcept) []string {
	var out []string
	for _, c := range concepts {
		if c.ConceptType != types.ConceptFunction && c.ConceptType != types.ConceptMethod {
			continue
		}
		params, ok := c.Metadata["parameters"]
		if !ok {
			continue
		}
		count, err := strconv.Atoi(params)
		if err != nil || count <= 5 {
			continue
		}
		out = append(out, fmt.Sprintf(
			"Long Parameter List: Function '%s' has %d parameters (%s:%d)",
			c.Name, count, c.FilePath, c.LineRange.Start,
		))
	}
	return out
}

// GenerateRecommendations suggests design patterns based on observed
// concept characteristics, skipping any pattern already detected.
func (a *ImplementationPatternAnalyzer) GenerateRecommendations(concepts []types.SemanticConcept, detected map[string]bool) []string {
	var recs []string
	if !detected["Singleton"] && hasNameSubstring(concepts, "config", "settings", "global") {
		recs = append(recs, "Consider a Singleton for shared configuration/global state")
	}
	if !detected["Factory"] && countNameSubstring(concepts, "new") > 3 {
		recs = append(recs, "Consider a Factory to simplify complex object creation")
	}
	if !detected["Observer"] && hasNameSubstring(concepts, "event", "listener", "callback") {
		recs = append(recs, "Consider an Observer for event handling")
	}
	if !detected["DependencyInjection"] && countHighCoupling(concepts) > 2 {
		recs = append(recs, "Consider dependency injection to reduce tight coupling")
	}
	return recs
}

func hasNameSubstring(concepts []types.SemanticConcept, substrs ...string) bool {
	for _, c := range concepts {
		lower := strings.ToLower(c.Name)
		for _, s := range substrs {
			if strings.Contains(lower, s) {
				return true
			}
		}
	}
	return false
}

func countNameSubstring(concepts []types.SemanticConcept, substr string) int {
	count := 0
	for _, c := range concepts {
		if strings.Contains(strings.ToLower(c.Name), substr) {
			count++
		}
	}
	return count
}

func countHighCoupling(concepts []types.SemanticConcept) int {
	count := 0
	for _, c := range concepts {
		if len(c.Relationships) > 8 {
			count++
		}
	}
	return count
}
