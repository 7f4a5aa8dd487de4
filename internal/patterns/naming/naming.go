// Package naming classifies concept names against per-language casing
// rules, turning the census into Pattern records and flagging concepts
// that stray from the dominant casing for their context.
package naming

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/pi22by7/semcore/internal/types"
)

// rule is one casing recognizer for a language.
type rule struct {
	ruleType   string
	pattern    *regexp.Regexp
	confidence float64
}

var (
	camelCase      = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	pascalCase     = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	snakeCase      = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	kebabCase      = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	constantCase   = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
)

func r(ruleType string, re *regexp.Regexp, confidence float64) rule {
	return rule{ruleType: ruleType, pattern: re, confidence: confidence}
}

// languageRules lists the casing rules tried, in order, for each language.
// The first rule that matches a name wins.
var languageRules = map[string][]rule{
	"javascript": {r("camelCase", camelCase, 0.9), r("PascalCase", pascalCase, 0.9), r("CONSTANT_CASE", constantCase, 0.8), r("kebab-case", kebabCase, 0.5)},
	"typescript": {r("camelCase", camelCase, 0.9), r("PascalCase", pascalCase, 0.9), r("CONSTANT_CASE", constantCase, 0.8), r("kebab-case", kebabCase, 0.5)},
	"rust":       {r("snake_case", snakeCase, 0.9), r("PascalCase", pascalCase, 0.9), r("SCREAMING_SNAKE_CASE", constantCase, 0.8)},
	"python":     {r("snake_case", snakeCase, 0.9), r("PascalCase", pascalCase, 0.8), r("CONSTANT_CASE", constantCase, 0.8)},
	"go":         {r("PascalCase", pascalCase, 0.9), r("camelCase", camelCase, 0.85), r("CONSTANT_CASE", constantCase, 0.7)},
	"java":       {r("camelCase", camelCase, 0.9), r("PascalCase", pascalCase, 0.85), r("CONSTANT_CASE", constantCase, 0.8)},
	"csharp":     {r("PascalCase", pascalCase, 0.9), r("camelCase", camelCase, 0.8), r("CONSTANT_CASE", constantCase, 0.7)},
	"cpp":        {r("snake_case", snakeCase, 0.8), r("PascalCase", pascalCase, 0.8), r("CONSTANT_CASE", constantCase, 0.8)},
	"php":        {r("camelCase", camelCase, 0.85), r("snake_case", snakeCase, 0.8), r("PascalCase", pascalCase, 0.8)},
	"sql":        {r("snake_case", snakeCase, 0.9), r("CONSTANT_CASE", constantCase, 0.7)},
	"svelte":     {r("camelCase", camelCase, 0.9), r("PascalCase", pascalCase, 0.9), r("kebab-case", kebabCase, 0.5)},
}

var defaultRules = []rule{r("mixed", regexp.MustCompile(`.*`), 0.3)}

type bucket struct {
	ruleType string
	context  string
	freq     int
	baseConf float64
	examples []types.PatternExample
}

// NamingPatternAnalyzer classifies concept names by casing and reports
// deviations from the dominant casing per context.
type NamingPatternAnalyzer struct {
	// dominant maps "language:context" -> the highest-confidence rule type
	// observed for that language/context pair, across every AnalyzeConcepts
	// call made on this analyzer.
	dominant map[string]dominantEntry
}

type dominantEntry struct {
	ruleType   string
	confidence float64
}

func NewNamingPatternAnalyzer() *NamingPatternAnalyzer {
	return &NamingPatternAnalyzer{dominant: make(map[string]dominantEntry)}
}

func contextType(ct types.ConceptType) string {
	switch ct {
	case types.ConceptClass, types.ConceptInterface, types.ConceptStruct:
		return "type"
	case types.ConceptFunction, types.ConceptMethod:
		return "function"
	case types.ConceptVariable, types.ConceptField:
		return "variable"
	case types.ConceptConstant:
		return "constant"
	default:
		return "unknown"
	}
}

func rulesFor(language string) []rule {
	if rules, ok := languageRules[language]; ok {
		return rules
	}
	return defaultRules
}

// AnalyzeConcepts classifies every concept's name under language's rule
// table, bucketing by (rule, context) and emitting one Pattern per bucket
// with frequency >= 1. It also records the dominant (highest-confidence)
// rule per context for later violation detection.
func (a *NamingPatternAnalyzer) AnalyzeConcepts(concepts []types.SemanticConcept, language string) []types.Pattern {
	rules := rulesFor(language)
	buckets := make(map[string]*bucket)

	for _, c := range concepts {
		ctx := contextType(c.ConceptType)
		for _, rl := range rules {
			if !rl.pattern.MatchString(c.Name) {
				continue
			}
			key := fmt.Sprintf("%s_%s", rl.ruleType, ctx)
			b, ok := buckets[key]
			if !ok {
				b = &bucket{ruleType: rl.ruleType, context: ctx, baseConf: rl.confidence}
				buckets[key] = b
			}
			b.freq++
			b.examples = append(b.examples, types.PatternExample{
				Code:      fmt.Sprintf("%s %s", c.ConceptType, c.Name),
				FilePath:  c.FilePath,
				LineRange: c.LineRange,
			})

			dominantKey := language + ":" + ctx
			existing, has := a.dominant[dominantKey]
			if !has || existing.confidence < rl.confidence {
				a.dominant[dominantKey] = dominantEntry{ruleType: rl.ruleType, confidence: rl.confidence}
			}
			break
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var patterns []types.Pattern
	for _, key := range keys {
		b := buckets[key]
		examples := b.examples
		if len(examples) > 10 {
			examples = examples[:10]
		}
		patterns = append(patterns, types.Pattern{
			ID:          "naming_" + key,
			PatternType: "naming",
			Description: fmt.Sprintf("%s naming pattern for %s (used %d times)", b.ruleType, b.context, b.freq),
			Frequency:   b.freq,
			Confidence:  calculateConfidence(b.freq, len(examples), b.baseConf),
			Examples:    examples,
			Contexts:    []string{language},
		})
	}
	return patterns
}

func calculateConfidence(frequency, examplesCount int, baseConfidence float64) float64 {
	frequencyBoost := math.Min(math.Log10(float64(frequency))*0.1, 0.3)
	examplesBoost := math.Min(float64(examplesCount)/10.0, 0.2)
	return math.Min(baseConfidence+frequencyBoost+examplesBoost, 1.0)
}

// DetectViolations compares each concept's name against the dominant
// pattern recorded for its (language, context) pair by a prior
// AnalyzeConcepts call, returning a violation string per mismatch.
func (a *NamingPatternAnalyzer) DetectViolations(concepts []types.SemanticConcept, language string) []string {
	var violations []string
	for _, c := range concepts {
		ctx := contextType(c.ConceptType)
		dominant, ok := a.dominant[language+":"+ctx]
		if !ok {
			continue
		}
		if matchesPattern(c.Name, dominant.ruleType) {
			continue
		}
		violations = append(violations, fmt.Sprintf(
			"Naming violation in %s: '%s' should follow %s pattern (found in %s:%d)",
			c.FilePath, c.Name, dominant.ruleType, c.FilePath, c.LineRange.Start,
		))
	}
	return violations
}

func matchesPattern(name, ruleType string) bool {
	switch ruleType {
	case "camelCase":
		return camelCase.MatchString(name)
	case "PascalCase":
		return pascalCase.MatchString(name)
	case "snake_case":
		return snakeCase.MatchString(name)
	case "kebab-case":
		return kebabCase.MatchString(name)
	case "CONSTANT_CASE", "SCREAMING_SNAKE_CASE":
		return constantCase.MatchString(name)
	default:
		return true
	}
}

// GenerateRecommendations lists one suggestion per high-confidence
// (context -> dominant rule) pairing recorded for language.
func (a *NamingPatternAnalyzer) GenerateRecommendations(language string) []string {
	type rec struct {
		context, ruleType string
		confidence        float64
	}
	var recs []rec
	for key, d := range a.dominant {
		lang, ctx, ok := strings.Cut(key, ":")
		if !ok || lang != language || d.confidence <= 0.7 {
			continue
		}
		recs = append(recs, rec{ctx, d.ruleType, d.confidence})
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].context < recs[j].context })

	var out []string
	for _, rc := range recs {
		out = append(out, fmt.Sprintf("Use %s for %s names (confidence: %.2f)", rc.ruleType, rc.context, rc.confidence))
	}
	if len(out) == 0 {
		out = append(out, "Consider establishing consistent naming conventions")
	}
	return out
}

var nameExtractionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`function\s+([a-zA-Z_][a-zA-Z0-9_]*)`),
	regexp.MustCompile(`const\s+([a-zA-Z_][a-zA-Z0-9_]*)`),
	regexp.MustCompile(`let\s+([a-zA-Z_][a-zA-Z0-9_]*)`),
	regexp.MustCompile(`var\s+([a-zA-Z_][a-zA-Z0-9_]*)`),
	regexp.MustCompile(`class\s+([a-zA-Z_][a-zA-Z0-9_]*)`),
	regexp.MustCompile(`def\s+([a-zA-Z_][a-zA-Z0-9_]*)`),
	regexp.MustCompile(`fn\s+([a-zA-Z_][a-zA-Z0-9_]*)`),
	regexp.MustCompile(`func\s+([a-zA-Z_][a-zA-Z0-9_]*)`),
}

func extractNamesFromCode(code string) map[string]bool {
	names := make(map[string]bool)
	for _, re := range nameExtractionPatterns {
		for _, m := range re.FindAllStringSubmatch(code, -1) {
			names[m[1]] = true
		}
	}
	return names
}

func classifyName(name, language string) (string, bool) {
	for _, rl := range rulesFor(language) {
		if rl.pattern.MatchString(name) {
			return rl.ruleType, true
		}
	}
	return "", false
}

// LearnFromChanges diffs old and new source for newly introduced
// identifiers and classifies each against language's rule table,
// returning one Pattern per newly observed casing.
func (a *NamingPatternAnalyzer) LearnFromChanges(oldCode, newCode, language string) []types.Pattern {
	oldNames := extractNamesFromCode(oldCode)
	newNames := extractNamesFromCode(newCode)

	var patterns []types.Pattern
	var added []string
	for name := range newNames {
		if !oldNames[name] {
			added = append(added, name)
		}
	}
	sort.Strings(added)

	for _, name := range added {
		ruleType, ok := classifyName(name, language)
		if !ok {
			continue
		}
		key := ruleType + "_unknown"
		d := a.dominant[language+":unknown"]
		if d.ruleType == "" || d.confidence < 0.5 {
			a.dominant[language+":unknown"] = dominantEntry{ruleType: ruleType, confidence: 0.5}
		}
		patterns = append(patterns, types.Pattern{
			ID:          "naming_" + key,
			PatternType: "naming",
			Description: fmt.Sprintf("Detected %s pattern", ruleType),
			Frequency:   1,
			Confidence:  0.5,
			Contexts:    []string{language},
		})
	}
	return patterns
}
