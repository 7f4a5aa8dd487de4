// Package complexity aggregates complexity metrics over a whole concept
// set, as distinct from internal/parser's single-tree AnalyzeComplexity.
package complexity

import (
	"regexp"

	"github.com/pi22by7/semcore/internal/types"
)

var decisionPointPattern = regexp.MustCompile(`if|while|for|switch|case|catch|&&|\|\||\?`)

// ComplexityAnalyzer turns a concept set into codebase-level aggregate
// metrics.
type ComplexityAnalyzer struct{}

func NewComplexityAnalyzer() *ComplexityAnalyzer { return &ComplexityAnalyzer{} }

// Calculate computes function/class/file counts, per-file and per-concept
// averages, and cyclomatic/cognitive complexity estimates.
func (a *ComplexityAnalyzer) Calculate(concepts []types.SemanticConcept) types.ComplexityMetrics {
	var functionCount, classCount uint32
	files := make(map[string]bool)
	var totalLines uint64
	var maxDepth uint32

	for _, c := range concepts {
		switch c.ConceptType {
		case types.ConceptFunction, types.ConceptMethod:
			functionCount++
		case types.ConceptClass, types.ConceptInterface, types.ConceptStruct, types.ConceptEnum:
			classCount++
		}
		files[c.FilePath] = true
		totalLines += uint64(c.LineRange.Len())
		if d := uint32(len(c.Relationships)); d > maxDepth {
			maxDepth = d
		}
	}

	fileCount := uint32(len(files))
	var avgFunctionsPerFile float64
	if fileCount > 0 {
		avgFunctionsPerFile = float64(functionCount) / float64(fileCount)
	}
	var avgLinesPerConcept float64
	if len(concepts) > 0 {
		avgLinesPerConcept = float64(totalLines) / float64(len(concepts))
	}

	return types.ComplexityMetrics{
		CyclomaticComplexity: estimateCyclomatic(concepts),
		CognitiveComplexity:  estimateCognitive(concepts),
		FunctionCount:        functionCount,
		ClassCount:           classCount,
		FileCount:            fileCount,
		AvgFunctionsPerFile:  avgFunctionsPerFile,
		AvgLinesPerConcept:   avgLinesPerConcept,
		MaxNestingDepth:      maxDepth,
	}
}

func isFunctionLike(ct types.ConceptType) bool {
	return ct == types.ConceptFunction || ct == types.ConceptMethod
}

func estimateCyclomatic(concepts []types.SemanticConcept) float64 {
	var total float64
	var count int
	for _, c := range concepts {
		if !isFunctionLike(c.ConceptType) {
			continue
		}
		count++
		complexity := 1.0
		if body, ok := c.Metadata["body"]; ok {
			complexity += float64(len(decisionPointPattern.FindAllString(body, -1)))
		}
		complexity *= 2.0 - c.Confidence
		total += complexity
	}
	if count == 0 {
		return 1.0
	}
	return total / float64(count)
}

func estimateCognitive(concepts []types.SemanticConcept) float64 {
	var total float64
	var count int
	for _, c := range concepts {
		if !isFunctionLike(c.ConceptType) {
			continue
		}
		count++
		cognitive := 1.0 + float64(len(c.Relationships))*0.5
		span := float64(0)
		if c.LineRange.End > c.LineRange.Start {
			span = float64(c.LineRange.End - c.LineRange.Start)
		}
		if span > 20 {
			cognitive += (span / 20.0) * 0.3
		}
		total += cognitive
	}
	if count == 0 {
		return 1.0
	}
	return total / float64(count)
}
