// Package shared holds the small pieces of pattern-bucket bookkeeping the
// naming, structural, implementation and prediction analyzers would
// otherwise each reimplement: consolidation, confidence banding, and the
// normalized bucket key the learning engine groups patterns by.
package shared

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pi22by7/semcore/internal/types"
)

// DefaultConfidenceThreshold is the consolidation floor below which a
// pattern is dropped regardless of frequency.
const DefaultConfidenceThreshold = 0.5

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]`)

// NormalizeDescription lowercases a pattern description, strips
// non-alphanumeric characters, and joins the first three remaining words.
// It is the second half of the bucket key consolidation groups by.
func NormalizeDescription(description string) string {
	lower := strings.ToLower(description)
	stripped := nonAlphanumeric.ReplaceAllString(lower, " ")
	words := strings.Fields(stripped)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}

// BucketKey returns the (pattern_type, normalized_description) key patterns
// are grouped by during consolidation.
func BucketKey(p types.Pattern) string {
	return p.PatternType + "\x00" + NormalizeDescription(p.Description)
}

// minFrequency returns the consolidation survival floor for a pattern
// type: naming patterns need more corroborating evidence than structural
// or implementation ones, which tend to occur less often per codebase.
func minFrequency(patternType string) int {
	if patternType == "naming" || strings.HasPrefix(patternType, "naming_") {
		return 3
	}
	return 2
}

// Consolidate buckets patterns by (pattern_type, normalized_description),
// drops buckets whose merged confidence or frequency fall below the given
// threshold, and merges survivors: frequencies sum, confidence averages,
// contexts union, and examples take the first 10 seen. The first pattern
// encountered in a bucket keeps its id and description, per the
// tie-break rule consolidation is specified to honor. Bucket iteration
// order follows first-seen order, making repeated consolidation passes
// idempotent up to that ordering.
func Consolidate(patterns []types.Pattern, confidenceThreshold float64) []types.Pattern {
	if confidenceThreshold <= 0 {
		confidenceThreshold = DefaultConfidenceThreshold
	}

	order := make([]string, 0, len(patterns))
	buckets := make(map[string]*types.Pattern)
	counts := make(map[string]int)
	confidenceSums := make(map[string]float64)
	contextSets := make(map[string]map[string]bool)

	for _, p := range patterns {
		key := BucketKey(p)
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
			merged := p
			merged.Examples = append([]types.PatternExample(nil), p.Examples...)
			merged.Contexts = nil
			buckets[key] = &merged
			contextSets[key] = make(map[string]bool)
		}
		counts[key] += p.Frequency
		confidenceSums[key] += p.Confidence
		for _, ctx := range p.Contexts {
			contextSets[key][ctx] = true
		}
		if existing := buckets[key]; len(existing.Examples) < 10 {
			for _, ex := range p.Examples {
				if len(existing.Examples) >= 10 {
					break
				}
				if !containsExample(existing.Examples, ex) {
					existing.Examples = append(existing.Examples, ex)
				}
			}
		}
	}

	survivorCounts := make(map[string]int)
	for _, p := range patterns {
		survivorCounts[BucketKey(p)]++
	}

	out := make([]types.Pattern, 0, len(order))
	for _, key := range order {
		merged := buckets[key]
		freq := counts[key]
		avgConfidence := confidenceSums[key] / float64(survivorCounts[key])
		if avgConfidence < confidenceThreshold || freq < minFrequency(merged.PatternType) {
			continue
		}
		merged.Frequency = freq
		merged.Confidence = avgConfidence
		contexts := make([]string, 0, len(contextSets[key]))
		for ctx := range contextSets[key] {
			contexts = append(contexts, ctx)
		}
		sort.Strings(contexts)
		merged.Contexts = contexts
		out = append(out, *merged)
	}
	return out
}

func containsExample(list []types.PatternExample, ex types.PatternExample) bool {
	for _, item := range list {
		if item == ex {
			return true
		}
	}
	return false
}

// ConfidenceBand classifies a confidence value into the five-band
// histogram the learning engine reports in its metrics.
func ConfidenceBand(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return "high"
	case confidence >= 0.65:
		return "medium-high"
	case confidence >= 0.5:
		return "medium"
	case confidence >= 0.35:
		return "low-medium"
	default:
		return "low"
	}
}

// Metrics computes the LearningMetrics summary for a consolidated pattern
// set.
func Metrics(patterns []types.Pattern, nowUnix int64) types.LearningMetrics {
	bands := map[string]int{"high": 0, "medium-high": 0, "medium": 0, "low-medium": 0, "low": 0}
	byType := make(map[string]int)
	highConfidence := 0

	for _, p := range patterns {
		bands[ConfidenceBand(p.Confidence)]++
		byType[p.PatternType]++
		if p.Confidence >= 0.8 {
			highConfidence++
		}
	}

	var accuracy float64
	if len(patterns) > 0 {
		accuracy = float64(highConfidence) / float64(len(patterns))
	}

	return types.LearningMetrics{
		TotalPatterns:   len(patterns),
		ConfidenceBands: bands,
		PatternsByType:  byType,
		Accuracy:        accuracy,
		LastUpdatedUnix: nowUnix,
	}
}
