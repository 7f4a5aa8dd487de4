package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pi22by7/semcore/internal/types"
)

func pattern(patternType, description string, frequency int, confidence float64) types.Pattern {
	return types.Pattern{
		ID:          patternType + "_" + description,
		PatternType: patternType,
		Description: description,
		Frequency:   frequency,
		Confidence:  confidence,
		Examples:    []types.PatternExample{{Code: "a.go:1", FilePath: "a.go"}},
	}
}

func TestConsolidate_MergesAndDropsBelowThreshold(t *testing.T) {
	patterns := []types.Pattern{
		pattern("structural", "large file detected in a.go", 2, 0.7),
		pattern("structural", "large file detected in b.go", 2, 0.9),
		pattern("naming", "camelCase function", 1, 0.9),
	}
	out := Consolidate(patterns, 0.5)

	require.Len(t, out, 1)
	assert.Equal(t, "structural", out[0].PatternType)
	assert.Equal(t, 4, out[0].Frequency)
	assert.InDelta(t, 0.8, out[0].Confidence, 0.001)
}

func TestConsolidate_IsIdempotent(t *testing.T) {
	patterns := []types.Pattern{
		pattern("structural", "large file detected", 3, 0.8),
		pattern("structural", "large file seen", 3, 0.8),
	}
	once := Consolidate(patterns, 0.5)
	twice := Consolidate(once, 0.5)
	assert.Equal(t, once, twice)
}

func TestConfidenceBand_Thresholds(t *testing.T) {
	assert.Equal(t, "high", ConfidenceBand(0.9))
	assert.Equal(t, "low", ConfidenceBand(0.1))
}
