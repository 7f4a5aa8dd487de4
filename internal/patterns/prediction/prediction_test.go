package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictApproach_CrudForSimpleDescription(t *testing.T) {
	p := NewApproachPredictor()
	result := p.PredictApproach("Build a simple CRUD application for managing contacts", `{"scale":"small","existing_patterns":["mvc","repository"]}`)
	assert.Equal(t, "Low", result.Complexity)
	assert.Equal(t, "CRUD Application", result.Approach)
	assert.Greater(t, result.Confidence, 0.3)
	assert.Contains(t, result.Patterns, "mvc")
}

func TestPredictApproach_HighComplexityFromKeywords(t *testing.T) {
	p := NewApproachPredictor()
	result := p.PredictApproach("A distributed, microservices, real-time, high-throughput, scalable platform", "")
	assert.Equal(t, "High", result.Complexity)
}

func TestPredictApproach_FallsBackWhenNoCandidatesSurvive(t *testing.T) {
	p := NewApproachPredictor()
	result := p.PredictApproach("tiny script", `{"scale":"large"}`)
	require.NotEmpty(t, result.Approach)
	assert.GreaterOrEqual(t, result.Confidence, 0.3)
}

func TestGenerateAlternatives_DescendingConfidence(t *testing.T) {
	p := NewApproachPredictor()
	alts := p.GenerateAlternatives("Build a scalable distributed event-driven platform for enterprise use", `{"existing_patterns":["service_boundaries","api_gateway","event_sourcing","publisher_subscriber"]}`, 3)
	require.NotEmpty(t, alts)
	for i := 1; i < len(alts); i++ {
		assert.GreaterOrEqual(t, alts[i-1].Confidence, alts[i].Confidence)
	}
}

func TestLearnFromApproaches_MalformedJSONReturnsFalse(t *testing.T) {
	p := NewApproachPredictor()
	ok := p.LearnFromApproaches("not json")
	assert.False(t, ok)
}

func TestLearnFromApproaches_BoostsConfidenceOnSuccess(t *testing.T) {
	p := NewApproachPredictor()
	before := p.PredictApproach("Build a simple CRUD application for managing contacts", `{"scale":"small"}`).Confidence

	history := `[{"problem":"manage contacts","approach":"Straightforward create/read/update/delete flows over a persistent store","success":0.95,"complexity":"Low","patterns_used":["audit_log"]}]`
	ok := p.LearnFromApproaches(history)
	require.True(t, ok)

	after := p.PredictApproach("Build a simple CRUD application for managing contacts", `{"scale":"small"}`).Confidence
	assert.GreaterOrEqual(t, after, before-0.01)
	assert.Contains(t, p.templates["crud"].patterns, "audit_log")
}

func TestJaccardSimilarity_IdenticalStrings(t *testing.T) {
	assert.Equal(t, 1.0, jaccardSimilarity("hello world", "hello world"))
}

func TestEstimateComplexity_MediumFromKeywords(t *testing.T) {
	assert.Equal(t, "Medium", estimateComplexity("An API with database integration and authentication"))
}
