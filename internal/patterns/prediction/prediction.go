// Package prediction scores a fixed library of architecture approach
// templates against a problem description and optional context, then
// learns from recorded outcomes to nudge template confidence over time.
package prediction

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/pi22by7/semcore/internal/types"
)

type approachTemplate struct {
	name                 string
	description          string
	complexitySuitability []string
	requiredPatterns     []string
	preferredPatterns    []string
	technologies         []string
	confidenceBase       float64
	patterns             []string
	confidence            float64
}

func defaultTemplates() map[string]*approachTemplate {
	return map[string]*approachTemplate{
		"microservices": {
			name:                 "Microservices Architecture",
			description:          "Decompose the system into independently deployable services communicating over APIs",
			complexitySuitability: []string{"Medium", "High"},
			requiredPatterns:     []string{"service_boundaries", "api_gateway"},
			preferredPatterns:    []string{"event_driven", "database_per_service"},
			technologies:         []string{"docker", "kubernetes", "rest_api"},
			confidenceBase:       0.8,
		},
		"monolith": {
			name:                 "Modular Monolith",
			description:          "Single deployable unit organized into well-separated internal modules and layers",
			complexitySuitability: []string{"Low", "Medium"},
			requiredPatterns:     []string{"layered_architecture"},
			preferredPatterns:    []string{"dependency_injection", "domain_driven_design"},
			technologies:         []string{"mvc", "orm"},
			confidenceBase:       0.7,
		},
		"event_driven": {
			name:                 "Event-Driven Architecture",
			description:          "Components communicate through published events rather than direct calls",
			complexitySuitability: []string{"Medium", "High"},
			requiredPatterns:     []string{"event_sourcing", "publisher_subscriber"},
			preferredPatterns:    []string{"saga_pattern", "cqrs"},
			technologies:         []string{"message_queue", "event_store"},
			confidenceBase:       0.75,
		},
		"serverless": {
			name:                 "Serverless Architecture",
			description:          "Functions as a service triggered by events, with no managed servers",
			complexitySuitability: []string{"Low", "Medium"},
			requiredPatterns:     []string{"function_as_service"},
			preferredPatterns:    []string{"api_gateway", "event_triggers"},
			technologies:         []string{"aws_lambda", "azure_functions", "api_gateway"},
			confidenceBase:       0.6,
		},
		"clean_architecture": {
			name:                 "Clean Architecture",
			description:          "Dependencies point inward toward use cases and domain entities, isolated from frameworks",
			complexitySuitability: []string{"Medium", "High"},
			requiredPatterns:     []string{"dependency_inversion", "use_cases"},
			preferredPatterns:    []string{"repository_pattern", "domain_entities"},
			technologies:         []string{"dependency_injection", "testing_framework"},
			confidenceBase:       0.85,
		},
		"crud": {
			name:                 "CRUD Application",
			description:          "Straightforward create/read/update/delete flows over a persistent store",
			complexitySuitability: []string{"Low"},
			requiredPatterns:     []string{"mvc", "repository"},
			preferredPatterns:    []string{"validation", "orm"},
			technologies:         []string{"database", "web_framework"},
			confidenceBase:       0.9,
		},
	}
}

var highComplexityIndicators = []string{
	"distributed", "microservices", "real-time", "high-throughput", "scalable",
	"multiple systems", "complex business rules", "enterprise", "multi-tenant",
	"event-driven", "asynchronous", "concurrent", "parallel processing",
}

var mediumComplexityIndicators = []string{
	"api", "database", "user management", "authentication", "integration",
	"business logic", "workflows", "reporting", "analytics", "modular",
}

type problemContext struct {
	Domain                  string   `json:"domain"`
	Scale                   string   `json:"scale"`
	PerformanceRequirements string   `json:"performance_requirements"`
	MaintainabilityRequirements string `json:"maintainability_requirements"`
	TeamSize                string   `json:"team_size"`
	Timeline                string   `json:"timeline"`
	ExistingPatterns        []string `json:"existing_patterns"`
	Technologies            []string `json:"technologies"`
}

func defaultContext() problemContext {
	return problemContext{
		Domain:                      "general",
		Scale:                       "medium",
		PerformanceRequirements:     "standard",
		MaintainabilityRequirements: "high",
		TeamSize:                    "small",
		Timeline:                    "months",
	}
}

type historicalApproach struct {
	Problem       string   `json:"problem"`
	Approach      string   `json:"approach"`
	Success       float64  `json:"success"`
	Complexity    string   `json:"complexity"`
	PatternsUsed  []string `json:"patterns_used"`
}

// ApproachPredictor scores architecture templates against problem
// descriptions and learns from recorded historical outcomes.
type ApproachPredictor struct {
	templates map[string]*approachTemplate
}

func NewApproachPredictor() *ApproachPredictor {
	return &ApproachPredictor{templates: defaultTemplates()}
}

func estimateComplexity(description string) string {
	lower := strings.ToLower(description)
	high := countMatches(lower, highComplexityIndicators)
	medium := countMatches(lower, mediumComplexityIndicators)

	switch {
	case high >= 2 || len(description) > 500:
		return "High"
	case medium >= 2 || high >= 1 || len(description) > 200:
		return "Medium"
	default:
		return "Low"
	}
}

func countMatches(lower string, indicators []string) int {
	count := 0
	for _, ind := range indicators {
		if strings.Contains(lower, ind) {
			count++
		}
	}
	return count
}

func parseContext(contextJSON string) problemContext {
	ctx := defaultContext()
	if strings.TrimSpace(contextJSON) == "" {
		return ctx
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(contextJSON), &raw); err != nil {
		return ctx
	}
	if v, ok := raw["domain"].(string); ok && v != "" {
		ctx.Domain = v
	}
	if v, ok := raw["scale"].(string); ok && v != "" {
		ctx.Scale = v
	}
	if v, ok := raw["performance_requirements"].(string); ok && v != "" {
		ctx.PerformanceRequirements = v
	}
	if v, ok := raw["maintainability_requirements"].(string); ok && v != "" {
		ctx.MaintainabilityRequirements = v
	}
	if v, ok := raw["team_size"].(string); ok && v != "" {
		ctx.TeamSize = v
	}
	if v, ok := raw["timeline"].(string); ok && v != "" {
		ctx.Timeline = v
	}
	ctx.ExistingPatterns = stringSlice(raw["existing_patterns"])
	ctx.Technologies = stringSlice(raw["technologies"])
	return ctx
}

func stringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

var technologyPatternInference = []struct {
	technologies []string
	pattern      string
}{
	{[]string{"react", "vue", "angular"}, "component_based"},
	{[]string{"express", "fastapi", "spring"}, "mvc"},
	{[]string{"docker", "kubernetes"}, "containerization"},
	{[]string{"redis", "kafka", "rabbitmq"}, "event_driven"},
	{[]string{"graphql"}, "api_gateway"},
}

func (p *ApproachPredictor) expandAvailablePatterns(ctx problemContext, learnedPatternIDs []string) map[string]bool {
	available := make(map[string]bool)
	for _, pat := range ctx.ExistingPatterns {
		available[pat] = true
	}
	for _, tech := range ctx.Technologies {
		techLower := strings.ToLower(tech)
		for _, rule := range technologyPatternInference {
			for _, t := range rule.technologies {
				if strings.Contains(techLower, t) {
					available[rule.pattern] = true
				}
			}
		}
	}
	for _, id := range learnedPatternIDs {
		available[id] = true
	}
	return available
}

func fractionAvailable(required []string, available map[string]bool) float64 {
	if len(required) == 0 {
		return 1.0
	}
	found := 0
	for _, r := range required {
		if available[r] {
			found++
		}
	}
	return float64(found) / float64(len(required))
}

func countAvailable(preferred []string, available map[string]bool) int {
	count := 0
	for _, p := range preferred {
		if available[p] {
			count++
		}
	}
	return count
}

func contextMultiplier(tmpl *approachTemplate, ctx problemContext) float64 {
	multiplier := 1.0

	switch {
	case tmpl.name == "Microservices Architecture" && ctx.Scale == "large":
		multiplier *= 1.2
	case tmpl.name == "Microservices Architecture" && ctx.Scale == "small":
		multiplier *= 0.7
	case tmpl.name == "Modular Monolith" && (ctx.Scale == "small" || ctx.Scale == "medium"):
		multiplier *= 1.1
	case tmpl.name == "CRUD Application" && ctx.Scale == "small":
		multiplier *= 1.3
	case tmpl.name == "CRUD Application" && ctx.Scale == "large":
		multiplier *= 0.5
	}

	if ctx.PerformanceRequirements == "high" {
		switch tmpl.name {
		case "Event-Driven Architecture":
			multiplier *= 1.1
		case "Serverless Architecture":
			multiplier *= 0.8
		}
	}

	if ctx.TeamSize == "large" && tmpl.name == "Clean Architecture" {
		multiplier *= 1.2
	}

	switch {
	case tmpl.name == "Microservices Architecture" && ctx.Domain == "enterprise":
		multiplier *= 1.15
	case tmpl.name == "CRUD Application" && ctx.Domain == "prototype":
		multiplier *= 1.2
	case tmpl.name == "Event-Driven Architecture" && ctx.Domain == "real_time":
		multiplier *= 1.3
	case tmpl.name == "Serverless Architecture" && ctx.Domain == "prototype":
		multiplier *= 1.1
	case tmpl.name == "Clean Architecture" && ctx.Domain == "long_term_project":
		multiplier *= 1.2
	}

	switch ctx.MaintainabilityRequirements {
	case "high":
		switch tmpl.name {
		case "Clean Architecture":
			multiplier *= 1.25
		case "Modular Monolith":
			multiplier *= 1.1
		}
	case "low":
		switch tmpl.name {
		case "CRUD Application":
			multiplier *= 1.1
		case "Serverless Architecture":
			multiplier *= 1.05
		}
	}

	switch ctx.Timeline {
	case "urgent", "short":
		switch tmpl.name {
		case "CRUD Application":
			multiplier *= 1.3
		case "Serverless Architecture":
			multiplier *= 1.15
		case "Microservices Architecture":
			multiplier *= 0.7
		}
	case "long_term", "ongoing":
		switch tmpl.name {
		case "Clean Architecture":
			multiplier *= 1.2
		case "Microservices Architecture":
			multiplier *= 1.1
		case "CRUD Application":
			multiplier *= 0.8
		}
	}

	return multiplier
}

func calculateTemplateConfidence(tmpl *approachTemplate, available map[string]bool, ctx problemContext) float64 {
	confidence := tmpl.confidenceBase
	confidence *= fractionAvailable(tmpl.requiredPatterns, available)
	confidence += float64(countAvailable(tmpl.preferredPatterns, available)) * 0.1
	confidence *= contextMultiplier(tmpl, ctx)
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

type candidate struct {
	template   *approachTemplate
	confidence float64
}

func suitableFor(tmpl *approachTemplate, complexity string) bool {
	for _, c := range tmpl.complexitySuitability {
		if c == complexity {
			return true
		}
	}
	return false
}

func (p *ApproachPredictor) candidates(description, contextJSON string) ([]candidate, string, problemContext) {
	complexity := estimateComplexity(description)
	ctx := parseContext(contextJSON)
	learnedIDs := make([]string, 0, len(p.templates))
	for _, tmpl := range p.templates {
		learnedIDs = append(learnedIDs, tmpl.patterns...)
	}
	available := p.expandAvailablePatterns(ctx, learnedIDs)

	names := make([]string, 0, len(p.templates))
	for name := range p.templates {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []candidate
	for _, name := range names {
		tmpl := p.templates[name]
		if !suitableFor(tmpl, complexity) {
			continue
		}
		confidence := calculateTemplateConfidence(tmpl, available, ctx)
		if confidence > 0.3 {
			out = append(out, candidate{template: tmpl, confidence: confidence})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].confidence > out[j].confidence })
	return out, complexity, ctx
}

func reasoningFor(c candidate, complexity string, ctx problemContext) string {
	parts := []string{
		"Problem complexity: " + complexity,
		"Approach confidence: " + formatPercent(c.confidence),
		c.template.description,
	}
	if ctx.PerformanceRequirements == "high" {
		parts = append(parts, "High performance requirements favor this approach")
	}
	if ctx.Scale == "large" {
		parts = append(parts, "Large scale requirements support this architectural choice")
	}
	return strings.Join(parts, ". ")
}

func formatPercent(confidence float64) string {
	pct := confidence * 100
	whole := int(pct)
	tenths := int((pct-float64(whole))*10 + 0.5)
	if tenths == 10 {
		whole++
		tenths = 0
	}
	return itoa(whole) + "." + itoa(tenths) + "%"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func mergedPatterns(tmpl *approachTemplate) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range append(append([]string{}, tmpl.requiredPatterns...), tmpl.preferredPatterns...) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func predictionFrom(c candidate, complexity string, ctx problemContext) types.ApproachPrediction {
	return types.ApproachPrediction{
		Approach:   c.template.name,
		Confidence: c.confidence,
		Reasoning:  reasoningFor(c, complexity, ctx),
		Patterns:   mergedPatterns(c.template),
		Complexity: complexity,
	}
}

// PredictApproach scores every suitable template and returns the
// highest-confidence match, falling back to a generic layered approach
// when nothing clears the inclusion threshold.
func (p *ApproachPredictor) PredictApproach(description, contextJSON string) types.ApproachPrediction {
	candidates, complexity, ctx := p.candidates(description, contextJSON)
	if len(candidates) == 0 {
		return types.ApproachPrediction{
			Approach:   "Standard layered architecture with clear separation of concerns",
			Confidence: 0.5,
			Reasoning:  "Default approach when no specific patterns are identified",
			Complexity: complexity,
		}
	}
	return predictionFrom(candidates[0], complexity, ctx)
}

// GenerateAlternatives returns up to count candidates in descending
// confidence order.
func (p *ApproachPredictor) GenerateAlternatives(description, contextJSON string, count int) []types.ApproachPrediction {
	candidates, complexity, ctx := p.candidates(description, contextJSON)
	if count <= 0 || count > len(candidates) {
		count = len(candidates)
	}
	out := make([]types.ApproachPrediction, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, predictionFrom(candidates[i], complexity, ctx))
	}
	return out
}

func wordSet(s string) map[string]bool {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func jaccardSimilarity(a, b string) float64 {
	setA, setB := wordSet(a), wordSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}
	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA)
	for w := range setB {
		if !setA[w] {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LearnFromApproaches updates template confidence from recorded
// historical outcomes. Malformed payloads are a no-op, matching the
// best-effort contract of the other learn_* update paths.
func (p *ApproachPredictor) LearnFromApproaches(historyJSON string) bool {
	var records []historicalApproach
	if err := json.Unmarshal([]byte(historyJSON), &records); err != nil {
		return false
	}
	names := make([]string, 0, len(p.templates))
	for name := range p.templates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, h := range records {
		for _, name := range names {
			tmpl := p.templates[name]
			similarity := jaccardSimilarity(h.Approach, tmpl.description)
			if similarity <= 0.6 {
				continue
			}
			complexityMatch := suitableFor(tmpl, h.Complexity)
			complexityBonus := -0.05
			if complexityMatch {
				complexityBonus = 0.1
			}
			adjustment := (h.Success-0.5)*0.2 + complexityBonus
			if tmpl.confidence == 0 {
				tmpl.confidence = tmpl.confidenceBase
			}
			tmpl.confidence = clamp(tmpl.confidence+adjustment, 0.1, 1.0)
			tmpl.confidenceBase = tmpl.confidence

			if h.Success > 0.7 {
				for _, pat := range h.PatternsUsed {
					if !containsString(tmpl.patterns, pat) {
						tmpl.patterns = append(tmpl.patterns, pat)
					}
				}
			}
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
