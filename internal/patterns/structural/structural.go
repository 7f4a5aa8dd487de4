// Package structural scores a codebase against a fixed table of
// architecture signatures (MVC, Clean, Layered, Microservices, Modular,
// EventDriven), derives structural observations from a concept set alone,
// and flags god-object/circular-dependency/layer/coupling violations.
package structural

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pi22by7/semcore/internal/types"
)

type architectureSignature struct {
	patternName          string
	requiredComponents   []string
	directoryStructure   []string
	filePatterns         []string
	confidenceThreshold  float64
}

var architectureSignatures = map[string]architectureSignature{
	"MVC": {
		patternName:         "Model-View-Controller",
		requiredComponents:  []string{"model", "view", "controller"},
		directoryStructure:  []string{"models/", "views/", "controllers/"},
		filePatterns:        []string{"*Controller.*", "*Model.*", "*View.*"},
		confidenceThreshold: 0.7,
	},
	"Clean": {
		patternName:         "Clean Architecture",
		requiredComponents:  []string{"domain", "application", "infrastructure", "presentation"},
		directoryStructure:  []string{"domain/", "application/", "infrastructure/", "presentation/"},
		filePatterns:        []string{"*Service.*", "*Repository.*", "*UseCase.*"},
		confidenceThreshold: 0.8,
	},
	"Layered": {
		patternName:         "Layered Architecture",
		requiredComponents:  []string{"api", "service", "data"},
		directoryStructure:  []string{"api/", "service/", "data/"},
		filePatterns:        []string{"*Api.*", "*Service.*", "*Repository.*"},
		confidenceThreshold: 0.6,
	},
	"Microservices": {
		patternName:         "Microservices",
		requiredComponents:  []string{"service", "gateway"},
		directoryStructure:  []string{"services/", "gateway/"},
		filePatterns:        []string{"*Service.*", "docker*", "*Gateway.*"},
		confidenceThreshold: 0.7,
	},
	"Modular": {
		patternName:         "Modular Architecture",
		requiredComponents:  []string{"modules", "shared"},
		directoryStructure:  []string{"modules/", "shared/"},
		filePatterns:        []string{"mod.*", "index.*"},
		confidenceThreshold: 0.5,
	},
	"EventDriven": {
		patternName:         "Event-Driven Architecture",
		requiredComponents:  []string{"events", "handlers", "publishers"},
		directoryStructure:  []string{"events/", "handlers/", "publishers/"},
		filePatterns:        []string{"*Event.*", "*Handler.*", "*Publisher.*"},
		confidenceThreshold: 0.7,
	},
}

var componentCensus = []struct{ substr, component string }{
	{"controller", "controller"}, {"model", "model"}, {"view", "view"},
	{"service", "service"}, {"repository", "repository"}, {"handler", "handler"},
}

type directoryAnalysis struct {
	path          string
	subdirectories []string
	depth         int
}

// StructuralPatternAnalyzer scores architecture signatures and derives
// structural observations/violations from a codebase and concept set.
type StructuralPatternAnalyzer struct{}

func NewStructuralPatternAnalyzer() *StructuralPatternAnalyzer { return &StructuralPatternAnalyzer{} }

// AnalyzeCodebaseStructure scores every registered architecture signature
// against the directory/file layout under path, emitting a Pattern for
// every signature whose score meets its confidence threshold.
func (a *StructuralPatternAnalyzer) AnalyzeCodebaseStructure(path string) ([]types.Pattern, error) {
	dirAnalysis, err := analyzeDirectoryStructure(path)
	if err != nil {
		return nil, err
	}
	filePatterns, err := analyzeFilePatterns(path)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(architectureSignatures))
	for name := range architectureSignatures {
		names = append(names, name)
	}
	sort.Strings(names)

	var patterns []types.Pattern
	for _, name := range names {
		sig := architectureSignatures[name]
		confidence := calculateStructureConfidence(dirAnalysis, filePatterns, sig)
		if confidence < sig.confidenceThreshold {
			continue
		}
		patterns = append(patterns, types.Pattern{
			ID:          "structural_" + name,
			PatternType: "structural",
			Description: fmt.Sprintf("%s architecture detected", sig.patternName),
			Frequency:   1,
			Confidence:  confidence,
			Examples:    collectStructureExamples(path, sig),
			Contexts:    []string{"codebase"},
			Metadata:    map[string]string{"characteristics": strings.Join(sig.requiredComponents, ",")},
		})
	}
	return patterns, nil
}

func analyzeDirectoryStructure(root string) ([]directoryAnalysis, error) {
	var out []directoryAnalysis
	var walk func(dir string, depth int) error
	walk = func(dir string, depth int) error {
		if depth > 5 {
			return nil
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		var subdirs []string
		for _, e := range entries {
			if e.IsDir() {
				subdirs = append(subdirs, e.Name())
			}
		}
		rel, _ := filepath.Rel(root, dir)
		out = append(out, directoryAnalysis{path: filepath.ToSlash(rel), subdirectories: subdirs, depth: depth})
		for _, e := range entries {
			if e.IsDir() {
				if err := walk(filepath.Join(dir, e.Name()), depth+1); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(root, 0); err != nil {
		return nil, err
	}
	return out, nil
}

func analyzeFilePatterns(root string) (map[string][]string, error) {
	filePatterns := make(map[string][]string)
	var walk func(dir string, depth int) error
	walk = func(dir string, depth int) error {
		if depth > 5 {
			return nil
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			full := filepath.Join(dir, e.Name())
			if e.IsDir() {
				if err := walk(full, depth+1); err != nil {
					return err
				}
				continue
			}
			lower := strings.ToLower(e.Name())
			for _, cc := range componentCensus {
				if strings.Contains(lower, cc.substr) {
					filePatterns[cc.component] = append(filePatterns[cc.component], e.Name())
				}
			}
		}
		return nil
	}
	if err := walk(root, 0); err != nil {
		return nil, err
	}
	return filePatterns, nil
}

func calculateStructureConfidence(dirAnalysis []directoryAnalysis, filePatterns map[string][]string, sig architectureSignature) float64 {
	var score float64

	if len(sig.directoryStructure) > 0 {
		dirMatches := 0
		depthPenalty := 0.0
		for _, requiredDir := range sig.directoryStructure {
			stripped := strings.TrimSuffix(requiredDir, "/")
			matched := false
			for _, da := range dirAnalysis {
				if strings.Contains(da.path, requiredDir) {
					matched = true
				}
				for _, sub := range da.subdirectories {
					if strings.Contains(sub, stripped) {
						matched = true
					}
				}
				if matched {
					if da.depth > 4 {
						depthPenalty += 0.1
					}
					break
				}
			}
			if matched {
				dirMatches++
			}
		}
		base := float64(dirMatches) / float64(len(sig.directoryStructure))
		adjusted := base - depthPenalty/float64(len(sig.directoryStructure))
		if adjusted < 0 {
			adjusted = 0
		}
		score += 0.4 * adjusted
	}

	if len(sig.requiredComponents) > 0 {
		matches := 0
		for _, component := range sig.requiredComponents {
			if _, ok := filePatterns[component]; ok {
				matches++
			}
		}
		score += 0.3 * (float64(matches) / float64(len(sig.requiredComponents)))
	}

	if len(sig.filePatterns) > 0 {
		matches := 0
		for _, pattern := range sig.filePatterns {
			key := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(pattern, "*", ""), ".", ""))
			for k := range filePatterns {
				if strings.Contains(k, key) {
					matches++
					break
				}
			}
		}
		score += 0.3 * (float64(matches) / float64(len(sig.filePatterns)))
	}

	return score
}

func collectStructureExamples(root string, sig architectureSignature) []types.PatternExample {
	var examples []types.PatternExample
	var walk func(dir string, depth int) error
	walk = func(dir string, depth int) error {
		if depth > 3 || len(examples) >= 10 {
			return nil
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			full := filepath.Join(dir, e.Name())
			lower := strings.ToLower(e.Name())
			for _, component := range sig.requiredComponents {
				if strings.Contains(lower, strings.ToLower(component)) {
					examples = append(examples, types.PatternExample{
						Code:     "Directory: " + e.Name(),
						FilePath: full,
					})
					break
				}
			}
			if err := walk(full, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	_ = walk(root, 0)
	if len(examples) > 10 {
		examples = examples[:10]
	}
	return examples
}

// AnalyzeConceptStructures derives observations from concepts alone: large
// files (> 10 concepts), namespace organization, and dependency cycles.
func (a *StructuralPatternAnalyzer) AnalyzeConceptStructures(concepts []types.SemanticConcept) []types.Pattern {
	var patterns []types.Pattern
	patterns = append(patterns, analyzeFileOrganization(concepts)...)
	patterns = append(patterns, analyzeNamespaceOrganization(concepts)...)
	patterns = append(patterns, analyzeDependencyPatterns(concepts)...)
	return patterns
}

func analyzeFileOrganization(concepts []types.SemanticConcept) []types.Pattern {
	fileConceptCounts := make(map[string]int)
	for _, c := range concepts {
		fileConceptCounts[c.FilePath]++
	}
	var files []string
	for f := range fileConceptCounts {
		files = append(files, f)
	}
	sort.Strings(files)

	var patterns []types.Pattern
	for _, f := range files {
		count := fileConceptCounts[f]
		if count <= 10 {
			continue
		}
		patterns = append(patterns, types.Pattern{
			ID:          "structural_large_file_" + f,
			PatternType: "structural",
			Description: fmt.Sprintf("Large file: %s has %d concepts", f, count),
			Frequency:   1,
			Confidence:  0.8,
			Contexts:    []string{f},
		})
	}
	return patterns
}

func analyzeNamespaceOrganization(concepts []types.SemanticConcept) []types.Pattern {
	stemCounts := make(map[string]int)
	for _, c := range concepts {
		dir := filepath.Dir(c.FilePath)
		stem := filepath.Base(dir)
		if stem == "." || stem == "" {
			continue
		}
		stemCounts[stem]++
	}
	if len(stemCounts) == 0 {
		return nil
	}
	mode, modeCount := "", 0
	var stems []string
	for s := range stemCounts {
		stems = append(stems, s)
	}
	sort.Strings(stems)
	for _, s := range stems {
		if stemCounts[s] > modeCount {
			mode, modeCount = s, stemCounts[s]
		}
	}
	return []types.Pattern{{
		ID:          "structural_namespace_organization",
		PatternType: "structural",
		Description: fmt.Sprintf("Consistent namespace organization around '%s' (%d occurrences)", mode, modeCount),
		Frequency:   modeCount,
		Confidence:  0.6,
		Contexts:    []string{mode},
	}}
}

func analyzeDependencyPatterns(concepts []types.SemanticConcept) []types.Pattern {
	dependencies := buildDependencyGraph(concepts)
	cycles := detectCycles(dependencies)
	var patterns []types.Pattern
	for _, cycle := range cycles {
		patterns = append(patterns, types.Pattern{
			ID:          "structural_cycle_" + strings.Join(cycle, "_"),
			PatternType: "structural",
			Description: "Circular dependency: " + strings.Join(cycle, " -> "),
			Frequency:   1,
			Confidence:  0.7,
		})
	}
	return patterns
}

func buildDependencyGraph(concepts []types.SemanticConcept) map[string]map[string]bool {
	// Relationship targets are concept IDs, not names, so edges are
	// resolved through an ID index before the graph is keyed by name.
	byID := make(map[string]*types.SemanticConcept)
	for i := range concepts {
		byID[concepts[i].ID] = &concepts[i]
	}

	dependencies := make(map[string]map[string]bool)
	for _, c := range concepts {
		for relType, target := range c.Relationships {
			if !strings.Contains(relType, "depends") && !strings.Contains(relType, "import") {
				continue
			}
			targetName := target
			if targetConcept, ok := byID[target]; ok {
				targetName = targetConcept.Name
			}
			if dependencies[c.Name] == nil {
				dependencies[c.Name] = make(map[string]bool)
			}
			dependencies[c.Name][targetName] = true
		}
	}
	return dependencies
}

func detectCycles(dependencies map[string]map[string]bool) [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	var path []string

	var nodes []string
	for n := range dependencies {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	var dfs func(node string)
	dfs = func(node string) {
		for _, p := range path {
			if p == node {
				idx := 0
				for i, pp := range path {
					if pp == node {
						idx = i
						break
					}
				}
				cycle := append([]string(nil), path[idx:]...)
				cycles = append(cycles, cycle)
				return
			}
		}
		if visited[node] {
			return
		}
		visited[node] = true
		path = append(path, node)
		var deps []string
		for d := range dependencies[node] {
			deps = append(deps, d)
		}
		sort.Strings(deps)
		for _, dep := range deps {
			dfs(dep)
		}
		path = path[:len(path)-1]
	}

	for _, n := range nodes {
		if !visited[n] {
			dfs(n)
		}
	}
	return cycles
}

// DetectViolations reports god objects, circular dependencies, layer
// violations and high-coupling concepts.
func (a *StructuralPatternAnalyzer) DetectViolations(concepts []types.SemanticConcept) []string {
	var violations []string
	violations = append(violations, detectGodObjectViolations(concepts)...)
	violations = append(violations, detectCircularDependencyViolations(concepts)...)
	violations = append(violations, detectLayerViolations(concepts)...)
	violations = append(violations, detectCouplingViolations(concepts)...)
	return violations
}

func detectGodObjectViolations(concepts []types.SemanticConcept) []string {
	var violations []string
	for _, class := range concepts {
		if class.ConceptType != types.ConceptClass && class.ConceptType != types.ConceptStruct {
			continue
		}
		methodCount := 0
		for _, c := range concepts {
			if (c.ConceptType != types.ConceptMethod && c.ConceptType != types.ConceptFunction) || c.FilePath != class.FilePath {
				continue
			}
			if c.LineRange.Start >= class.LineRange.Start && c.LineRange.End <= class.LineRange.End {
				methodCount++
			}
		}
		if methodCount > 20 {
			violations = append(violations, fmt.Sprintf(
				"Potential God Object: '%s' has %d methods (%s:%d)",
				class.Name, methodCount, class.FilePath, class.LineRange.Start,
			))
		}
	}
	return violations
}

func detectCircularDependencyViolations(concepts []types.SemanticConcept) []string {
	dependencies := buildDependencyGraph(concepts)
	var violations []string
	for _, cycle := range detectCycles(dependencies) {
		violations = append(violations, "Circular dependency detected: "+strings.Join(cycle, " -> "))
	}
	return violations
}

// layerHierarchy maps a layer name fragment to its index; a lower index is
// a "higher" layer, and a dependency from a lower index to a higher index
// is a violation.
var layerHierarchy = map[string]int{
	"presentation": 0, "api": 0,
	"application": 1,
	"domain": 2,
	"infrastructure": 3, "data": 3,
}

func determineLayer(filePath string) (int, bool) {
	lower := strings.ToLower(filePath)
	for name, level := range layerHierarchy {
		if strings.Contains(lower, name) {
			return level, true
		}
	}
	return 0, false
}

func detectLayerViolations(concepts []types.SemanticConcept) []string {
	// Relationship targets are always concept IDs (see
	// internal/relationships.addRelationship), never names.
	byID := make(map[string]*types.SemanticConcept)
	for i := range concepts {
		byID[concepts[i].ID] = &concepts[i]
	}

	var violations []string
	for _, c := range concepts {
		level, ok := determineLayer(c.FilePath)
		if !ok {
			continue
		}
		for relType, target := range c.Relationships {
			if !strings.Contains(relType, "depends") && !strings.Contains(relType, "import") {
				continue
			}
			targetConcept, ok := byID[target]
			if !ok {
				continue
			}
			targetLevel, ok := determineLayer(targetConcept.FilePath)
			if !ok {
				continue
			}
			if level < targetLevel {
				violations = append(violations, fmt.Sprintf(
					"Layer violation: %s depends on %s (higher layer depending on lower layer)",
					c.Name, targetConcept.Name,
				))
			}
		}
	}
	return violations
}

func detectCouplingViolations(concepts []types.SemanticConcept) []string {
	var violations []string
	for _, c := range concepts {
		coupling := len(c.Relationships)
		if coupling > 10 {
			violations = append(violations, fmt.Sprintf(
				"High coupling detected: '%s' has %d dependencies (%s:%d)",
				c.Name, coupling, c.FilePath, c.LineRange.Start,
			))
		}
	}
	return violations
}

type fileMetrics struct {
	avgConceptsPerFile float64
	maxConceptsPerFile int
	totalFiles         int
}

func calculateFileMetrics(concepts []types.SemanticConcept) fileMetrics {
	counts := make(map[string]int)
	for _, c := range concepts {
		counts[c.FilePath]++
	}
	var max int
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	fm := fileMetrics{totalFiles: len(counts), maxConceptsPerFile: max}
	if fm.totalFiles > 0 {
		fm.avgConceptsPerFile = float64(len(concepts)) / float64(fm.totalFiles)
	}
	return fm
}

type couplingMetrics struct {
	avgCoupling float64
}

func calculateCouplingMetrics(concepts []types.SemanticConcept) couplingMetrics {
	var total int
	for _, c := range concepts {
		total += len(c.Relationships)
	}
	var cm couplingMetrics
	if len(concepts) > 0 {
		cm.avgCoupling = float64(total) / float64(len(concepts))
	}
	return cm
}

// CalculateModularityScore is the bounded-sum modularity heuristic from
// file organization, coupling and distribution, clamped to [0,1].
func CalculateModularityScore(concepts []types.SemanticConcept) float64 {
	fm := calculateFileMetrics(concepts)
	cm := calculateCouplingMetrics(concepts)

	fileScore := 0.1
	if fm.avgConceptsPerFile <= 15.0 {
		fileScore = 0.4
	}

	maxFilePenalty := 0.0
	if fm.maxConceptsPerFile > 50 {
		maxFilePenalty = 0.2
	}

	distributionBonus := 0.0
	if fm.totalFiles >= 3 && len(concepts) > 0 && float64(len(concepts))/float64(fm.totalFiles) < 25.0 {
		distributionBonus = 0.2
	}

	couplingScore := 0.1
	if cm.avgCoupling <= 5.0 {
		couplingScore = 0.4
	}

	score := fileScore + distributionBonus + couplingScore - maxFilePenalty
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

// GenerateRecommendations aggregates fixed recommendation strings from the
// concept set's structural health indicators.
func (a *StructuralPatternAnalyzer) GenerateRecommendations(concepts []types.SemanticConcept) []string {
	var recs []string

	fm := calculateFileMetrics(concepts)
	if fm.maxConceptsPerFile > 10 {
		recs = append(recs, "Consider splitting large files into smaller, focused modules")
	}

	cm := calculateCouplingMetrics(concepts)
	if cm.avgCoupling > 8 {
		recs = append(recs, "High average coupling detected; consider dependency injection or interfaces")
	}

	if len(detectLayerViolations(concepts)) > 0 {
		recs = append(recs, "Enforce architectural layer boundaries")
	}

	if CalculateModularityScore(concepts) < 0.6 {
		recs = append(recs, "Refactor into modules to improve modularity")
	}

	return recs
}
