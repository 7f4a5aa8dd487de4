// Package learning orchestrates the four pattern analyzers (naming,
// structural, implementation, approach prediction) into one pipeline:
// walk a codebase, run every analyzer, consolidate the results into a
// durable pattern store, and apply incremental updates as files change.
package learning

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pi22by7/semcore/internal/config"
	"github.com/pi22by7/semcore/internal/extractors"
	"github.com/pi22by7/semcore/internal/obs"
	"github.com/pi22by7/semcore/internal/parser"
	"github.com/pi22by7/semcore/internal/patterns/implementation"
	"github.com/pi22by7/semcore/internal/patterns/naming"
	"github.com/pi22by7/semcore/internal/patterns/prediction"
	"github.com/pi22by7/semcore/internal/patterns/shared"
	"github.com/pi22by7/semcore/internal/patterns/structural"
	"github.com/pi22by7/semcore/internal/types"
	"github.com/pi22by7/semcore/internal/xerrors"
)

// learningModeMaxFiles caps the walk when learning (rather than pure
// analysis), independent of config.Index.MaxFiles.
const learningModeMaxFiles = 100

// directoryOrganizationMarkers is the set of conventional top-level
// directory names that, when at least two are present, earn a
// "directory organization" pattern of their own.
var directoryOrganizationMarkers = []string{
	"src", "lib", "components", "utils", "services", "types", "models", "controllers",
}

// PatternLearningEngine orchestrates concept extraction and all four
// pattern analyzers into one consolidated, confidence-scored pattern
// store.
type PatternLearningEngine struct {
	mu sync.Mutex

	cfg    *config.Config
	parser *parser.Manager

	namingAnalyzer         *naming.NamingPatternAnalyzer
	structuralAnalyzer     *structural.StructuralPatternAnalyzer
	implementationAnalyzer *implementation.ImplementationPatternAnalyzer
	predictor              *prediction.ApproachPredictor

	confidenceThreshold float64
	learnedPatterns     map[string]types.Pattern
	patternFrequency    map[string]int
}

func NewPatternLearningEngine(cfg *config.Config) *PatternLearningEngine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &PatternLearningEngine{
		cfg:                    cfg,
		parser:                 parser.NewManager(),
		namingAnalyzer:         naming.NewNamingPatternAnalyzer(),
		structuralAnalyzer:     structural.NewStructuralPatternAnalyzer(),
		implementationAnalyzer: implementation.NewImplementationPatternAnalyzer(),
		predictor:              prediction.NewApproachPredictor(),
		confidenceThreshold:    shared.DefaultConfidenceThreshold,
		learnedPatterns:        make(map[string]types.Pattern),
		patternFrequency:       make(map[string]int),
	}
}

type walkedFile struct {
	path     string
	language string
	source   []byte
}

// walkCodebase admits files per cfg (matching each path relative to root),
// reads up to maxFiles of them with bounded parallelism, and returns them
// in walk order. Reaching maxFiles ends the walk cleanly with the files
// admitted so far; ctx's deadline passing before the reads finish is a
// non-recoverable Timeout error with no partial result.
func (e *PatternLearningEngine) walkCodebase(ctx context.Context, root string, maxFiles int) ([]walkedFile, error) {
	var paths []string
	maxDepth := e.cfg.Performance.MaxWalkDepth
	if maxDepth <= 0 {
		maxDepth = 5
	}
	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))

	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			depth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
			if depth > maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if !e.cfg.Admit(rel, info.Size()) {
			return nil
		}
		paths = append(paths, path)
		if maxFiles > 0 && len(paths) >= maxFiles {
			return filepath.SkipAll
		}
		return nil
	})
	if walkErr != nil && walkErr != filepath.SkipAll {
		return nil, xerrors.New(xerrors.Internal, "walkCodebase", walkErr).WithRecoverable(true)
	}

	workers := e.cfg.Performance.ParallelFileWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	results := make([]walkedFile, len(paths))
	for i, p := range paths {
		i, p := i, p
		group.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			source, err := os.ReadFile(p)
			if err != nil {
				obs.Debugf("learning: read failed for %s: %v", p, err)
				return nil
			}
			lang, _ := e.cfg.LanguageFor(p)
			results[i] = walkedFile{path: p, language: lang, source: source}
			return nil
		})
	}
	_ = group.Wait()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, xerrors.New(xerrors.Timeout, "walkCodebase", ctx.Err()).WithRecoverable(false)
	}

	out := results[:0]
	for _, r := range results {
		if r.path != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func (e *PatternLearningEngine) extractConcepts(ctx context.Context, root string, maxFiles int) ([]types.SemanticConcept, error) {
	files, err := e.walkCodebase(ctx, root, maxFiles)
	if err != nil {
		return nil, err
	}
	var concepts []types.SemanticConcept
	for _, f := range files {
		concepts = append(concepts, extractors.ExtractFromFile(ctx, e.parser, f.source, f.path, f.language)...)
	}
	return concepts, nil
}

func groupConceptsByFile(concepts []types.SemanticConcept) map[string][]types.SemanticConcept {
	byFile := make(map[string][]types.SemanticConcept)
	for _, c := range concepts {
		byFile[c.FilePath] = append(byFile[c.FilePath], c)
	}
	return byFile
}

func languageOf(cfg *config.Config, path string) string {
	lang, _ := cfg.LanguageFor(path)
	return lang
}

func groupConceptsByLanguage(cfg *config.Config, concepts []types.SemanticConcept) map[string][]types.SemanticConcept {
	byLang := make(map[string][]types.SemanticConcept)
	for _, c := range concepts {
		lang := languageOf(cfg, c.FilePath)
		byLang[lang] = append(byLang[lang], c)
	}
	return byLang
}

// directoryOrganizationPattern emits a pattern when at least two of the
// conventional top-level directory markers are present under root.
func directoryOrganizationPattern(root string) *types.Pattern {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	present := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			present[strings.ToLower(entry.Name())] = true
		}
	}
	var found []string
	for _, marker := range directoryOrganizationMarkers {
		if present[marker] {
			found = append(found, marker)
		}
	}
	if len(found) < 2 {
		return nil
	}
	sort.Strings(found)
	examples := make([]types.PatternExample, 0, len(found))
	for _, marker := range found {
		examples = append(examples, types.PatternExample{
			Code:     "Directory: " + marker,
			FilePath: filepath.Join(root, marker),
		})
	}
	return &types.Pattern{
		ID:          "structural_directory_organization",
		PatternType: "structural",
		Description: "directory organization follows " + strings.Join(found, "/") + " convention",
		Frequency:   len(found),
		Confidence:  0.6 + float64(len(found))*0.05,
		Examples:    examples,
		Contexts:    []string{"codebase_structure"},
	}
}

// LearnFromCodebase runs the full pipeline: extract, run the naming
// analyzer per language and the structural and implementation analyzers,
// count high-confidence pattern ids (see updatePredictorFromPatterns),
// consolidate, and store.
func (e *PatternLearningEngine) LearnFromCodebase(ctx context.Context, root string) ([]types.Pattern, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	timeout := 60 * time.Second
	if secs := e.cfg.Performance.GlobalTimeoutSec; secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	concepts, err := e.extractConcepts(ctx, root, learningModeMaxFiles)
	if err != nil {
		return nil, err
	}

	var discovered []types.Pattern

	byLanguage := groupConceptsByLanguage(e.cfg, concepts)
	for lang, group := range byLanguage {
		discovered = append(discovered, e.namingAnalyzer.AnalyzeConcepts(group, lang)...)
	}

	if structuralPatterns, err := e.structuralAnalyzer.AnalyzeCodebaseStructure(root); err == nil {
		discovered = append(discovered, structuralPatterns...)
	}
	discovered = append(discovered, e.structuralAnalyzer.AnalyzeConceptStructures(concepts)...)
	if dirPattern := directoryOrganizationPattern(root); dirPattern != nil {
		discovered = append(discovered, *dirPattern)
	}

	discovered = append(discovered, e.implementationAnalyzer.AnalyzeConcepts(concepts)...)
	if e.cfg.FeatureFlags.EnableRawCodePatternScan {
		byFile := groupConceptsByFile(concepts)
		for path, group := range byFile {
			lang := languageOf(e.cfg, path)
			_ = lang
			if source, readErr := os.ReadFile(path); readErr == nil {
				discovered = append(discovered, e.implementationAnalyzer.AnalyzeCode(string(source), path)...)
			}
			_ = group
		}
	}

	e.updatePredictorFromPatterns(discovered)

	survivors := shared.Consolidate(discovered, e.confidenceThreshold)
	e.store(survivors)
	return survivors, nil
}

// updatePredictorFromPatterns counts, in patternFrequency, each discovered
// pattern id whose confidence exceeds 0.7. The approach predictor itself is
// not updated, so predict_approach does not see these ids as available
// patterns.
func (e *PatternLearningEngine) updatePredictorFromPatterns(patterns []types.Pattern) {
	for _, p := range patterns {
		if p.Confidence > 0.7 {
			e.patternFrequency[p.ID]++
		}
	}
}

// store merges survivors into the durable pattern map, keyed by bucket,
// keeping the tie-break rule that the first-seen pattern in a bucket
// keeps its id.
func (e *PatternLearningEngine) store(survivors []types.Pattern) {
	for _, p := range survivors {
		key := shared.BucketKey(p)
		if existing, ok := e.learnedPatterns[key]; ok {
			p.ID = existing.ID
			p.Description = existing.Description
		}
		e.learnedPatterns[key] = p
	}
}

// Metrics returns the current learning-store summary.
func (e *PatternLearningEngine) Metrics(nowUnix int64) types.LearningMetrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	patterns := make([]types.Pattern, 0, len(e.learnedPatterns))
	for _, p := range e.learnedPatterns {
		patterns = append(patterns, p)
	}
	return shared.Metrics(patterns, nowUnix)
}

// LearnedPatterns returns a snapshot of the current pattern store,
// sorted by id for deterministic output.
func (e *PatternLearningEngine) LearnedPatterns() []types.Pattern {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]types.Pattern, 0, len(e.learnedPatterns))
	for _, p := range e.learnedPatterns {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AnalyzePatterns runs all three concept-based pattern families plus
// violation detection and recommendation generation against a concept
// set that was already extracted elsewhere (e.g. by SemanticAnalyzer),
// without touching the persistent learned-pattern store.
func (e *PatternLearningEngine) AnalyzePatterns(concepts []types.SemanticConcept) types.PatternAnalysisResult {
	byLanguage := groupConceptsByLanguage(e.cfg, concepts)
	var namingPatterns []types.Pattern
	for lang, group := range byLanguage {
		namingPatterns = append(namingPatterns, e.namingAnalyzer.AnalyzeConcepts(group, lang)...)
	}
	structuralPatterns := e.structuralAnalyzer.AnalyzeConceptStructures(concepts)
	implementationPatterns := e.implementationAnalyzer.AnalyzeConcepts(concepts)

	var violations []types.Violation
	for lang, group := range byLanguage {
		for _, v := range e.namingAnalyzer.DetectViolations(group, lang) {
			violations = append(violations, types.Violation{PatternID: "naming", Message: v})
		}
	}
	for _, v := range e.structuralAnalyzer.DetectViolations(concepts) {
		violations = append(violations, types.Violation{PatternID: "structural", Message: v})
	}
	for _, v := range e.implementationAnalyzer.DetectAntipatterns(concepts) {
		violations = append(violations, types.Violation{PatternID: "implementation", Message: v})
	}

	var recommendations []string
	recommendations = append(recommendations, e.structuralAnalyzer.GenerateRecommendations(concepts)...)
	for lang := range byLanguage {
		recommendations = append(recommendations, e.namingAnalyzer.GenerateRecommendations(lang)...)
	}

	return types.PatternAnalysisResult{
		NamingPatterns:         namingPatterns,
		StructuralPatterns:     structuralPatterns,
		ImplementationPatterns: implementationPatterns,
		Violations:             violations,
		Recommendations:        recommendations,
	}
}

// PredictApproach delegates to the engine's approach predictor.
func (e *PatternLearningEngine) PredictApproach(description, contextJSON string) types.ApproachPrediction {
	return e.predictor.PredictApproach(description, contextJSON)
}

// GenerateAlternatives delegates to the engine's approach predictor.
func (e *PatternLearningEngine) GenerateAlternatives(description, contextJSON string, count int) []types.ApproachPrediction {
	return e.predictor.GenerateAlternatives(description, contextJSON, count)
}

// LearnFromChanges performs incremental learning from a before/after
// source pair: it name-diffs new identifiers out of the regex extractor
// and applies a structural-change heuristic (line-count delta > 20% or a
// change in class/function keyword counts), boosting confidence on
// patterns it judges related rather than re-running the full pipeline.
func (e *PatternLearningEngine) LearnFromChanges(oldCode, newCode, path, language string) []types.Pattern {
	e.mu.Lock()
	defer e.mu.Unlock()

	discovered := e.namingAnalyzer.LearnFromChanges(oldCode, newCode, language)

	if structuralChangeDetected(oldCode, newCode) {
		discovered = append(discovered, types.Pattern{
			ID:          "structural_change_" + path,
			PatternType: "structural",
			Description: "structural change detected in " + path,
			Frequency:   1,
			Confidence:  0.55,
			Examples:    []types.PatternExample{{Code: "structural change", FilePath: path}},
		})
	}

	if e.cfg.FeatureFlags.EnableIncrementalLearning {
		for i := range discovered {
			key := shared.BucketKey(discovered[i])
			if existing, ok := e.learnedPatterns[key]; ok {
				discovered[i].Confidence = clamp01(existing.Confidence + 0.05)
			}
		}
	}
	e.store(discovered)
	return discovered
}

func structuralChangeDetected(oldCode, newCode string) bool {
	oldLines := strings.Count(oldCode, "\n") + 1
	newLines := strings.Count(newCode, "\n") + 1
	if oldLines > 0 {
		delta := float64(newLines-oldLines) / float64(oldLines)
		if delta < 0 {
			delta = -delta
		}
		if delta > 0.2 {
			return true
		}
	}
	return keywordCount(oldCode) != keywordCount(newCode)
}

func keywordCount(code string) int {
	return strings.Count(code, "class ") + strings.Count(code, "function ") + strings.Count(code, "def ") + strings.Count(code, "fn ")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// analysisPayload is the shape learn_from_analysis accepts: a
// precomputed concept/pattern/approach snapshot, typically one a host
// captured earlier via LearnedPatterns/AnalyzePatterns and is replaying.
type analysisPayload struct {
	Concepts  []types.SemanticConcept `json:"concepts"`
	Patterns  []types.Pattern         `json:"patterns"`
	Approaches string                 `json:"approaches"`
}

// LearnFromAnalysis ingests a precomputed payload: it re-runs every
// analyzer over the embedded concepts, stores any embedded patterns
// directly, and passes an embedded approaches blob through to the
// predictor's history-learning path. Malformed JSON is a no-op that
// reports false, matching the best-effort contract of this update path.
func (e *PatternLearningEngine) LearnFromAnalysis(payloadJSON string) bool {
	var payload analysisPayload
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(payload.Concepts) > 0 {
		result := e.AnalyzePatterns(payload.Concepts)
		e.store(shared.Consolidate(append(append(result.NamingPatterns, result.StructuralPatterns...), result.ImplementationPatterns...), e.confidenceThreshold))
	}
	if len(payload.Patterns) > 0 {
		e.store(shared.Consolidate(payload.Patterns, e.confidenceThreshold))
	}
	if payload.Approaches != "" {
		e.predictor.LearnFromApproaches(payload.Approaches)
	}
	return true
}

// changeEvent is the payload shape UpdateFromChange accepts.
type changeEvent struct {
	Type     string `json:"type"`
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language"`
	OldPath  string `json:"oldPath"`
}

// UpdateFromChange handles a single file-change event, incrementing
// frequency counters for change/file-type/directory/language-usage
// buckets, mining naming patterns from the new content, and slightly
// reducing confidence of patterns tied to a deleted file's extension.
// Unknown change types are treated as modifications. Malformed JSON
// reports false.
func (e *PatternLearningEngine) UpdateFromChange(eventJSON string) bool {
	var event changeEvent
	if err := json.Unmarshal([]byte(eventJSON), &event); err != nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.cfg.FeatureFlags.EnableIncrementalLearning {
		return true
	}

	switch event.Type {
	case "delete", "remove":
		e.bumpFrequency("change_delete")
		e.degradeExtensionConfidence(event.Path)
	case "rename", "move":
		e.bumpFrequency("change_rename")
	case "add", "create":
		e.bumpFrequency("change_add")
	default:
		e.bumpFrequency("change_modify")
	}

	e.bumpFrequency("file_type_" + extensionOf(event.Path))
	e.bumpFrequency("directory_" + filepath.Dir(event.Path))
	if event.Language != "" {
		e.bumpFrequency("language_usage_" + event.Language)
	}

	if event.Content != "" && event.Language != "" {
		mined := e.namingAnalyzer.AnalyzeConcepts(extractors.ExtractFallback([]byte(event.Content), event.Path), event.Language)
		e.store(shared.Consolidate(mined, e.confidenceThreshold))
	}
	return true
}

func (e *PatternLearningEngine) bumpFrequency(key string) {
	e.patternFrequency[key]++
}

func (e *PatternLearningEngine) degradeExtensionConfidence(path string) {
	ext := extensionOf(path)
	for key, p := range e.learnedPatterns {
		if strings.Contains(p.Description, ext) {
			p.Confidence = clamp01(p.Confidence - 0.05)
			e.learnedPatterns[key] = p
		}
	}
}

func extensionOf(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimPrefix(ext, ".")
}
