// Package semantic is the engine's top-level façade: it extracts
// concepts from a codebase or a single file, aggregates complexity and
// detected languages/frameworks, and (on learn_from_codebase) runs
// relationship learning across the extracted concepts.
package semantic

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pi22by7/semcore/internal/complexity"
	"github.com/pi22by7/semcore/internal/config"
	"github.com/pi22by7/semcore/internal/extractors"
	"github.com/pi22by7/semcore/internal/framework"
	"github.com/pi22by7/semcore/internal/obs"
	"github.com/pi22by7/semcore/internal/parser"
	"github.com/pi22by7/semcore/internal/relationships"
	"github.com/pi22by7/semcore/internal/types"
	"github.com/pi22by7/semcore/internal/xerrors"
)

// SemanticAnalyzer is the engine's entry point: extraction, complexity
// aggregation, and relationship learning over one codebase or file.
type SemanticAnalyzer struct {
	mu sync.Mutex

	cfg      *config.Config
	parser   *parser.Manager
	detector *framework.FrameworkDetector
	calc     *complexity.ComplexityAnalyzer
	learner  *relationships.RelationshipLearner

	relationshipEdges map[string][]string
}

func NewSemanticAnalyzer(cfg *config.Config) *SemanticAnalyzer {
	if cfg == nil {
		cfg = config.Default()
	}
	return &SemanticAnalyzer{
		cfg:               cfg,
		parser:            parser.NewManager(),
		detector:          framework.NewFrameworkDetector(),
		calc:              complexity.NewComplexityAnalyzer(),
		learner:           relationships.NewRelationshipLearner(),
		relationshipEdges: make(map[string][]string),
	}
}

type walkedFile struct {
	path     string
	language string
	source   []byte
}

func (a *SemanticAnalyzer) walkCodebase(ctx context.Context, root string, maxFiles int) ([]walkedFile, error) {
	var paths []string
	maxDepth := a.cfg.Performance.MaxWalkDepth
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
		if !a.cfg.Admit(rel, info.Size()) {
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

	workers := a.cfg.Performance.ParallelFileWorkers
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
				obs.Debugf("semantic: read failed for %s: %v", p, err)
				return nil
			}
			lang, _ := a.cfg.LanguageFor(p)
			results[i] = walkedFile{path: p, language: lang, source: source}
			return nil
		})
	}
	_ = group.Wait()

	out := results[:0]
	for _, r := range results {
		if r.path != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func (a *SemanticAnalyzer) extractConcepts(ctx context.Context, root string, maxFiles int) ([]types.SemanticConcept, []string, error) {
	files, err := a.walkCodebase(ctx, root, maxFiles)
	if err != nil {
		return nil, nil, err
	}
	langSet := make(map[string]bool)
	var concepts []types.SemanticConcept
	for _, f := range files {
		if f.language != "" {
			langSet[f.language] = true
		}
		concepts = append(concepts, extractors.ExtractFromFile(ctx, a.parser, f.source, f.path, f.language)...)
	}
	languages := make([]string, 0, len(langSet))
	for lang := range langSet {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return concepts, languages, nil
}

// AnalyzeCodebase extracts concepts across root, detects frameworks, and
// aggregates complexity metrics. It does not run relationship learning;
// use LearnFromCodebase for that.
func (a *SemanticAnalyzer) AnalyzeCodebase(ctx context.Context, root string) (types.CodebaseAnalysisResult, error) {
	timeout := 300 * time.Second
	if secs := a.cfg.Performance.GlobalTimeoutSec; secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	concepts, languages, err := a.extractConcepts(ctx, root, a.cfg.Index.MaxFiles)
	if err != nil {
		return types.CodebaseAnalysisResult{}, err
	}

	frameworks, err := a.detector.DetectFrameworks(root)
	if err != nil {
		obs.Debugf("semantic: framework detection failed for %s: %v", root, err)
	}
	frameworkNames := make([]string, 0, len(frameworks))
	for _, f := range frameworks {
		frameworkNames = append(frameworkNames, f.Name)
	}

	return types.CodebaseAnalysisResult{
		Languages:  languages,
		Frameworks: frameworkNames,
		Complexity: a.calc.Calculate(concepts),
		Concepts:   concepts,
	}, nil
}

// AnalyzeFileContent extracts concepts from a single in-memory file
// without touching the filesystem walk or relationship learning.
func (a *SemanticAnalyzer) AnalyzeFileContent(ctx context.Context, filePath, content string) []types.SemanticConcept {
	lang, ok := a.cfg.LanguageFor(filePath)
	if !ok {
		lang = ""
	}
	return extractors.ExtractFromFile(ctx, a.parser, []byte(content), filePath, lang)
}

// LearnFromCodebase extracts concepts across root and, as a side effect,
// learns relationships between them, storing the resulting edge set for
// later GetConceptRelationships lookups and mirroring one representative
// edge per label back onto each concept's own Relationships field.
func (a *SemanticAnalyzer) LearnFromCodebase(ctx context.Context, root string) ([]types.SemanticConcept, error) {
	timeout := 60 * time.Second
	if secs := a.cfg.Performance.GlobalTimeoutSec; secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	concepts, _, err := a.extractConcepts(ctx, root, a.cfg.Index.MaxFiles)
	if err != nil {
		return nil, err
	}

	if !a.cfg.FeatureFlags.EnableRelationshipAnalysis {
		return concepts, nil
	}

	edges := a.learner.Learn(concepts)
	relationships.ApplyToConcepts(concepts, edges)

	a.mu.Lock()
	for id, labels := range edges {
		a.relationshipEdges[id] = labels
	}
	a.mu.Unlock()

	return concepts, nil
}

// GetConceptRelationships returns the edge set learned for a concept id
// by the most recent LearnFromCodebase call.
func (a *SemanticAnalyzer) GetConceptRelationships(id string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.relationshipEdges[id]...)
}
