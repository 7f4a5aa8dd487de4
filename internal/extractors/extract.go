package extractors

import (
	"context"
	"time"

	"github.com/pi22by7/semcore/internal/parser"
	"github.com/pi22by7/semcore/internal/types"
)

// FileTimeout bounds how long a single file gets before extraction falls
// back to the regex scanner. tree-sitter's Parse call is not itself
// context-aware, so the call runs on its own goroutine and the timeout
// races it rather than cancelling it mid-parse.
const FileTimeout = 30 * time.Second

// ExtractFromFile routes filePath/source to the extractor appropriate for
// language: the regex-based SQL and Svelte extractors where no grammar is
// wired in, the docblock-aware PHP extractor for PHP, and the generic
// tree-sitter walker for everything else. A parse that errors, panics, or
// overruns FileTimeout degrades to ExtractFallback rather than dropping
// the file entirely.
func ExtractFromFile(ctx context.Context, m *parser.Manager, source []byte, filePath, language string) []types.SemanticConcept {
	switch language {
	case "sql":
		return ExtractSQLConcepts(source, filePath)
	case "svelte":
		return ExtractSvelteConcepts(m, source, filePath)
	}

	if !m.Supports(language) {
		return ExtractFallback(source, filePath)
	}

	ctx, cancel := context.WithTimeout(ctx, FileTimeout)
	defer cancel()

	type result struct {
		concepts []types.SemanticConcept
		ok       bool
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if recover() != nil {
				done <- result{nil, false}
			}
		}()
		t, err := m.Parse(source, language)
		if err != nil || t == nil {
			done <- result{nil, false}
			return
		}
		var concepts []types.SemanticConcept
		if language == "php" {
			concepts = ExtractPHPConcepts(t, filePath)
		} else {
			concepts = ExtractConcepts(t, filePath)
		}
		done <- result{concepts, true}
	}()

	select {
	case r := <-done:
		if !r.ok {
			return ExtractFallback(source, filePath)
		}
		return r.concepts
	case <-ctx.Done():
		return ExtractFallback(source, filePath)
	}
}
