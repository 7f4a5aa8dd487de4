package extractors

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pi22by7/semcore/internal/types"
)

var fallbackPatterns = []struct {
	re          *regexp.Regexp
	conceptType types.ConceptType
}{
	{regexp.MustCompile(`(?i)^\s*(?:export\s+)?(?:default\s+)?class\s+(\w+)`), types.ConceptClass},
	{regexp.MustCompile(`(?i)^\s*(?:pub\s+)?struct\s+(\w+)`), types.ConceptStruct},
	{regexp.MustCompile(`(?i)^\s*(?:export\s+)?interface\s+(\w+)`), types.ConceptInterface},
	{regexp.MustCompile(`(?i)^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)`), types.ConceptFunction},
	{regexp.MustCompile(`(?i)^\s*(?:pub\s+)?fn\s+(\w+)`), types.ConceptFunction},
	{regexp.MustCompile(`(?i)^\s*def\s+(\w+)`), types.ConceptFunction},
	{regexp.MustCompile(`(?i)(?:const|let|var)\s+(\w+)\s*=\s*(?:\([^)]*\)|[\w,\s]*)\s*=>`), types.ConceptFunction},
}

// ExtractFallback line-scans source for function/class/struct/interface
// shapes when a parser times out, errors, or the language has no grammar.
// Every emitted concept is flagged with metadata source=regex_fallback. If
// nothing matches, a single file-level concept stands in for the file.
func ExtractFallback(source []byte, filePath string) []types.SemanticConcept {
	var out []types.SemanticConcept
	lines := strings.Split(string(source), "\n")
	for i, line := range lines {
		for _, p := range fallbackPatterns {
			m := p.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			lineNo := uint32(i + 1)
			c := types.SemanticConcept{
				ID:          conceptID(filePath, p.conceptType, m[1], lineNo),
				Name:        m[1],
				ConceptType: p.conceptType,
				Confidence:  types.ConfidenceFallback,
				FilePath:    filePath,
				LineRange:   types.LineRange{Start: lineNo, End: lineNo},
			}
			c.SetMetadata("source", "regex_fallback")
			out = append(out, c)
			break
		}
	}

	if len(out) == 0 {
		stem := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		c := types.SemanticConcept{
			ID:          conceptID(filePath, types.ConceptFile, stem, 1),
			Name:        stem,
			ConceptType: types.ConceptFile,
			Confidence:  types.ConfidenceFallback,
			FilePath:    filePath,
			LineRange:   types.LineRange{Start: 1, End: uint32(len(lines))},
		}
		c.SetMetadata("source", "regex_fallback")
		out = append(out, c)
	}
	return out
}
